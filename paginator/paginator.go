package paginator

import "strconv"

// DefaultPageSize is the page size the server-side listing uses.
const DefaultPageSize = 4

// NoMorePages is shown in place of controls when the listing fits one page.
const NoMorePages = "No more pages."

type Kind int

const (
	Previous Kind = iota
	Number
	Next
)

// Control is one navigation button. Page is the page it loads.
type Control struct {
	Kind    Kind
	Page    int
	Label   string
	Current bool
}

type Paginator struct {
	pageSize int
}

func New(pageSize int) *Paginator {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Paginator{pageSize: pageSize}
}

func (p *Paginator) PageSize() int { return p.pageSize }

// TotalPages is ceil(count / page size); zero for an empty listing.
func (p *Paginator) TotalPages(count int64) int {
	if count <= 0 {
		return 0
	}
	size := int64(p.pageSize)
	return int((count + size - 1) / size)
}

// Controls builds the navigation for the page current of a listing with
// count records. Previous and Next appear only when the server reported the
// matching cursor; with neither cursor there is nothing to navigate and the
// result is empty.
func (p *Paginator) Controls(current int, count int64, next, previous *string) []Control {
	if next == nil && previous == nil {
		return nil
	}

	total := p.TotalPages(count)
	controls := make([]Control, 0, total+2)

	if previous != nil {
		controls = append(controls, Control{Kind: Previous, Page: max(current-1, 1), Label: "Previous"})
	}
	for i := 1; i <= total; i++ {
		controls = append(controls, Control{Kind: Number, Page: i, Label: strconv.Itoa(i), Current: i == current})
	}
	if next != nil {
		controls = append(controls, Control{Kind: Next, Page: current + 1, Label: "Next"})
	}
	return controls
}
