package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mytheresa/go-catalog/app/api"
	"github.com/shopspring/decimal"
)

// form is a list of text inputs with one focused at a time.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(title string, labels []string, values []string) *form {
	f := &form{title: title, labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Cursor.SetMode(cursor.CursorStatic)
		if i < len(values) {
			in.SetValue(values[i])
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f *form) next() { f.setFocus((f.focus + 1) % len(f.inputs)) }

func (f *form) prev() { f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs)) }

func (f *form) onLast() bool { return f.focus == len(f.inputs)-1 }

// update hands an editing key to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

const (
	fieldName = iota
	fieldDescription
	fieldBrand
	fieldPrice
	fieldCategory
)

func productForm(title string, in api.ProductInput) *form {
	price := ""
	if !in.Price.IsZero() {
		price = in.Price.String()
	}
	category := ""
	if in.CategoryID != nil {
		category = strconv.FormatUint(uint64(*in.CategoryID), 10)
	}
	return newForm(title,
		[]string{"Name", "Description", "Brand", "Price", "Category ID"},
		[]string{in.Name, in.Description, in.Brand, price, category},
	)
}

var (
	errInvalidPrice    = errors.New("price must be a number")
	errInvalidCategory = errors.New("category ID must be a positive number")
)

// productInput converts the form. Presence of required fields is left to
// the controller's validation.
func (f *form) productInput() (api.ProductInput, error) {
	in := api.ProductInput{
		Name:        f.value(fieldName),
		Description: f.value(fieldDescription),
		Brand:       f.value(fieldBrand),
	}

	if s := f.value(fieldPrice); s != "" {
		price, err := decimal.NewFromString(s)
		if err != nil {
			return in, errInvalidPrice
		}
		in.Price = price
	}

	if s := f.value(fieldCategory); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return in, errInvalidCategory
		}
		categoryID := uint(id)
		in.CategoryID = &categoryID
	}
	return in, nil
}

func categoryForm() *form {
	return newForm("Add category", []string{"Name", "Description"}, nil)
}

func (f *form) categoryInput() api.CategoryInput {
	return api.CategoryInput{Name: f.value(0), Description: f.value(1)}
}
