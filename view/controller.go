package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/client"
	"github.com/mytheresa/go-catalog/paginator"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// ErrMutationInFlight is returned when a create or update is submitted while
// another one is still pending.
var ErrMutationInFlight = errors.New("a mutation is already in flight")

// ErrNotEditing is returned by SubmitUpdate when no record is selected.
var ErrNotEditing = errors.New("no product is selected for editing")

// ErrNotLoaded is returned by Select outside the Loaded state.
var ErrNotLoaded = errors.New("records are not loaded")

// ErrUnknownRecord is returned by Select for an id not on the current page.
var ErrUnknownRecord = errors.New("product is not in the current list")

// Store is the remote catalog. *client.Client implements it.
type Store interface {
	ProductsPage(ctx context.Context, page int) (*client.Page, error)
	ListProducts(ctx context.Context) ([]api.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID uint) ([]api.Product, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	CreateProduct(ctx context.Context, input api.ProductInput) error
	UpdateProduct(ctx context.Context, id uint, input api.ProductInput) error
	CreateCategory(ctx context.Context, input api.CategoryInput) error
}

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode is which listing the controller shows.
type Mode int

const (
	ModePaged Mode = iota
	ModeAll
	ModeCategory
)

type query struct {
	mode       Mode
	page       int
	categoryID uint
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	State      State
	Mode       Mode
	Page       int
	CategoryID uint
	Count      int64
	Next       *string
	Previous   *string
	Records    []api.Product
	Categories []api.Category
	// Editing is the record open in the edit form, nil when none is.
	Editing  *api.Product
	Pending  bool
	Controls []paginator.Control
}

// Empty reports the "no records found" state.
func (s Snapshot) Empty() bool {
	return s.State == Loaded && len(s.Records) == 0
}

type Controller struct {
	store     Store
	notifier  Notifier
	paginator *paginator.Paginator
	logger    zerolog.Logger

	mu         sync.Mutex
	state      State
	query      query
	seq        uint64
	count      int64
	next       *string
	previous   *string
	records    []api.Product
	categories []api.Category
	editing    *api.Product
	pending    string
}

func NewController(store Store, notifier Notifier, pager *paginator.Paginator, logger zerolog.Logger) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	if pager == nil {
		pager = paginator.New(paginator.DefaultPageSize)
	}
	return &Controller{
		store:     store,
		notifier:  notifier,
		paginator: pager,
		logger:    logger,
		state:     Idle,
		query:     query{mode: ModePaged, page: 1},
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:      c.state,
		Mode:       c.query.mode,
		Page:       c.query.page,
		CategoryID: c.query.categoryID,
		Count:      c.count,
		Next:       c.next,
		Previous:   c.previous,
		Records:    append([]api.Product(nil), c.records...),
		Categories: append([]api.Category(nil), c.categories...),
		Pending:    c.pending != "",
	}
	if c.editing != nil {
		editing := *c.editing
		s.Editing = &editing
	}
	if c.state == Loaded && c.query.mode == ModePaged {
		s.Controls = c.paginator.Controls(c.query.page, c.count, c.next, c.previous)
	}
	return s
}

// Load re-runs the current listing.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	return c.load(ctx, q)
}

func (c *Controller) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return c.load(ctx, query{mode: ModePaged, page: page})
}

func (c *Controller) ShowAll(ctx context.Context) error {
	return c.load(ctx, query{mode: ModeAll})
}

// SelectCategory replaces the displayed records with the products of one category.
func (c *Controller) SelectCategory(ctx context.Context, categoryID uint) error {
	return c.load(ctx, query{mode: ModeCategory, categoryID: categoryID})
}

// load fetches q. Only the most recently started load may apply its result;
// earlier ones finishing late are dropped.
func (c *Controller) load(ctx context.Context, q query) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.query = q
	c.state = Loading
	c.mu.Unlock()

	var (
		records        []api.Product
		count          int64
		next, previous *string
		err            error
	)
	switch q.mode {
	case ModePaged:
		var page *client.Page
		if page, err = c.store.ProductsPage(ctx, q.page); err == nil {
			records, count, next, previous = page.Results, page.Count, page.Next, page.Previous
		}
	case ModeCategory:
		if records, err = c.store.ListProductsByCategory(ctx, q.categoryID); err == nil {
			count = int64(len(records))
		}
	default:
		if records, err = c.store.ListProducts(ctx); err == nil {
			count = int64(len(records))
		}
	}

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("dropping stale load result")
		return nil
	}

	if err != nil {
		c.state = Failed
		c.records = nil
		c.editing = nil
		c.count, c.next, c.previous = 0, nil, nil
		c.mu.Unlock()

		c.logger.Error().Err(err).Int("mode", int(q.mode)).Int("page", q.page).Msg("load failed")
		c.notify("Failed to load products", err)
		return err
	}

	c.state = Loaded
	c.records = records
	c.count, c.next, c.previous = count, next, previous
	if c.editing != nil && !containsProduct(records, c.editing.ID) {
		c.editing = nil
	}
	c.mu.Unlock()

	c.logger.Debug().Int("mode", int(q.mode)).Int("page", q.page).Int("records", len(records)).Msg("loaded")
	return nil
}

// LoadCategories refreshes the category list shown next to the products.
func (c *Controller) LoadCategories(ctx context.Context) error {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("load categories failed")
		c.notify("Failed to load categories", err)
		return err
	}

	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()
	return nil
}

// Select opens the record with id for editing.
func (c *Controller) Select(id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Loaded {
		return ErrNotLoaded
	}
	for _, p := range c.records {
		if p.ID == id {
			selected := p
			c.editing = &selected
			return nil
		}
	}
	return ErrUnknownRecord
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
}

// SubmitUpdate sends the edited record as a full replace. On success the
// selection is cleared and the listing refreshed; on failure records and
// selection are left as they were.
func (c *Controller) SubmitUpdate(ctx context.Context, input api.ProductInput) error {
	c.mu.Lock()
	if c.editing == nil {
		c.mu.Unlock()
		return ErrNotEditing
	}
	id := c.editing.ID
	c.mu.Unlock()

	err := c.mutate(ctx, "Failed to update product", &input, func(ctx context.Context) error {
		return c.store.UpdateProduct(ctx, id, input)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()

	c.notifier.Notify(Notice{Level: LevelInfo, Message: "Product updated successfully"})
	return c.Load(ctx)
}

// SubmitCreate adds a product and refreshes the listing.
func (c *Controller) SubmitCreate(ctx context.Context, input api.ProductInput) error {
	err := c.mutate(ctx, "Failed to add product", &input, func(ctx context.Context) error {
		return c.store.CreateProduct(ctx, input)
	})
	if err != nil {
		return err
	}

	c.notifier.Notify(Notice{Level: LevelInfo, Message: "Product added successfully"})
	return c.Load(ctx)
}

// SubmitCategory adds a category and refreshes the category list.
func (c *Controller) SubmitCategory(ctx context.Context, input api.CategoryInput) error {
	err := c.mutate(ctx, "Failed to add category", &input, func(ctx context.Context) error {
		return c.store.CreateCategory(ctx, input)
	})
	if err != nil {
		return err
	}

	c.notifier.Notify(Notice{Level: LevelInfo, Message: "Category added successfully"})
	return c.LoadCategories(ctx)
}

// mutate validates input, then runs send under the in-flight guard. The
// request id doubles as the X-Request-ID of the outgoing call, and only the
// completion carrying it releases the guard.
func (c *Controller) mutate(ctx context.Context, action string, input any, send func(ctx context.Context) error) error {
	if verr := api.ValidateStruct(input); verr != nil {
		c.notifier.Notify(failure(action, verr))
		return verr
	}

	requestID := ksuid.New().String()

	c.mu.Lock()
	if pending := c.pending; pending != "" {
		c.mu.Unlock()
		c.logger.Warn().Str("pending", pending).Msg("mutation rejected while another is in flight")
		c.notifier.Notify(failure(action, ErrMutationInFlight))
		return ErrMutationInFlight
	}
	c.pending = requestID
	c.mu.Unlock()

	err := send(client.WithRequestID(ctx, requestID))

	c.mu.Lock()
	if c.pending == requestID {
		c.pending = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg(action)
		c.notify(action, err)
		return err
	}
	c.logger.Info().Str("request_id", requestID).Msg("mutation succeeded")
	return nil
}

// notify raises the failure notice for err unless it is only logged.
func (c *Controller) notify(action string, err error) {
	if Notified(err) {
		c.notifier.Notify(failure(action, err))
	}
}

func containsProduct(records []api.Product, id uint) bool {
	for _, p := range records {
		if p.ID == id {
			return true
		}
	}
	return false
}
