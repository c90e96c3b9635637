package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/client"
	"github.com/mytheresa/go-catalog/paginator"
	"github.com/mytheresa/go-catalog/view"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake store ---

type fakeStore struct {
	products   []api.Product
	categories []api.Category
	updateErr  error
}

func (s *fakeStore) ProductsPage(_ context.Context, page int) (*client.Page, error) {
	start := min((page-1)*4, len(s.products))
	end := min(start+4, len(s.products))
	p := &client.Page{Count: int64(len(s.products)), Results: append([]api.Product{}, s.products[start:end]...)}
	if end < len(s.products) {
		next := fmt.Sprintf("?page=%d", page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := fmt.Sprintf("?page=%d", page-1)
		p.Previous = &prev
	}
	return p, nil
}

func (s *fakeStore) ListProducts(_ context.Context) ([]api.Product, error) {
	return append([]api.Product{}, s.products...), nil
}

func (s *fakeStore) ListProductsByCategory(_ context.Context, id uint) ([]api.Product, error) {
	out := []api.Product{}
	for _, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) ListCategories(_ context.Context) ([]api.Category, error) {
	return s.categories, nil
}

func (s *fakeStore) CreateProduct(_ context.Context, in api.ProductInput) error {
	s.products = append(s.products, api.Product{ID: uint(len(s.products) + 1), Name: in.Name, Description: in.Description, Brand: in.Brand, Price: in.Price, CategoryID: in.CategoryID})
	return nil
}

func (s *fakeStore) UpdateProduct(_ context.Context, id uint, in api.ProductInput) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = api.Product{ID: id, Name: in.Name, Description: in.Description, Brand: in.Brand, Price: in.Price, CategoryID: in.CategoryID}
		}
	}
	return nil
}

func (s *fakeStore) CreateCategory(_ context.Context, in api.CategoryInput) error {
	s.categories = append(s.categories, api.Category{ID: uint(len(s.categories) + 1), Name: in.Name, Description: in.Description})
	return nil
}

// --- Helpers ---

func newStore(n int) *fakeStore {
	hats := uint(2)
	s := &fakeStore{categories: []api.Category{{ID: 1, Name: "Shoes"}, {ID: 2, Name: "Hats"}}}
	for i := 1; i <= n; i++ {
		p := api.Product{ID: uint(i), Name: fmt.Sprintf("Product %d", i), Description: "desc", Brand: "Acme", Price: decimal.NewFromInt(int64(i))}
		if i%2 == 0 {
			p.CategoryID = &hats
		}
		s.products = append(s.products, p)
	}
	return s
}

func newModel(t *testing.T, store *fakeStore) (tea.Model, *view.Controller) {
	t.Helper()
	queue := &NoticeQueue{}
	ctrl := view.NewController(store, queue, paginator.New(4), zerolog.Nop())
	images := view.NewImageCatalog("https://img.local/none.png", map[uint]string{1: "https://img.local/1.png"})
	var m tea.Model = New(context.Background(), ctrl, queue, images)
	return drive(m, m.Init()), ctrl
}

// drive runs cmd and feeds every resulting message back through Update.
func drive(m tea.Model, cmd tea.Cmd) tea.Model {
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drive(m, c)
		}
	case tea.QuitMsg:
	default:
		var next tea.Cmd
		m, next = m.Update(msg)
		m = drive(m, next)
	}
	return m
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(k)
		m = drive(m, cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	down      = tea.KeyMsg{Type: tea.KeyDown}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	save      = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func clearField(m tea.Model, n int) tea.Model {
	for i := 0; i < n; i++ {
		m = press(m, backspace)
	}
	return m
}

// --- Tests ---

func TestModel_InitialLoad(t *testing.T) {
	m, ctrl := newModel(t, newStore(10))

	out := m.View()

	assert.Equal(t, view.Loaded, ctrl.Snapshot().State)
	assert.Contains(t, out, "Product 1")
	assert.Contains(t, out, "Product 4")
	assert.NotContains(t, out, "Product 5")
	assert.Contains(t, out, "https://img.local/1.png")
	assert.Contains(t, out, "https://img.local/none.png")
	assert.Contains(t, out, "[Next]")
	assert.Len(t, ctrl.Snapshot().Categories, 2)
}

func TestModel_EmptyState(t *testing.T) {
	m, _ := newModel(t, newStore(0))

	assert.Contains(t, m.View(), "No products found.")
	assert.Contains(t, m.View(), paginator.NoMorePages)
}

func TestModel_PageNavigation(t *testing.T) {
	m, ctrl := newModel(t, newStore(10))

	m = press(m, runes("3"))
	assert.Equal(t, 3, ctrl.Snapshot().Page)
	assert.Contains(t, m.View(), "Product 9")

	m = press(m, runes("p"))
	assert.Equal(t, 2, ctrl.Snapshot().Page)

	m = press(m, runes("n"))
	assert.Equal(t, 3, ctrl.Snapshot().Page)

	// No next cursor on the last page.
	press(m, runes("n"))
	assert.Equal(t, 3, ctrl.Snapshot().Page)
}

func TestModel_EditProduct(t *testing.T) {
	// Arrange
	store := newStore(3)
	m, ctrl := newModel(t, store)

	// Act: open the second record, replace its name and save.
	m = press(m, down, enter)
	require.NotNil(t, ctrl.Snapshot().Editing)
	assert.Equal(t, uint(2), ctrl.Snapshot().Editing.ID)
	assert.Contains(t, m.View(), "Edit product #2")

	m = clearField(m, len("Product 2"))
	m = press(m, runes("Renamed"), save)

	// Assert
	assert.Nil(t, ctrl.Snapshot().Editing)
	assert.Equal(t, "Renamed", store.products[1].Name)
	assert.Equal(t, "desc", store.products[1].Description)
	out := m.View()
	assert.Contains(t, out, "Product updated successfully")

	m = press(m, enter)
	assert.Contains(t, m.View(), "Renamed")
}

func TestModel_FailedUpdateKeepsForm(t *testing.T) {
	// Arrange
	store := newStore(3)
	store.updateErr = &client.ServerError{StatusCode: 500, Body: "boom"}
	m, ctrl := newModel(t, store)

	// Act
	m = press(m, enter, save)

	// Assert
	assert.Contains(t, m.View(), "Failed to update product: server error (500)")
	require.NotNil(t, ctrl.Snapshot().Editing, "selection survives")
	assert.Len(t, ctrl.Snapshot().Records, 3)

	m = press(m, enter)
	assert.Contains(t, m.View(), "Edit product #1", "form is still open after dismissing")

	m = press(m, esc)
	assert.Nil(t, ctrl.Snapshot().Editing)
	assert.Contains(t, m.View(), "Products (page 1)")
}

func TestModel_AddProduct(t *testing.T) {
	store := newStore(1)
	m, ctrl := newModel(t, store)

	m = press(m, runes("+"), runes("Boot"), tab, runes("Winter"), tab, runes("Sorel"), tab, runes("150.5"), tab, runes("2"), enter)

	require.Len(t, store.products, 2)
	assert.Equal(t, "Boot", store.products[1].Name)
	assert.True(t, decimal.RequireFromString("150.5").Equal(store.products[1].Price))
	require.NotNil(t, store.products[1].CategoryID)
	assert.Equal(t, uint(2), *store.products[1].CategoryID)
	assert.Len(t, ctrl.Snapshot().Records, 2)
	assert.Contains(t, m.View(), "Product added successfully")
}

func TestModel_InvalidPriceIsRejectedLocally(t *testing.T) {
	store := newStore(1)
	m, _ := newModel(t, store)

	m = press(m, runes("+"), runes("Boot"), tab, runes("Winter"), tab, runes("Sorel"), tab, runes("cheap"), save)

	assert.Contains(t, m.View(), "price must be a number")
	assert.Len(t, store.products, 1)
}

func TestModel_SelectCategoryReplacesList(t *testing.T) {
	m, ctrl := newModel(t, newStore(6))

	m = press(m, runes("c"))
	assert.Contains(t, m.View(), "Categories")

	m = press(m, down, enter)

	snap := ctrl.Snapshot()
	assert.Equal(t, view.ModeCategory, snap.Mode)
	require.Len(t, snap.Records, 3)
	for _, p := range snap.Records {
		assert.Equal(t, uint(2), *p.CategoryID)
	}
	assert.Contains(t, m.View(), "Category #2")
	assert.NotContains(t, m.View(), "Product 1 ")
}

func TestModel_AddCategory(t *testing.T) {
	store := newStore(0)
	m, ctrl := newModel(t, store)

	m = press(m, runes("c"), runes("+"), runes("Bags"), tab, runes("Totes"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, runes("and more"), enter)

	require.Len(t, store.categories, 3)
	assert.Equal(t, "Totes and more", store.categories[2].Description)
	assert.Len(t, ctrl.Snapshot().Categories, 3)
	m = press(m, enter)
	assert.Contains(t, m.View(), "Bags")
}

func TestModel_ShowAll(t *testing.T) {
	m, ctrl := newModel(t, newStore(6))

	m = press(m, runes("a"))

	assert.Equal(t, view.ModeAll, ctrl.Snapshot().Mode)
	assert.Contains(t, m.View(), "Product 6")
	assert.Contains(t, m.View(), "All products")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, newStore(1))

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNoticeQueue(t *testing.T) {
	q := &NoticeQueue{}
	q.Notify(view.Notice{Message: "one"})
	q.Notify(view.Notice{Message: "two"})

	assert.Len(t, q.drain(), 2)
	assert.Empty(t, q.drain())
}

func TestForm_ProductInput(t *testing.T) {
	f := productForm("x", api.ProductInput{})
	f.inputs[fieldName].SetValue(" Runner ")
	f.inputs[fieldCategory].SetValue("0")

	_, err := f.productInput()

	assert.True(t, errors.Is(err, errInvalidCategory))
	f.inputs[fieldCategory].SetValue("")
	in, err := f.productInput()
	require.NoError(t, err)
	assert.Equal(t, "Runner", in.Name)
	assert.Nil(t, in.CategoryID)
}

func TestForm_EditsAtCursor(t *testing.T) {
	// Arrange
	f := productForm("x", api.ProductInput{Name: "Runer"})

	// Act
	f.update(tea.KeyMsg{Type: tea.KeyLeft})
	f.update(tea.KeyMsg{Type: tea.KeyLeft})
	f.update(runes("n"))
	f.next()
	f.update(runes("Light"))

	// Assert
	assert.Equal(t, "Runner", f.value(fieldName))
	assert.Equal(t, "Light", f.value(fieldDescription))
	assert.True(t, f.inputs[fieldDescription].Focused())
	assert.False(t, f.inputs[fieldName].Focused())
}
