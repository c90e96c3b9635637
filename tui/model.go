package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/paginator"
	"github.com/mytheresa/go-catalog/view"
)

type screen int

const (
	screenProducts screen = iota
	screenCategories
	screenEditProduct
	screenAddProduct
	screenAddCategory
)

type opKind int

const (
	opLoad opKind = iota
	opSubmit
)

// opDoneMsg carries the outcome of a controller call back into the event
// loop together with the notices raised while it ran.
type opDoneMsg struct {
	kind    opKind
	err     error
	notices []view.Notice
}

// NoticeQueue collects controller notices from command goroutines until the
// event loop picks them up.
type NoticeQueue struct {
	mu      sync.Mutex
	pending []view.Notice
}

func (q *NoticeQueue) Notify(n view.Notice) {
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()
}

func (q *NoticeQueue) drain() []view.Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Model is the browse screen. All state changes happen in Update; network
// calls run as commands and report back through opDoneMsg.
type Model struct {
	ctx     context.Context
	ctrl    *view.Controller
	queue   *NoticeQueue
	images  *view.ImageCatalog
	styles  Styles
	screen  screen
	cursor  int
	catCur  int
	form    *form
	notices []view.Notice
	busy    bool
	width   int
}

// New builds the model. queue must be the Notifier ctrl was built with.
func New(ctx context.Context, ctrl *view.Controller, queue *NoticeQueue, images *view.ImageCatalog) Model {
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		queue:  queue,
		images: images,
		styles: DefaultStyles(),
		width:  100,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(opLoad, m.ctrl.Load), m.run(opLoad, m.ctrl.LoadCategories))
}

func (m Model) run(kind opKind, fn func(context.Context) error) tea.Cmd {
	ctx, queue := m.ctx, m.queue
	return func() tea.Msg {
		err := fn(ctx)
		return opDoneMsg{kind: kind, err: err, notices: queue.drain()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case opDoneMsg:
		m.notices = append(m.notices, msg.notices...)
		if msg.kind == opSubmit {
			m.busy = false
			if msg.err == nil {
				m.form = nil
				m.screen = m.parentScreen()
			}
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		// Notices are modal.
		if len(m.notices) > 0 {
			switch msg.String() {
			case "enter", "esc", " ":
				m.notices = m.notices[1:]
			}
			return m, nil
		}
		switch m.screen {
		case screenProducts:
			return m.updateProducts(msg)
		case screenCategories:
			return m.updateCategories(msg)
		default:
			return m.updateForm(msg)
		}
	}
	return m, nil
}

func (m Model) parentScreen() screen {
	if m.screen == screenAddCategory {
		return screenCategories
	}
	return screenProducts
}

func (m Model) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.ctrl.Snapshot()

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(snap.Records)-1 {
			m.cursor++
		}
	case "enter", "e":
		if m.cursor < len(snap.Records) {
			record := snap.Records[m.cursor]
			if err := m.ctrl.Select(record.ID); err == nil {
				m.form = productForm(fmt.Sprintf("Edit product #%d", record.ID), record.Input())
				m.screen = screenEditProduct
			}
		}
	case "+":
		m.form = productForm("Add product", api.ProductInput{})
		m.screen = screenAddProduct
	case "c":
		m.screen = screenCategories
	case "a":
		m.cursor = 0
		return m, m.run(opLoad, m.ctrl.ShowAll)
	case "r":
		return m, m.run(opLoad, m.ctrl.Load)
	case "right", "l", "n":
		if snap.Next != nil {
			return m.goToPage(snap.Page + 1)
		}
	case "left", "h", "p":
		if snap.Previous != nil {
			return m.goToPage(snap.Page - 1)
		}
	default:
		for _, ctl := range snap.Controls {
			if ctl.Kind == paginator.Number && ctl.Label == key {
				return m.goToPage(ctl.Page)
			}
		}
	}
	return m, nil
}

func (m Model) goToPage(page int) (tea.Model, tea.Cmd) {
	m.cursor = 0
	return m, m.run(opLoad, func(ctx context.Context) error {
		return m.ctrl.GoToPage(ctx, page)
	})
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := m.ctrl.Snapshot().Categories

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "c":
		m.screen = screenProducts
	case "up", "k":
		if m.catCur > 0 {
			m.catCur--
		}
	case "down", "j":
		if m.catCur < len(categories)-1 {
			m.catCur++
		}
	case "enter":
		if m.catCur < len(categories) {
			id := categories[m.catCur].ID
			m.screen = screenProducts
			m.cursor = 0
			return m, m.run(opLoad, func(ctx context.Context) error {
				return m.ctrl.SelectCategory(ctx, id)
			})
		}
	case "+":
		m.form = categoryForm()
		m.screen = screenAddCategory
	case "r":
		return m, m.run(opLoad, m.ctrl.LoadCategories)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	f := m.form

	switch msg.Type {
	case tea.KeyEsc:
		if m.screen == screenEditProduct {
			m.ctrl.CancelEdit()
		}
		m.form = nil
		m.screen = m.parentScreen()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		f.next()
	case tea.KeyShiftTab, tea.KeyUp:
		f.prev()
	case tea.KeyCtrlS:
		return m.submit()
	case tea.KeyEnter:
		if f.onLast() {
			return m.submit()
		}
		f.next()
	default:
		return m, f.update(msg)
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	var send func(context.Context) error

	switch m.screen {
	case screenAddCategory:
		input := m.form.categoryInput()
		send = func(ctx context.Context) error { return m.ctrl.SubmitCategory(ctx, input) }
	default:
		input, err := m.form.productInput()
		if err != nil {
			m.notices = append(m.notices, view.Notice{Level: view.LevelError, Message: err.Error()})
			return m, nil
		}
		if m.screen == screenEditProduct {
			send = func(ctx context.Context) error { return m.ctrl.SubmitUpdate(ctx, input) }
		} else {
			send = func(ctx context.Context) error { return m.ctrl.SubmitCreate(ctx, input) }
		}
	}

	m.busy = true
	return m, m.run(opSubmit, send)
}

func (m *Model) clampCursor() {
	snap := m.ctrl.Snapshot()
	if m.cursor >= len(snap.Records) {
		m.cursor = max(len(snap.Records)-1, 0)
	}
	if m.catCur >= len(snap.Categories) {
		m.catCur = max(len(snap.Categories)-1, 0)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Catalog"))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render(strings.Repeat("─", max(m.width, 20))))
	b.WriteString("\n")

	if len(m.notices) > 0 {
		n := m.notices[0]
		style := m.styles.Info
		if n.Level == view.LevelError {
			style = m.styles.Error
		}
		b.WriteString(style.Render(n.Message))
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("enter: dismiss"))
		b.WriteString("\n")
		return b.String()
	}

	switch m.screen {
	case screenProducts:
		b.WriteString(m.renderProducts())
	case screenCategories:
		b.WriteString(m.renderCategories())
	default:
		b.WriteString(m.renderForm())
	}
	return b.String()
}

func (m Model) renderProducts() string {
	snap := m.ctrl.Snapshot()
	var b strings.Builder

	switch snap.Mode {
	case view.ModeAll:
		b.WriteString(m.styles.Header.Render("All products"))
	case view.ModeCategory:
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("Category #%d", snap.CategoryID)))
	default:
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("Products (page %d)", snap.Page)))
	}
	b.WriteString("\n\n")

	switch {
	case snap.State == view.Idle || snap.State == view.Loading:
		b.WriteString("Loading...\n")
	case snap.State == view.Failed:
		b.WriteString("Could not load products. Press r to retry.\n")
	case snap.Empty():
		b.WriteString("No products found.\n")
	default:
		for i, p := range snap.Records {
			category := p.CategoryName
			if category == "" && p.CategoryID != nil {
				category = fmt.Sprintf("#%d", *p.CategoryID)
			}
			line := fmt.Sprintf("%-24s %-14s %10s  %-12s %s", p.Name, p.Brand, p.Price.StringFixed(2), category, m.images.URL(p.ID))
			if i == m.cursor {
				line = m.styles.Selected.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if snap.State == view.Loaded && snap.Mode == view.ModePaged {
		b.WriteString("\n")
		b.WriteString(m.renderControls(snap.Controls))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("↑/↓ move · enter edit · + add · ←/→ page · 1-9 jump · c categories · a all · r reload · q quit"))
	return b.String()
}

func (m Model) renderControls(controls []paginator.Control) string {
	if len(controls) == 0 {
		return m.styles.Dim.Render(paginator.NoMorePages)
	}
	parts := make([]string, len(controls))
	for i, ctl := range controls {
		label := "[" + ctl.Label + "]"
		if ctl.Current {
			label = m.styles.Current.Render(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}

func (m Model) renderCategories() string {
	categories := m.ctrl.Snapshot().Categories
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("Categories"))
	b.WriteString("\n\n")
	if len(categories) == 0 {
		b.WriteString("No categories found.\n")
	}
	for i, c := range categories {
		line := fmt.Sprintf("%-4d %-20s %s", c.ID, c.Name, c.Description)
		if i == m.catCur {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("enter show products · + add · esc back · q quit"))
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(m.form.title))
	b.WriteString("\n\n")
	for i, input := range m.form.inputs {
		label := m.styles.Field.Render(m.form.labels[i] + ":")
		if i == m.form.focus {
			label = m.styles.Focused.Render(label)
		}
		b.WriteString(label + " " + input.View() + "\n")
	}
	b.WriteString("\n")
	if m.busy {
		b.WriteString("Saving...\n")
	}
	b.WriteString(m.styles.Dim.Render("tab next field · ctrl+s save · esc cancel"))
	return b.String()
}
