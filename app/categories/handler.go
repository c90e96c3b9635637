package categories

import (
	"context"
	"errors"
	"net/http"

	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/app/events"
	"github.com/mytheresa/go-catalog/models"
	"github.com/rs/zerolog"
)

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

type CategoryHandler struct {
	repo   CategoryProvider
	events events.Publisher
}

func NewCategoryHandler(r CategoryProvider, p events.Publisher) *CategoryHandler {
	if p == nil {
		p = events.Noop{}
	}
	return &CategoryHandler{repo: r, events: p}
}

// HandleGetAll serves GET /api/category/list and the legacy /api/categories/all.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		api.InternalError(w, r, err)
		return
	}

	response := make([]api.Category, len(categories))
	for i, c := range categories {
		response[i] = toCategory(c)
	}
	api.Success(w, api.NewList(response))
}

// HandleCreate serves POST /api/category/list.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input api.CategoryInput
	if !api.DecodeAndValidate(w, r, &input) {
		return
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, models.ErrCategoryExists) {
			api.Conflict(w, r, err, "Category already exists")
			return
		}
		api.InternalError(w, r, err)
		return
	}

	created := toCategory(*category)
	if err := h.events.Publish(r.Context(), events.New(events.CategoryCreated, created.ID, created)); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("event_type", events.CategoryCreated).Msg("publish failed")
	}
	api.Created(w, api.NewItem(created))
}

func toCategory(c models.Category) api.Category {
	return api.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}
