package catalog

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/app/events"
	"github.com/mytheresa/go-catalog/models"
	"github.com/rs/zerolog"
)

// DefaultPageSize matches the page size the legacy product pages assume.
const DefaultPageSize = 4

type ProductProvider interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	GetProductsByCategoryName(ctx context.Context, name string) ([]models.Product, error)
	GetProductsPage(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
}

type CatalogHandler struct {
	repo     ProductProvider
	events   events.Publisher
	pageSize int
}

func NewCatalogHandler(r ProductProvider, p events.Publisher, pageSize int) *CatalogHandler {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if p == nil {
		p = events.Noop{}
	}
	return &CatalogHandler{
		repo:     r,
		events:   p,
		pageSize: pageSize,
	}
}

// HandleList serves GET /api/list.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.GetAllProducts(r.Context())
	if err != nil {
		api.InternalError(w, r, err)
		return
	}
	api.Success(w, api.NewList(toProducts(res)))
}

// HandleListByCategory serves GET /api/category/{category_id}/products.
func (h *CatalogHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r.PathValue("category_id"))
	if err != nil {
		api.NotFound(w, r, err, "Category not found")
		return
	}

	res, err := h.repo.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			api.NotFound(w, r, err, "Category not found")
			return
		}
		api.InternalError(w, r, err)
		return
	}
	api.Success(w, api.NewList(toProducts(res)))
}

// HandleListByCategoryTitle serves the legacy GET /api/categories/title/{title}/.
func (h *CatalogHandler) HandleListByCategoryTitle(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	res, err := h.repo.GetProductsByCategoryName(r.Context(), title)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			api.NotFound(w, r, err, "Category not found")
			return
		}
		api.InternalError(w, r, err)
		return
	}
	api.Success(w, api.NewList(toProducts(res)))
}

// HandlePage serves the legacy GET /api/products/?page={n} cursor page.
func (h *CatalogHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pStr := r.URL.Query().Get("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p > 1 {
			page = p
		}
	}

	// No catalog is large enough to reach a page whose offset overflows.
	if page-1 > (math.MaxInt-h.pageSize)/h.pageSize {
		api.NotFound(w, r, errors.New("page out of range"), "Invalid page.")
		return
	}

	offset := (page - 1) * h.pageSize
	res, total, err := h.repo.GetProductsPage(r.Context(), offset, h.pageSize)
	if err != nil {
		api.InternalError(w, r, err)
		return
	}

	if page > 1 && int64(offset) >= total {
		api.NotFound(w, r, errors.New("page out of range"), "Invalid page.")
		return
	}

	var next, previous *string
	if int64(offset+len(res)) < total {
		next = pageLink(r, page+1)
	}
	if page > 1 {
		previous = pageLink(r, page-1)
	}

	api.Success(w, api.NewPage(total, next, previous, toProducts(res)))
}

// HandleCreate serves POST /api/list.
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input api.ProductInput
	if !api.DecodeAndValidate(w, r, &input) {
		return
	}

	product := fromInput(input)
	if err := h.repo.CreateProduct(r.Context(), product); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			api.BadRequest(w, r, err, "Category does not exist", "category_id")
			return
		}
		api.InternalError(w, r, err)
		return
	}

	created := h.reload(r.Context(), product)
	h.publish(r.Context(), events.ProductCreated, created)
	api.Created(w, api.NewItem(created))
}

// HandleUpdate serves PUT /api/list/{product_id}.
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("product_id"))
	if err != nil {
		api.NotFound(w, r, err, "Product not found")
		return
	}

	var input api.ProductInput
	if !api.DecodeAndValidate(w, r, &input) {
		return
	}

	product := fromInput(input)
	product.ID = id
	if err := h.repo.UpdateProduct(r.Context(), product); err != nil {
		switch {
		case errors.Is(err, models.ErrProductNotFound):
			api.NotFound(w, r, err, "Product not found")
		case errors.Is(err, models.ErrCategoryNotFound):
			api.BadRequest(w, r, err, "Category does not exist", "category_id")
		default:
			api.InternalError(w, r, err)
		}
		return
	}

	updated := h.reload(r.Context(), product)
	h.publish(r.Context(), events.ProductUpdated, updated)
	api.Success(w, api.NewItem(updated))
}

// reload fetches the stored row so the response carries the category name.
// The write already succeeded, so a failed read falls back to the input.
func (h *CatalogHandler) reload(ctx context.Context, product *models.Product) api.Product {
	stored, err := h.repo.GetByID(ctx, product.ID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("product_id", product.ID).Msg("reload after write failed")
		return toProduct(*product)
	}
	return toProduct(*stored)
}

func (h *CatalogHandler) publish(ctx context.Context, eventType string, product api.Product) {
	if err := h.events.Publish(ctx, events.New(eventType, product.ID, product)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event_type", eventType).Msg("publish failed")
	}
}

func toProduct(p models.Product) api.Product {
	out := api.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	return out
}

func toProducts(res []models.Product) []api.Product {
	products := make([]api.Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}
	return products
}

func fromInput(in api.ProductInput) *models.Product {
	return &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func pageLink(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	link := u.RequestURI()
	return &link
}
