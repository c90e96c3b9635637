package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mytheresa/go-catalog/app/api"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestIDHeader = "X-Request-ID"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the catalog API at baseURL. Requests carry no
// timeout of their own; callers bound them through ctx.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page is one cursor page of products.
type Page struct {
	Count    int64
	Next     *string
	Previous *string
	Results  []api.Product
}

type requestIDKey struct{}

// WithRequestID makes the next request built from ctx carry id as its
// X-Request-ID instead of a fresh one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return ksuid.New().String()
}

func (c *Client) ListProducts(ctx context.Context) ([]api.Product, error) {
	return getList[api.Product](ctx, c, "/api/list")
}

func (c *Client) ListProductsByCategory(ctx context.Context, categoryID uint) ([]api.Product, error) {
	return getList[api.Product](ctx, c, fmt.Sprintf("/api/category/%d/products", categoryID))
}

func (c *Client) ProductsByCategoryTitle(ctx context.Context, title string) ([]api.Product, error) {
	return getList[api.Product](ctx, c, "/api/categories/title/"+url.PathEscape(title)+"/")
}

func (c *Client) ListCategories(ctx context.Context) ([]api.Category, error) {
	return getList[api.Category](ctx, c, "/api/category/list")
}

func (c *Client) AllCategories(ctx context.Context) ([]api.Category, error) {
	return getList[api.Category](ctx, c, "/api/categories/all")
}

// ProductsPage fetches page n (1-based) of the paged product listing.
func (c *Client) ProductsPage(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	raw, err := c.do(ctx, http.MethodGet, "/api/products/?page="+strconv.Itoa(page), nil)
	if err != nil {
		return nil, err
	}

	env, err := decode[api.Product](raw, api.KindPage)
	if err != nil {
		return nil, err
	}
	return &Page{
		Count:    env.Count,
		Next:     env.Next,
		Previous: env.Previous,
		Results:  nonNil(env.Results),
	}, nil
}

func (c *Client) CreateProduct(ctx context.Context, input api.ProductInput) error {
	return mutate[api.Product](ctx, c, http.MethodPost, "/api/list", input)
}

// UpdateProduct replaces every editable field of product id.
func (c *Client) UpdateProduct(ctx context.Context, id uint, input api.ProductInput) error {
	return mutate[api.Product](ctx, c, http.MethodPut, fmt.Sprintf("/api/list/%d", id), input)
}

func (c *Client) CreateCategory(ctx context.Context, input api.CategoryInput) error {
	return mutate[api.Category](ctx, c, http.MethodPost, "/api/category/list", input)
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	env, err := decode[T](raw, api.KindList)
	if err != nil {
		return nil, err
	}
	return nonNil(env.Results), nil
}

// mutate treats any 2xx as success. A malformed success body is logged and
// otherwise ignored since the caller refreshes from the server anyway.
func mutate[T any](ctx context.Context, c *Client, method, path string, body any) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if _, err := decode[T](raw, api.KindItem); err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("mutation succeeded with unexpected body")
	}
	return nil
}

func decode[T any](raw []byte, kind api.Kind) (*api.Envelope[T], error) {
	var env api.Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ParseError{Body: string(raw), Err: err}
	}
	if err := env.Expect(kind); err != nil {
		return nil, &ParseError{Body: string(raw), Err: err}
	}
	if kind == api.KindItem && env.Data == nil {
		return nil, &ParseError{Body: string(raw), Err: errors.New("item envelope without data")}
	}
	return &env, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	target := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	id := requestID(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, id)

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}

	c.logger.Debug().
		Str("request_id", id).
		Str("method", method).
		Str("url", target).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request completed")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		serverErr := &ServerError{StatusCode: res.StatusCode, Body: string(raw)}
		var env api.ErrorResponse
		if json.Unmarshal(raw, &env) == nil && env.Type == api.KindError {
			detail := env.Error
			serverErr.Detail = &detail
		}
		return nil, serverErr
	}
	return raw, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
