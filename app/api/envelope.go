package api

import "fmt"

// Kind tags every response body so clients never have to guess its shape.
type Kind string

const (
	KindList  Kind = "list"
	KindPage  Kind = "page"
	KindItem  Kind = "item"
	KindError Kind = "error"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal_error"
)

type List[T any] struct {
	Type    Kind `json:"type"`
	Results []T  `json:"results"`
}

// Page is a cursor page. Next and Previous are nil on the last and first
// page respectively and are always encoded, as null when absent.
type Page[T any] struct {
	Type     Kind    `json:"type"`
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type Item[T any] struct {
	Type Kind `json:"type"`
	Data T    `json:"data"`
}

type ErrorResponse struct {
	Type  Kind        `json:"type"`
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewList[T any](results []T) List[T] {
	if results == nil {
		results = []T{}
	}
	return List[T]{Type: KindList, Results: results}
}

func NewPage[T any](count int64, next, previous *string, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Type: KindPage, Count: count, Next: next, Previous: previous, Results: results}
}

func NewItem[T any](data T) Item[T] {
	return Item[T]{Type: KindItem, Data: data}
}

// Envelope is the decoding side of the contract: it accepts any tagged body
// and is checked against the expected Kind with Expect.
type Envelope[T any] struct {
	Type     Kind         `json:"type"`
	Count    int64        `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  []T          `json:"results"`
	Data     *T           `json:"data"`
	Error    *ErrorDetail `json:"error"`
}

func (e *Envelope[T]) Expect(kind Kind) error {
	if e.Type != kind {
		return fmt.Errorf("expected %q envelope, got %q", kind, e.Type)
	}
	return nil
}
