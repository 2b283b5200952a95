package models

import "math"

// Pagination defaults applied when a request omits or mangles the page parameters
const (
	DefaultPageNumber = 0
	DefaultPageSize   = 25
	MaxPageSize       = 1000
)

// PageRequest identifies a zero-based page of a fixed size
type PageRequest struct {
	PageNumber int
	PageSize   int
}

// NewPageRequest returns a page request, replacing a negative page number
// and a non-positive page size with the defaults. Sizes above MaxPageSize
// are clamped.
func NewPageRequest(pageNumber, pageSize int) PageRequest {
	if pageNumber < 0 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{PageNumber: pageNumber, PageSize: pageSize}
}

// DefaultPageRequest returns page 0 of size 25
func DefaultPageRequest() PageRequest {
	return PageRequest{PageNumber: DefaultPageNumber, PageSize: DefaultPageSize}
}

// Offset returns the index of the first element of the page. An offset
// that does not fit in an int saturates at math.MaxInt, which lies past the
// end of any result set.
func (p PageRequest) Offset() int {
	if p.PageNumber <= 0 || p.PageSize <= 0 {
		return 0
	}
	if p.PageNumber > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return p.PageNumber * p.PageSize
}

// Page is a paged list: one page of content plus pagination metadata.
type Page[T any] struct {
	Content          []T  `json:"content"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

// NewPage builds a page from its content, the request that produced it and
// the total number of elements across all pages.
func NewPage[T any](content []T, req PageRequest, total int) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.PageSize > 0 {
		totalPages = (total + req.PageSize - 1) / req.PageSize
	}

	return Page[T]{
		Content:          content,
		Number:           req.PageNumber,
		Size:             req.PageSize,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            req.PageNumber == 0,
		Last:             req.PageNumber >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// BeerPagedList is a page of beers
type BeerPagedList = Page[BeerDto]

// BeerOrderPagedList is a page of beer orders
type BeerOrderPagedList = Page[BeerOrderDto]
