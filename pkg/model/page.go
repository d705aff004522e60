package model

import (
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultPageSize is used when a request carries no size
	DefaultPageSize = 10
	// MaxPageSize caps the size a client may request
	MaxPageSize = 100
	// MaxPage is the highest page whose offset fits in an int at MaxPageSize
	MaxPage = math.MaxInt / MaxPageSize
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders a page by a single column
type Sort struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// String renders the sort the way it is accepted on the query string
func (s Sort) String() string {
	if s.Column == "" {
		return ""
	}
	return s.Column + "," + string(s.Direction)
}

// ParseSort parses "column[,asc|desc]"
func ParseSort(raw string) (Sort, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	s := Sort{Column: strings.TrimSpace(parts[0]), Direction: Asc}
	if s.Column == "" {
		return Sort{}, fmt.Errorf("sort column is empty")
	}
	if len(parts) > 2 {
		return Sort{}, fmt.Errorf("invalid sort: %s", raw)
	}
	if len(parts) == 2 {
		switch Direction(strings.ToLower(strings.TrimSpace(parts[1]))) {
		case Asc:
		case Desc:
			s.Direction = Desc
		default:
			return Sort{}, fmt.Errorf("invalid sort direction: %s", parts[1])
		}
	}
	return s, nil
}

// Pageable is a page request
type Pageable struct {
	Page int  `json:"page"`
	Size int  `json:"size"`
	Sort Sort `json:"sort"`
}

// Normalize clamps page and size into their valid ranges
func (p Pageable) Normalize() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the first element of the page
func (p Pageable) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Page is one page of a filtered, sorted result set
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	NumberOfElements int   `json:"numberOfElements"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a page from its content and the total row count
func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pageable = pageable.Normalize()
	totalPages := int((total + int64(pageable.Size) - 1) / int64(pageable.Size))
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             pageable.Size,
		Number:           pageable.Page,
		First:            pageable.Page == 0,
		Last:             pageable.Page >= totalPages-1,
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
	}
}

// MapPage converts the content of a page, keeping its counters
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.Content))
	for i, item := range p.Content {
		out[i] = fn(item)
	}
	return Page[R]{
		Content:          out,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Size:             p.Size,
		Number:           p.Number,
		First:            p.First,
		Last:             p.Last,
		NumberOfElements: p.NumberOfElements,
		Empty:            p.Empty,
	}
}
