package model

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Paging limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
)

// SortDirection is ASC or DESC
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortOrder orders a page by one property.
type SortOrder struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

// PageRequest selects one page of results.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Normalize clamps the request: a size below 1 becomes DefaultPageSize, a
// size above MaxPageSize becomes MaxPageSize and a negative page becomes 0.
func (p PageRequest) Normalize() PageRequest {
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// Offset returns the index of the first item on the page. It never goes
// negative and saturates at math.MaxInt64.
func (p PageRequest) Offset() int64 {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	page, size := int64(p.Page), int64(p.Size)
	if page > math.MaxInt64/size {
		return math.MaxInt64
	}
	return page * size
}

// ParsePageRequest reads page, size and sort query parameters. Numbers that
// do not parse as 32-bit integers fall back to their defaults. Each sort value is
// "property[,property...][,asc|desc]" and may be repeated.
func ParsePageRequest(q url.Values) PageRequest {
	req := PageRequest{Page: 0, Size: DefaultPageSize}
	if v, ok := parseInt32(q.Get("page")); ok {
		req.Page = v
	}
	if v, ok := parseInt32(q.Get("size")); ok {
		req.Size = v
	}
	for _, raw := range q["sort"] {
		req.Sort = append(req.Sort, parseSort(raw)...)
	}
	return req.Normalize()
}

func parseInt32(s string) (int, bool) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func parseSort(raw string) []SortOrder {
	var tokens []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	dir := SortAsc
	if d, ok := parseDirection(tokens[len(tokens)-1]); ok {
		dir = d
		tokens = tokens[:len(tokens)-1]
	}

	orders := make([]SortOrder, 0, len(tokens))
	for _, prop := range tokens {
		orders = append(orders, SortOrder{Property: prop, Direction: dir})
	}
	return orders
}

func parseDirection(s string) (SortDirection, bool) {
	switch strings.ToUpper(s) {
	case "ASC":
		return SortAsc, true
	case "DESC":
		return SortDesc, true
	}
	return "", false
}

// SortInfo describes the ordering applied to a page.
type SortInfo struct {
	Sorted   bool `json:"sorted"`
	Unsorted bool `json:"unsorted"`
	Empty    bool `json:"empty"`
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content          []T      `json:"content"`
	Number           int      `json:"number"`
	Size             int      `json:"size"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	NumberOfElements int      `json:"numberOfElements"`
	First            bool     `json:"first"`
	Last             bool     `json:"last"`
	Empty            bool     `json:"empty"`
	Sort             SortInfo `json:"sort"`
}

// NewPage assembles page metadata for content taken from a result set of
// total items. A page past the end has empty content and correct totals.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 1
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	sorted := len(req.Sort) > 0
	return Page[T]{
		Content:          content,
		Number:           req.Page,
		Size:             req.Size,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
		Sort:             SortInfo{Sorted: sorted, Unsorted: !sorted, Empty: !sorted},
	}
}
