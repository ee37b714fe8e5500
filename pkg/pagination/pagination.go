package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters.
// defaultLimit applies when limit is absent or invalid; values below MinLimit fall back to DefaultLimit.
func Parse(c *gin.Context, defaultLimit int) Params {
	if defaultLimit < MinLimit || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Meta describes where a page sits in the full list.
type Meta struct {
	Page    int
	Limit   int
	Total   int
	Pages   int
	HasPrev bool
	HasNext bool
}

// Slice returns the items of the requested page. Pages past the end clamp to the last page.
func Slice[T any](items []T, p Params) ([]T, Meta) {
	total := len(items)
	pages := (total + p.Limit - 1) / p.Limit
	if pages == 0 {
		pages = 1
	}
	page := p.Page
	if page > pages {
		page = pages
	}
	start := (page - 1) * p.Limit
	end := start + p.Limit
	if end > total {
		end = total
	}
	return items[start:end], Meta{
		Page:    page,
		Limit:   p.Limit,
		Total:   total,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
}
