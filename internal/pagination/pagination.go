// Package pagination implements offset-based page windowing with the metadata
// and navigation links every list endpoint returns. Offset paging is not
// stable under concurrent inserts: a row created between two page fetches can
// shift items across page boundaries. That caveat is accepted; list orderings
// are newest-first, so drift only affects trailing pages.
package pagination

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Meta describes the window position within the full result set.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// Links holds navigation URLs. Prev and Next are null at the edges.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Page is one window of results plus its metadata.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Meta  Meta  `json:"meta"`
	Links Links `json:"links"`
}

// Clamp normalizes page and perPage query values.
func Clamp(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Paginate runs query twice: once to count, once to fetch the requested
// window. The query must already carry its WHERE and ORDER BY clauses.
func Paginate[T any](query *gorm.DB, basePath string, page, perPage int) (*Page[T], error) {
	page, perPage = Clamp(page, perPage)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	offset := (page - 1) * perPage
	var data []T
	if err := query.Offset(offset).Limit(perPage).Find(&data).Error; err != nil {
		return nil, err
	}

	from, to := 0, 0
	if len(data) > 0 {
		from = offset + 1
		to = offset + len(data)
	}

	return &Page[T]{
		Data: data,
		Meta: Meta{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
			From:        from,
			To:          to,
		},
		Links: buildLinks(basePath, page, lastPage, perPage),
	}, nil
}

func buildLinks(basePath string, page, lastPage, perPage int) Links {
	pageURL := func(p int) string {
		return fmt.Sprintf("%s?page=%d&per_page=%d", basePath, p, perPage)
	}

	links := Links{
		First: pageURL(1),
		Last:  pageURL(lastPage),
	}
	if page > 1 {
		prev := pageURL(page - 1)
		links.Prev = &prev
	}
	if page < lastPage {
		next := pageURL(page + 1)
		links.Next = &next
	}
	return links
}
