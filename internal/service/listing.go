package service

import (
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	// maxPage keeps (page-1)*per_page far from integer overflow.
	maxPage = 100000
)

// ListQuery is the console's generic listing request: a search term,
// an ordering ("-created_at,title") and a page.
type ListQuery struct {
	Search   string
	Ordering string
	Page     int
	PerPage  int
}

// normalize clamps paging values into range.
func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > maxPage {
		q.Page = maxPage
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

// listParams resolves a ListQuery against a model's registration.
func listParams(ma *adminsite.ModelAdmin, q ListQuery) (repository.ListParams, ListQuery, error) {
	q = q.normalize()
	ordering, err := ma.ParseOrdering(q.Ordering)
	if err != nil {
		return repository.ListParams{}, q, err
	}
	return repository.ListParams{
		Search:       q.Search,
		SearchFields: ma.SearchFields,
		Ordering:     ordering,
		Limit:        q.PerPage,
		Offset:       (q.Page - 1) * q.PerPage,
	}, q, nil
}
