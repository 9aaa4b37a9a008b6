package request

import (
	"net/url"
	"strconv"
)

const defaultPerPage = 20

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// PaginationFromQuery reads page and per_page from the query string, falling
// back to the first page of 20 for anything missing or unparseable.
func PaginationFromQuery(query url.Values) *PaginatedRequest {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(query.Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	return &PaginatedRequest{Page: page, PerPage: perPage}
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return defaultPerPage
	}
	if p.PerPage > 100 {
		return 100
	}
	return p.PerPage
}
