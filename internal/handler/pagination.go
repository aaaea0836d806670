package handler

import (
	"net/http"
	"strconv"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
)

const MaxLimit = 100

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset. A missing limit means no limit.
func ParsePagination(r *http.Request) (PaginationParams, error) {
	var p PaginationParams
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return p, apperrors.InvalidInput("limit", "must be a non-negative integer")
		}
		p.Limit = min(limit, MaxLimit)
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return p, apperrors.InvalidInput("offset", "must be a non-negative integer")
		}
		p.Offset = offset
	}
	return p, nil
}
