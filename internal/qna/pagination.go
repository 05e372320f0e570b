// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qna

import (
	"net/url"
	"strconv"

	"github.com/qna-dev/qna/internal/apperr"
)

// Pagination selects a window of the question list. A nil Limit returns
// every row from Offset.
type Pagination struct {
	Limit  *int
	Offset int
}

// ExtractPagination reads limit and offset from query. An empty query is
// the zero Pagination. Otherwise both parameters must be present and parse
// as non-negative 32-bit integers.
func ExtractPagination(query url.Values) (Pagination, error) {
	if len(query) == 0 {
		return Pagination{}, nil
	}

	for _, name := range []string{"limit", "offset"} {
		if !query.Has(name) {
			return Pagination{}, apperr.MissingParameter(name)
		}
	}

	limit, err := uintParam(query, "limit")
	if err != nil {
		return Pagination{}, err
	}
	offset, err := uintParam(query, "offset")
	if err != nil {
		return Pagination{}, err
	}
	return Pagination{Limit: &limit, Offset: offset}, nil
}

func uintParam(query url.Values, name string) (int, error) {
	n, err := strconv.ParseUint(query.Get(name), 10, 32)
	if err != nil {
		return 0, apperr.InvalidParameter(name, err)
	}
	return int(n), nil
}
