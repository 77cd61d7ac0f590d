// Package pagination implements the shared list contract: page/limit
// clamping, order-by construction, case-insensitive multi-field search
// filters and result metadata. It is pure and executes no queries.
package pagination

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	DefaultMax   = 100
)

// identPattern guards SortBy against anything that is not a plain column name.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Params holds the normalized pagination inputs for a list query.
type Params struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string
}

// Parse normalizes raw query values. Non-numeric or non-positive page
// coerces to 1, limit to DefaultLimit, limits above maxLimit clamp to
// maxLimit. Only "asc"/"desc" are accepted as sort orders; anything else
// falls back to "desc". SortBy must be a plain identifier, otherwise the
// caller-supplied default is used.
func Parse(page, limit, sortBy, sortOrder, defaultSort string, maxLimit int) Params {
	if maxLimit <= 0 {
		maxLimit = DefaultMax
	}

	p, err := strconv.Atoi(page)
	if err != nil || p <= 0 {
		p = 1
	}

	l, err := strconv.Atoi(limit)
	if err != nil || l <= 0 {
		l = DefaultLimit
	}
	if l > maxLimit {
		l = maxLimit
	}

	order := strings.ToLower(sortOrder)
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	sort := sortBy
	if sort == "" || !identPattern.MatchString(sort) {
		sort = defaultSort
	}

	return Params{
		Page:      p,
		Limit:     l,
		Skip:      (p - 1) * l,
		SortBy:    sort,
		SortOrder: order,
	}
}

// OrderClause renders the ORDER BY fragment for the params.
func (p Params) OrderClause() string {
	return p.SortBy + " " + strings.ToUpper(p.SortOrder)
}

// SearchFilter builds an OR-combination of case-insensitive contains
// predicates, one per field, as a WHERE fragment plus its arguments.
// An empty term or field list yields an empty clause.
func SearchFilter(term string, fields []string) (string, []interface{}) {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return "", nil
	}

	preds := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	like := "%" + strings.ToLower(term) + "%"
	for _, f := range fields {
		preds = append(preds, fmt.Sprintf("LOWER(%s) LIKE ?", f))
		args = append(args, like)
	}
	return "(" + strings.Join(preds, " OR ") + ")", args
}

// Meta is the pagination block returned alongside list data.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Result pairs a page of data with its metadata.
type Result struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"pagination"`
}

// NewResult computes the metadata for a page. total = 0 yields zero
// totalPages and hasNext false; hasPrev depends only on page > 1.
func NewResult(data interface{}, page, limit int, total int64) *Result {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Result{
		Data: data,
		Meta: Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}
