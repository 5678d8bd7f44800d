// Package query parses the list-endpoint query string into typed filter
// values. Unparseable values are treated as absent; the services apply their
// own defaults and clamps afterwards.
package query

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"goshop/internal/domain"
)

// Int returns the named parameter or def when absent or malformed.
func Int(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// Bool returns a pointer so handlers can distinguish "absent" from "false".
func Bool(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// CSV splits a comma-separated parameter, dropping empty entries.
func CSV(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Decimal parses a money-valued parameter.
func Decimal(r *http.Request, name string) *decimal.Decimal {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// Time parses an RFC 3339 timestamp parameter.
func Time(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Sort reads the shared sortBy/orderBy pair. The direction defaults to DESC;
// sort keys are validated against a whitelist in the repositories.
func Sort(r *http.Request) (string, domain.SortOrder) {
	sortBy := r.URL.Query().Get("sortBy")
	orderBy := domain.OrderDesc
	if strings.EqualFold(r.URL.Query().Get("orderBy"), "ASC") {
		orderBy = domain.OrderAsc
	}
	return sortBy, orderBy
}
