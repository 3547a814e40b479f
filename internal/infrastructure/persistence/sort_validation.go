package persistence

import (
	"strings"
)

// sortSpec whitelists the columns a list may be ordered by. Anything else
// falls back to the default column so user input never reaches ORDER BY.
type sortSpec struct {
	columns  map[string]bool
	fallback string
}

func newSortSpec(fallback string, columns ...string) sortSpec {
	spec := sortSpec{
		columns:  map[string]bool{"id": true, "created_at": true, "updated_at": true},
		fallback: fallback,
	}
	for _, c := range columns {
		spec.columns[c] = true
	}
	return spec
}

// column returns field when it is whitelisted and the fallback otherwise
func (s sortSpec) column(field string) string {
	field = strings.TrimSpace(field)
	if s.columns[field] {
		return field
	}
	return s.fallback
}

// sortDirection normalizes a requested direction; anything but asc is DESC
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	companySort = newSortSpec("created_at", "name")
	accountSort = newSortSpec("code", "code", "name", "type", "is_active")
	journalSort = newSortSpec("code", "code", "name", "type")
	partnerSort = newSortSpec("name", "name", "email")
	entrySort   = newSortSpec("date", "date", "number", "status", "posted_at")
	invoiceSort = newSortSpec("invoice_date", "invoice_date", "due_date", "number", "status", "total_amount", "posted_at")
)
