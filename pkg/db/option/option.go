package option

import (
	"strconv"
	"strings"
	"time"

	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"gorm.io/gorm"
)

const maxPageSize = 250

// QueryOption mutates a statement before execution.
type QueryOption interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type QueryOptionFunc func(stmt *gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(stmt *gorm.DB) *gorm.DB {
	return f(stmt)
}

// ApplyPagination adds keyset filtering for (created_at, id) descending order
// and fetches one extra row so callers can detect another page.
// An undecodable page token is treated as the first page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return QueryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = 10
		}
		if size > maxPageSize {
			size = maxPageSize
		}

		if page.PageToken != "" {
			if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil {
				id, idErr := strconv.ParseInt(cursor.ID, 10, 64)
				createdAt, tsErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
				if idErr == nil && tsErr == nil {
					stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
				}
			}
		}
		return stmt.Limit(size + 1)
	})
}

// WithSortBy orders by an allowlisted column. Unknown columns fall back to
// created_at and anything but "asc" sorts descending.
func WithSortBy(column, direction string, allowed map[string]bool) QueryOption {
	return QueryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		if !allowed[column] {
			column = "created_at"
		}
		dir := "desc"
		if strings.EqualFold(strings.TrimSpace(direction), "asc") {
			dir = "asc"
		}
		return stmt.Order(column + " " + dir).Order("id " + dir)
	})
}
