package utils

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Slugify lowercases s and collapses every run of non alphanumerics into a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// Pagination normalises page/limit query values and returns the row offset.
func Pagination(pageStr, limitStr string) (page, limit, offset int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

// TotalPages rounds total/limit up.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
