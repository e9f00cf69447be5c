package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-for-busy-people", Slugify("  Go for Busy   People! "))
	assert.Equal(t, "c-101-intro", Slugify("C++ 101: Intro"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestPagination(t *testing.T) {
	page, limit, offset := Pagination("3", "20")
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	page, limit, offset = Pagination("", "abc")
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, limit)
	assert.Equal(t, 0, offset)

	_, limit, _ = Pagination("1", "5000")
	assert.Equal(t, MaxPageSize, limit)
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 3, TotalPages(21, 10))
	assert.EqualValues(t, 0, TotalPages(0, 10))
	assert.EqualValues(t, 0, TotalPages(5, 0))
}
