package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a size into offset and limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return (page - 1) * size, size
}

// Paging reads optional page and size query values. ok is false when
// neither is present, meaning the caller wants everything.
func Paging(pageParam, sizeParam string) (offset, limit int, ok bool) {
	if pageParam == "" && sizeParam == "" {
		return 0, 0, false
	}
	offset, limit = Calculate(ParseIntDefault(pageParam, 1), ParseIntDefault(sizeParam, DefaultPageSize))
	return offset, limit, true
}
