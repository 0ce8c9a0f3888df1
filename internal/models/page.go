package models

import "math"

// Page describes one slice of a collection. Pages are 1-based for every
// collection: offset = (Number-1) * Size.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes client input: numbers below 1 become 1, a size below 1
// becomes defaultSize and sizes above maxSize are capped. Numbers past
// MaxPageNumber are clamped so Offset and HasNext cannot overflow.
func NewPage(number, size, defaultSize, maxSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if last := MaxPageNumber(size); number > last {
		number = last
	}
	return Page{Number: number, Size: size}
}

// MaxPageNumber is the largest page number whose row range fits in an int.
func MaxPageNumber(size int) int {
	if size < 1 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether rows exist beyond this page.
func (p Page) HasNext(total int) bool {
	return p.Number*p.Size < total
}

// HasPrev reports whether this is not the first page.
func (p Page) HasPrev() bool {
	return p.Number > 1
}
