package pagination

import (
	"regexp"
	"strconv"
)

var offsetPattern = regexp.MustCompile(`_offset=(\d+)`)

// Cursor addresses a single page of a listing.
// The zero value addresses the first page and carries no explicit offset.
type Cursor struct {
	offset   uint64
	explicit bool
}

// At returns a cursor addressing the page starting at the given offset
func At(offset uint64) Cursor {
	return Cursor{offset: offset, explicit: true}
}

// Offset returns the offset of the cursor and whether it was set explicitly
func (cursor Cursor) Offset() (uint64, bool) {
	return cursor.offset, cursor.explicit
}

// ParseOffset extracts the numeric offset embedded in a next link (the digits following '_offset=').
// The boolean result reports whether an offset could be extracted.
func ParseOffset(next string) (uint64, bool) {
	match := offsetPattern.FindStringSubmatch(next)
	if match == nil {
		return 0, false
	}
	offset, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return offset, true
}
