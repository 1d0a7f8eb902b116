package schema

import (
	"fmt"
	"net/url"
	"strconv"
)

// PaginatedResponse represents a page of a cursor-paginated vendor API listing
type PaginatedResponse[T any] struct {
	Items []T    `json:"items"`
	Links *Links `json:"_links,omitempty"`
}

// Links represents the link metadata of a PaginatedResponse.
// Next is empty (or absent altogether) on the last page.
type Links struct {
	Next string `json:"next,omitempty"`
}

// NextLink returns the next page link of the response; an absent links object yields an empty string
func (response *PaginatedResponse[T]) NextLink() string {
	if response.Links == nil {
		return ""
	}
	return response.Links.Next
}

// BuildPaginatedResponse builds a page of the listing located at base.
// The next link carries the offset of the following page as long as totalCount has not been reached.
func BuildPaginatedResponse[T any](base *url.URL, offset, limit, totalCount uint64, data []T) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	links := &Links{}
	if next := offset + uint64(len(data)); len(data) > 0 && next < totalCount {
		cpy := *base
		query := cpy.Query()
		query.Set("_limit", strconv.FormatUint(limit, 10))
		query.Set("_offset", strconv.FormatUint(next, 10))
		cpy.RawQuery = query.Encode()
		links.Next = fmt.Sprintf("%s?%s", cpy.Path, cpy.RawQuery)
	}
	return &PaginatedResponse[T]{
		Items: data,
		Links: links,
	}
}
