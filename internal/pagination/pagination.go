package pagination

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNilPage is returned whenever a fetcher returns neither a page nor an error
var ErrNilPage = errors.New("fetcher returned no page")

// Page represents a single fetched page: its items in response order plus the raw next link
type Page[T any] struct {
	Items []T
	Next  string
}

// Fetcher retrieves the page addressed by the given cursor
type Fetcher[T any] func(ctx context.Context, cursor Cursor) (*Page[T], error)

// Result represents the outcome of a traversal.
// Complete is false if the traversal stopped early because a next link could not be followed; Items then only
// contains the pages collected up to that point.
type Result[T any] struct {
	Items    []T
	Count    int
	Pages    int
	Complete bool
}

// Collect fetches the first page and follows the next links until the server stops returning one.
// Pages are fetched strictly one after another and their items are appended in response order.
func Collect[T any](ctx context.Context, fetch Fetcher[T], logger zerolog.Logger) (*Result[T], error) {
	result := &Result[T]{}
	fetched := make(map[uint64]struct{})

	cursor := Cursor{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, ErrNilPage
		}
		offset, _ := cursor.Offset()
		fetched[offset] = struct{}{}
		result.Items = append(result.Items, page.Items...)
		result.Pages++

		if page.Next == "" {
			result.Complete = true
			break
		}
		logger.Info().Msgf("Getting next page! %s", page.Next)

		next, ok := ParseOffset(page.Next)
		if !ok {
			logger.Warn().Str("next", page.Next).Msg("Could not extract offset value from next.")
			break
		}
		if _, seen := fetched[next]; seen {
			logger.Warn().Str("next", page.Next).Uint64("offset", next).Msg("Next link points to an already fetched page.")
			break
		}
		cursor = At(next)
	}

	if result.Items == nil {
		result.Items = []T{}
	}
	result.Count = len(result.Items)
	return result, nil
}
