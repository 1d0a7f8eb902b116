package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// scriptedFetcher serves pre-defined pages keyed by offset and records every requested cursor
type scriptedFetcher struct {
	pages map[uint64]*Page[string]
	calls []Cursor
}

func (fetcher *scriptedFetcher) fetch(_ context.Context, cursor Cursor) (*Page[string], error) {
	fetcher.calls = append(fetcher.calls, cursor)
	offset, _ := cursor.Offset()
	page, ok := fetcher.pages[offset]
	if !ok {
		return nil, fmt.Errorf("unexpected offset %d", offset)
	}
	return page, nil
}

type CollectSuite struct {
	suite.Suite
	logger zerolog.Logger
}

func TestCollectSuite(t *testing.T) {
	suite.Run(t, new(CollectSuite))
}

func (s *CollectSuite) SetupTest() {
	s.logger = zerolog.Nop()
}

func (s *CollectSuite) TestMultiplePages() {
	sizes := []int{200, 200, 37}
	fetcher := &scriptedFetcher{pages: map[uint64]*Page[string]{}}
	var expected []string
	offset := uint64(0)
	for i, size := range sizes {
		page := &Page[string]{}
		for j := 0; j < size; j++ {
			item := fmt.Sprintf("page%d-item%d", i, j)
			page.Items = append(page.Items, item)
			expected = append(expected, item)
		}
		if i < len(sizes)-1 {
			page.Next = fmt.Sprintf("/identity/resources/users/v3?includeSubTenants=true&_limit=200&_offset=%d", offset+uint64(size))
		}
		fetcher.pages[offset] = page
		offset += uint64(size)
	}

	result, err := Collect(context.Background(), fetcher.fetch, s.logger)
	s.Require().NoError(err)
	s.True(result.Complete)
	s.Equal(437, result.Count)
	s.Equal(3, result.Pages)
	s.Equal(expected, result.Items)

	s.Require().Len(fetcher.calls, 3)
	_, explicit := fetcher.calls[0].Offset()
	s.False(explicit, "the first page is requested without an offset")
	first, _ := fetcher.calls[1].Offset()
	second, _ := fetcher.calls[2].Offset()
	s.Equal(uint64(200), first)
	s.Equal(uint64(400), second)
}

func (s *CollectSuite) TestSinglePageWithoutNext() {
	fetcher := &scriptedFetcher{pages: map[uint64]*Page[string]{
		0: {Items: []string{"a", "b"}},
	}}

	result, err := Collect(context.Background(), fetcher.fetch, s.logger)
	s.Require().NoError(err)
	s.True(result.Complete)
	s.Equal([]string{"a", "b"}, result.Items)
	s.Len(fetcher.calls, 1)
}

func (s *CollectSuite) TestUnparsableNextReturnsPartialResult() {
	fetcher := &scriptedFetcher{pages: map[uint64]*Page[string]{
		0: {Items: []string{"a"}, Next: "/identity/resources/users/v3?cursor=opaque"},
	}}

	result, err := Collect(context.Background(), fetcher.fetch, s.logger)
	s.Require().NoError(err)
	s.False(result.Complete)
	s.Equal([]string{"a"}, result.Items)
	s.Equal(1, result.Count)
	s.Len(fetcher.calls, 1)
}

func (s *CollectSuite) TestRepeatedOffsetIsNotFetchedTwice() {
	fetcher := &scriptedFetcher{pages: map[uint64]*Page[string]{
		0:  {Items: []string{"a"}, Next: "?_offset=10"},
		10: {Items: []string{"b"}, Next: "?_offset=10"},
	}}

	result, err := Collect(context.Background(), fetcher.fetch, s.logger)
	s.Require().NoError(err)
	s.False(result.Complete)
	s.Equal([]string{"a", "b"}, result.Items)
	s.Len(fetcher.calls, 2)
}

func (s *CollectSuite) TestEmptyListing() {
	fetcher := &scriptedFetcher{pages: map[uint64]*Page[string]{
		0: {Next: ""},
	}}

	result, err := Collect(context.Background(), fetcher.fetch, s.logger)
	s.Require().NoError(err)
	s.True(result.Complete)
	s.Equal(0, result.Count)
	s.NotNil(result.Items)
}

func (s *CollectSuite) TestFetchErrorAborts() {
	boom := errors.New("boom")
	calls := 0
	fetch := func(_ context.Context, cursor Cursor) (*Page[string], error) {
		calls++
		if _, explicit := cursor.Offset(); explicit {
			return nil, boom
		}
		return &Page[string]{Items: []string{"a"}, Next: "?_offset=1"}, nil
	}

	result, err := Collect(context.Background(), fetch, s.logger)
	s.ErrorIs(err, boom)
	s.Nil(result)
	s.Equal(2, calls)
}

func (s *CollectSuite) TestNilPage() {
	fetch := func(context.Context, Cursor) (*Page[string], error) {
		return nil, nil
	}
	_, err := Collect(context.Background(), fetch, s.logger)
	s.ErrorIs(err, ErrNilPage)
}

func (s *CollectSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &scriptedFetcher{}
	_, err := Collect(ctx, fetcher.fetch, s.logger)
	s.ErrorIs(err, context.Canceled)
	s.Empty(fetcher.calls)
}

func TestParseOffset(t *testing.T) {
	cases := []struct {
		next   string
		offset uint64
		ok     bool
	}{
		{"https://api.frontegg.com/identity/resources/users/v3?_limit=200&_offset=400", 400, true},
		{"/identity/resources/users/v3?_offset=0&_limit=200", 0, true},
		{"_offset=12abc", 12, true},
		{"/identity/resources/users/v3?_limit=200", 0, false},
		{"_offset=", 0, false},
		{"_offset=-5", 0, false},
		{"_offset=99999999999999999999999", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		offset, ok := ParseOffset(c.next)
		require.Equal(t, c.ok, ok, c.next)
		assert.Equal(t, c.offset, offset, c.next)
	}
}
