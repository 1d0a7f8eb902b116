package frontegg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/skybi/session-report/internal/api/schema"
	"github.com/skybi/session-report/internal/pagination"
	"github.com/skybi/session-report/internal/user"
)

// ErrMalformedPage is returned whenever a user listing response is absent or lacks its item array
var ErrMalformedPage = errors.New("malformed user listing page")

const usersPath = "/identity/resources/users/v3"

// DefaultPageSize is the page size the user listing is requested with
const DefaultPageSize = 200

// ListOptions configures the user listing
type ListOptions struct {
	PageSize          uint64
	IncludeSubTenants bool
}

func (opts ListOptions) query(cursor pagination.Cursor) string {
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	query := fmt.Sprintf("?includeSubTenants=%t&_limit=%d", opts.IncludeSubTenants, pageSize)
	if offset, explicit := cursor.Offset(); explicit {
		query += fmt.Sprintf("&_offset=%d", offset)
	}
	return query
}

// UsersPage retrieves the single user listing page addressed by cursor
func (session *Session) UsersPage(ctx context.Context, cursor pagination.Cursor, opts ListOptions) (*pagination.Page[user.User], error) {
	request, err := session.newRequest(ctx, http.MethodGet, usersPath+opts.query(cursor))
	if err != nil {
		return nil, err
	}
	raw, err := session.client.do(request, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: response is not JSON", ErrMalformedPage)
	}

	var response schema.PaginatedResponse[user.User]
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPage, err)
	}
	if response.Items == nil {
		return nil, fmt.Errorf("%w: no items", ErrMalformedPage)
	}

	return &pagination.Page[user.User]{
		Items: response.Items,
		Next:  response.NextLink(),
	}, nil
}

// ListUsers retrieves all users by following the listing's next links
func (session *Session) ListUsers(ctx context.Context, opts ListOptions) (*pagination.Result[user.User], error) {
	return pagination.Collect(ctx, func(ctx context.Context, cursor pagination.Cursor) (*pagination.Page[user.User], error) {
		return session.UsersPage(ctx, cursor, opts)
	}, session.client.logger)
}
