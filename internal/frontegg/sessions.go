package frontegg

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/skybi/session-report/internal/user"
)

const sessionsPath = "/identity/resources/users/sessions/v1/me"

// ActiveSessions retrieves the active sessions of the given user.
// A response that is not a JSON array yields nil sessions without an error.
func (session *Session) ActiveSessions(ctx context.Context, userID string) ([]user.Session, error) {
	request, err := session.newRequest(ctx, http.MethodGet, sessionsPath)
	if err != nil {
		return nil, err
	}
	request.Header.Set("frontegg-user-id", userID)

	raw, err := session.client.do(request, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var sessions []user.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		session.client.logger.Debug().Err(err).Str("user_id", userID).Msg("session response is not a session list")
		return nil, nil
	}
	return sessions, nil
}
