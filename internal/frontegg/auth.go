package frontegg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrMissingToken is returned whenever the vendor authentication endpoint does not hand out a token
var ErrMissingToken = errors.New("the vendor API returned no token")

const authPath = "/auth/vendor/"

type authRequest struct {
	ClientID string `json:"clientId"`
	Secret   string `json:"secret"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges the client ID and secret for a bearer token and returns a session using it
func (client *Client) Authenticate(ctx context.Context, clientID, secret string) (*Session, error) {
	payload, err := json.Marshal(&authRequest{
		ClientID: clientID,
		Secret:   secret,
	})
	if err != nil {
		return nil, err
	}

	request, err := client.newRequest(ctx, http.MethodPost, authPath, payload)
	if err != nil {
		return nil, err
	}
	raw, err := client.do(request, payload)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: response is not JSON", ErrMissingToken)
	}

	var response authResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingToken, err)
	}
	if response.Token == "" {
		return nil, ErrMissingToken
	}

	client.logger.Info().Msg("obtained vendor token")
	return client.NewSession(response.Token), nil
}

// Session represents an authenticated conversation with the vendor API
type Session struct {
	client *Client
	tokens oauth2.TokenSource
}

// NewSession creates a session using an already obtained bearer token
func (client *Client) NewSession(token string) *Session {
	return &Session{
		client: client,
		tokens: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}),
	}
}

func (session *Session) newRequest(ctx context.Context, method, pathAndQuery string) (*http.Request, error) {
	request, err := session.client.newRequest(ctx, method, pathAndQuery, nil)
	if err != nil {
		return nil, err
	}
	token, err := session.tokens.Token()
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(request)
	return request, nil
}
