package frontegg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

var separator = strings.Repeat("-", 100)

// Client issues requests against the vendor API and dumps every request and response to its logger.
// Requests are sent one at a time without timeouts or retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(client *Client)

// WithHTTPClient makes the client use the given HTTP client instead of http.DefaultClient
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// NewClient creates a new vendor API client for the given base URL
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the base URL the client sends its requests to
func (client *Client) BaseURL() string {
	return client.baseURL
}

func (client *Client) newRequest(ctx context.Context, method, pathAndQuery string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+pathAndQuery, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("accept", "application/json")
	request.Header.Set("content-type", "application/json")
	return request, nil
}

// do sends the request and returns the response body if it is valid JSON.
// A body that cannot be decoded is logged and yields a nil result without an error; only transport failures are
// returned as errors.
func (client *Client) do(request *http.Request, payload []byte) (json.RawMessage, error) {
	client.logger.Info().Msg(dumpRequest(request, payload))

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Error().Err(err).Str("url", request.URL.String()).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", request.Method, request.URL.Path, err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		client.logger.Warn().Int("status", response.StatusCode).Msgf("No response, or error decoding response as JSON:\n%s", err)
		return nil, nil
	}
	client.logger.Info().Int("status", response.StatusCode).Msgf("Response:\n%s\n", body)
	return raw, nil
}

func dumpRequest(request *http.Request, payload []byte) string {
	keys := make([]string, 0, len(request.Header))
	for key := range request.Header {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	headers := make([]string, 0, len(keys))
	for _, key := range keys {
		value := request.Header.Get(key)
		if strings.EqualFold(key, "authorization") {
			value = maskAuthorization(value)
		}
		headers = append(headers, fmt.Sprintf("%q: %q", strings.ToLower(key), value))
	}

	renderedPayload := "{}"
	if payload != nil {
		renderedPayload = maskSecret(payload)
	}

	return fmt.Sprintf(
		"* New request:\n%s\nmethod: %s\nurl: %s\npayload: %s\nheaders: {%s}\n%s\n",
		separator,
		request.Method,
		request.URL.String(),
		renderedPayload,
		strings.Join(headers, ", "),
		separator,
	)
}

func maskAuthorization(value string) string {
	scheme, _, found := strings.Cut(value, " ")
	if !found {
		return "***"
	}
	return scheme + " ***"
}

// maskSecret hides the value of a top-level "secret" field of a JSON payload
func maskSecret(payload []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return string(payload)
	}
	if _, ok := fields["secret"]; !ok {
		return string(payload)
	}
	fields["secret"] = json.RawMessage(`"***"`)
	masked, err := json.Marshal(fields)
	if err != nil {
		return string(payload)
	}
	return string(masked)
}
