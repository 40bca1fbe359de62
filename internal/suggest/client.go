// Package suggest is a client for the third-party address suggestion service.
//
// The service is not part of the booking backend: calls carry its own
// "Token" authorization and no X-Request-Id.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/booking-go/internal/normalize"
	"github.com/eshaffer321/booking-go/internal/transport"
	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/hashicorp/go-cleanhttp"
)

// DefaultCount is how many suggestions are requested when unset
const DefaultCount = 10

// Suggestion is one address suggestion. Values are passed through as
// returned by the service.
type Suggestion struct {
	Value             string `json:"value"`
	UnrestrictedValue string `json:"unrestricted_value"`
	Data              Data   `json:"data"`
}

// Data holds the structured parts of a suggestion used by the booking app
type Data struct {
	PostalCode     string `json:"postal_code,omitempty"`
	Country        string `json:"country,omitempty"`
	Region         string `json:"region_with_type,omitempty"`
	City           string `json:"city,omitempty"`
	StreetWithType string `json:"street_with_type,omitempty"`
	Street         string `json:"street,omitempty"`
	House          string `json:"house,omitempty"`
	Flat           string `json:"flat,omitempty"`
	GeoLat         string `json:"geo_lat,omitempty"`
	GeoLon         string `json:"geo_lon,omitempty"`
}

// Options for the suggestion client
type Options struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Normalizer *normalize.Normalizer
	Logger     types.Logger

	// FailureHandlers run in order for every failed lookup except canceled ones
	FailureHandlers []transport.FailureHandler
}

// Client queries the suggestion service
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	normalizer *normalize.Normalizer
	logger     types.Logger
	handlers   []transport.FailureHandler
}

// NewClient creates a suggestion client
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}

	if opts.URL == "" {
		opts.URL = types.DefaultSuggestURL
	}

	if opts.Timeout == 0 {
		opts.Timeout = types.DefaultTimeout
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = cleanhttp.DefaultPooledClient()
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.Normalizer == nil {
		opts.Normalizer = normalize.New(normalize.ParseLanguage(""))
	}

	return &Client{
		url:        opts.URL,
		apiKey:     opts.APIKey,
		httpClient: opts.HTTPClient,
		normalizer: opts.Normalizer,
		logger:     opts.Logger,
		handlers:   opts.FailureHandlers,
	}
}

type suggestRequest struct {
	Query string `json:"query"`
	Count int    `json:"count,omitempty"`
}

type suggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest returns address suggestions for query. count <= 0 uses DefaultCount.
// An empty query returns no suggestions without calling the service.
func (c *Client) Suggest(ctx context.Context, query string, count int) ([]Suggestion, error) {
	suggestions, apiErr := c.suggest(ctx, query, count)
	if apiErr != nil {
		return nil, c.fail(ctx, apiErr)
	}
	return suggestions, nil
}

func (c *Client) suggest(ctx context.Context, query string, count int) ([]Suggestion, *types.Error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Suggestion{}, nil
	}
	if count <= 0 {
		count = DefaultCount
	}

	body, err := json.Marshal(suggestRequest{Query: query, Count: count})
	if err != nil {
		return nil, c.normalizer.Encode(err, "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, c.normalizer.Unknown(err)
	}
	req.Header.Set(types.HeaderContentType, types.ContentTypeJSON)
	req.Header.Set(types.HeaderAccept, types.ContentTypeJSON)
	if c.apiKey != "" {
		req.Header.Set(types.HeaderAuthorization, "Token "+c.apiKey)
	}

	if c.logger != nil {
		c.logger.Debug("Address suggestion request", "query", query, "count", count)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.normalizer.Normalize(normalize.Failure{Err: err})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.normalizer.Normalize(normalize.Failure{Err: err})
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := c.normalizer.Normalize(normalize.Failure{
			HasResponse: true,
			Status:      resp.StatusCode,
			Body:        respBody,
		})
		// A rejected service token says nothing about the user's session
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			apiErr.Code = types.CodeSuggestUnauthorized
		}
		return nil, apiErr
	}

	var out suggestResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, c.normalizer.Decode(resp.StatusCode, err, "")
	}
	if out.Suggestions == nil {
		out.Suggestions = []Suggestion{}
	}

	if c.logger != nil {
		c.logger.Debug("Address suggestion response", "count", len(out.Suggestions))
	}

	return out.Suggestions, nil
}

func (c *Client) fail(ctx context.Context, apiErr *types.Error) error {
	if apiErr.Code == types.CodeCanceled {
		return apiErr
	}

	if c.logger != nil {
		c.logger.Error("Address suggestion failed",
			"code", apiErr.Code,
			"status", apiErr.Status,
			"message", apiErr.Message)
	}

	handlerCtx := context.WithoutCancel(ctx)
	for _, h := range c.handlers {
		h.HandleFailure(handlerCtx, apiErr)
	}

	return apiErr
}
