// Package places fetches place details from the Google Places Details API
// and flattens them into schema store rows.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "places"

// Statuses of a Details response. Only StatusOK carries a result.
const (
	StatusOK             = "OK"
	StatusNotFound       = "NOT_FOUND"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusInvalidRequest = "INVALID_REQUEST"
)

// absentStatuses mean the place id no longer resolves to a place.
var absentStatuses = map[string]bool{
	StatusNotFound:       true,
	StatusZeroResults:    true,
	StatusInvalidRequest: true,
}

// Client calls the Place Details endpoint.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
}

// NewClient creates a Client from the places settings. A missing API key is
// not an error here because ingestion and chat run without it; Details
// reports it instead.
func NewClient(cfg config.PlacesConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, exception.New(exception.KindConfig, moduleName, "places base_url must not be empty", nil)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Details fetches a place. A place that no longer exists yields an error
// of kind exception.KindPlaceNotFound; transport failures and any other
// non-OK status yield exception.KindEnrichmentAPI.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	ctx, span := otel.Tracer("mapchat/places").Start(ctx, "places.Details",
		trace.WithAttributes(attribute.String("place.id", placeID)))
	defer span.End()

	details, err := c.details(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, exception.Message(err))
	}
	return details, err
}

func (c *Client) details(ctx context.Context, placeID string) (*Details, error) {
	if c.apiKey == "" {
		return nil, exception.New(exception.KindConfig, moduleName, "PLACES_API_KEY is required to enrich places", nil)
	}
	q := url.Values{}
	q.Set("placeid", placeID)
	q.Set("reviews_sort", "most_relevant")
	q.Set("key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}
	endpoint := c.baseURL + "/details/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, exception.New(exception.KindEnrichmentAPI, moduleName, "failed to create details request", err)
	}

	logger.Debugf("Fetching place details for %s.", placeID)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, exception.Newf(exception.KindEnrichmentAPI, moduleName, "details call for %s failed", placeID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exception.Newf(exception.KindEnrichmentAPI, moduleName, "failed to read details response for %s", placeID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, exception.Newf(exception.KindEnrichmentAPI, moduleName,
			"details call for %s returned status %d: %s", placeID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope DetailsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, exception.Newf(exception.KindEnrichmentAPI, moduleName, "failed to decode details response for %s", placeID, err)
	}
	return decodeResult(placeID, envelope)
}

func decodeResult(placeID string, envelope DetailsResponse) (*Details, error) {
	switch {
	case envelope.Status == StatusOK:
	case absentStatuses[envelope.Status]:
		return nil, exception.Newf(exception.KindPlaceNotFound, moduleName, "place %s not found (%s)", placeID, envelope.Status)
	default:
		msg := envelope.Status
		if envelope.ErrorMessage != "" {
			msg = fmt.Sprintf("%s: %s", envelope.Status, envelope.ErrorMessage)
		}
		return nil, exception.Newf(exception.KindEnrichmentAPI, moduleName, "details call for %s failed with %s", placeID, msg)
	}

	var d Details
	if err := json.Unmarshal(envelope.Result, &d); err != nil {
		return nil, exception.Newf(exception.KindEnrichmentAPI, moduleName, "failed to decode place %s", placeID, err)
	}
	if d.PlaceID == "" {
		d.PlaceID = placeID
	}
	return &d, nil
}
