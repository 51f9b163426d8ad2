package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/internal/infrastructure/external"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/resilience"
)

const (
	DefaultURL     = "https://maps.googleapis.com/maps/api/directions/json"
	DefaultTimeout = 30 * time.Second
)

// Directions API status values
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusNotFound    = "NOT_FOUND"
)

// Config holds Directions API client configuration
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns the public endpoint configuration for apiKey
func DefaultConfig(apiKey string) Config {
	return Config{
		URL:     DefaultURL,
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
	}
}

// BreakerConfig returns the breaker settings for the Directions API. Answers
// without a route come from a healthy upstream and do not count as failures.
func BreakerConfig() *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(resilience.BreakerGoogleMaps)
	cfg.IsSuccessful = func(err error) bool {
		return errors.Is(err, domain.ErrNoRoute)
	}
	return cfg
}

// Client resolves driving directions. Implements domain.DirectionsProvider.
type Client struct {
	config     Config
	httpClient *http.Client
	caller     *external.Caller
}

// NewClient creates a new Directions API client. breaker should be built
// from BreakerConfig.
func NewClient(config Config, breaker *resilience.CircuitBreaker, logger *logging.Logger, m *metrics.Metrics) *Client {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{},
		caller:     external.NewCaller(resilience.BreakerGoogleMaps, config.URL, config.Timeout, breaker, logger, m),
	}
}

type textValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Summary string `json:"summary"`
		Legs    []struct {
			Distance     textValue `json:"distance"`
			Duration     textValue `json:"duration"`
			StartAddress string    `json:"start_address"`
			EndAddress   string    `json:"end_address"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions returns the first leg of the first route from origin to destination
func (c *Client) Directions(ctx context.Context, origin, destination string, mode domain.TravelMode) (domain.DrivingRoute, error) {
	if c.config.APIKey == "" {
		return domain.DrivingRoute{}, fmt.Errorf("google maps: %w", external.ErrMissingAPIKey)
	}

	return external.Do(ctx, c.caller, "directions", http.MethodGet, func(ctx context.Context) (domain.DrivingRoute, error) {
		query := url.Values{}
		query.Set("origin", origin)
		query.Set("destination", destination)
		query.Set("mode", string(mode))
		query.Set("key", c.config.APIKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL+"?"+query.Encode(), nil)
		if err != nil {
			return domain.DrivingRoute{}, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// url.Error would echo the key
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				err = urlErr.Err
			}
			return domain.DrivingRoute{}, fmt.Errorf("failed to call directions service: %w", err)
		}
		defer resp.Body.Close()

		if err := external.CheckStatus(c.caller.Service(), resp); err != nil {
			return domain.DrivingRoute{}, err
		}

		var parsed directionsResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return domain.DrivingRoute{}, fmt.Errorf("failed to decode directions response: %w", err)
		}

		switch parsed.Status {
		case StatusOK:
		case StatusZeroResults, StatusNotFound:
			return domain.DrivingRoute{}, fmt.Errorf("%s: %w", parsed.Status, domain.ErrNoRoute)
		default:
			if parsed.ErrorMessage != "" {
				return domain.DrivingRoute{}, fmt.Errorf("directions request failed with status %s: %s", parsed.Status, parsed.ErrorMessage)
			}
			return domain.DrivingRoute{}, fmt.Errorf("directions request failed with status %s", parsed.Status)
		}

		if len(parsed.Routes) == 0 || len(parsed.Routes[0].Legs) == 0 {
			return domain.DrivingRoute{}, fmt.Errorf("no legs in response: %w", domain.ErrNoRoute)
		}

		leg := parsed.Routes[0].Legs[0]
		return domain.DrivingRoute{
			DistanceText:    leg.Distance.Text,
			DurationText:    leg.Duration.Text,
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
			StartAddress:    leg.StartAddress,
			EndAddress:      leg.EndAddress,
		}, nil
	})
}
