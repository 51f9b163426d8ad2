package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/internal/infrastructure/external"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/resilience"
)

const (
	DefaultGoogleURL = "https://translate.google.com/m"
	DefaultTimeout   = 30 * time.Second

	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ErrEmptyTranslation is returned when a provider answers without a translation
var ErrEmptyTranslation = errors.New("translation response contained no result")

// resultSelectors are tried in order on the mobile page
var resultSelectors = []string{"div.result-container", "div.t0"}

// GoogleConfig holds configuration for the Google Translate web endpoint
type GoogleConfig struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// DefaultGoogleConfig returns the public endpoint configuration
func DefaultGoogleConfig() GoogleConfig {
	return GoogleConfig{
		URL:       DefaultGoogleURL,
		UserAgent: defaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// GoogleTranslator translates through the mobile Google Translate page with
// source language detection. Implements domain.Translator.
type GoogleTranslator struct {
	config     GoogleConfig
	httpClient *http.Client
	caller     *external.Caller
}

// NewGoogleTranslator creates a new GoogleTranslator
func NewGoogleTranslator(config GoogleConfig, breaker *resilience.CircuitBreaker, logger *logging.Logger, m *metrics.Metrics) *GoogleTranslator {
	if config.URL == "" {
		config.URL = DefaultGoogleURL
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	return &GoogleTranslator{
		config:     config,
		httpClient: &http.Client{},
		caller:     external.NewCaller(resilience.BreakerGoogleTranslate, config.URL, config.Timeout, breaker, logger, m),
	}
}

// Translate translates text into target
func (t *GoogleTranslator) Translate(ctx context.Context, text string, target domain.TargetLanguage) (string, error) {
	return external.Do(ctx, t.caller, "translate", http.MethodGet, func(ctx context.Context) (string, error) {
		query := url.Values{}
		query.Set("sl", "auto")
		query.Set("tl", string(target))
		query.Set("q", text)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.config.URL+"?"+query.Encode(), nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", t.config.UserAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to call translation service: %w", err)
		}
		defer resp.Body.Close()

		if err := external.CheckStatus(t.caller.Service(), resp); err != nil {
			return "", err
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to parse translation page: %w", err)
		}

		for _, selector := range resultSelectors {
			if sel := doc.Find(selector).First(); sel.Length() > 0 {
				if translated := strings.TrimSpace(sel.Text()); translated != "" {
					return translated, nil
				}
			}
		}
		return "", ErrEmptyTranslation
	})
}
