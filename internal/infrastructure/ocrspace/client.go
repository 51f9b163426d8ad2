package ocrspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/internal/infrastructure/external"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/resilience"
)

const (
	DefaultURL      = "https://api.ocr.space/parse/image"
	DefaultLanguage = "eng"
	DefaultTimeout  = 30 * time.Second
)

// Config holds OCR.space client configuration
type Config struct {
	URL      string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// DefaultConfig returns the public endpoint configuration for apiKey
func DefaultConfig(apiKey string) Config {
	return Config{
		URL:      DefaultURL,
		APIKey:   apiKey,
		Language: DefaultLanguage,
		Timeout:  DefaultTimeout,
	}
}

// Client extracts label text with the OCR.space parse API.
// Implements domain.TextExtractor.
type Client struct {
	config     Config
	httpClient *http.Client
	caller     *external.Caller
}

// NewClient creates a new OCR.space client
func NewClient(config Config, breaker *resilience.CircuitBreaker, logger *logging.Logger, m *metrics.Metrics) *Client {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{},
		caller:     external.NewCaller(resilience.BreakerOCRSpace, config.URL, config.Timeout, breaker, logger, m),
	}
}

// parseResponse is the subset of the parse API answer the client reads.
// ErrorMessage is a string or a list of strings depending on the failure.
type parseResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func (r parseResponse) errorMessage() string {
	if len(r.ErrorMessage) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(r.ErrorMessage, &single); err == nil {
		return single
	}
	return string(r.ErrorMessage)
}

// ExtractText uploads the image and returns the text of the first parsed
// result. A response without parsed results yields "" and no error.
func (c *Client) ExtractText(ctx context.Context, image domain.LabelImage) (string, error) {
	if c.config.APIKey == "" {
		return "", fmt.Errorf("ocr.space: %w", external.ErrMissingAPIKey)
	}

	body, contentType, err := c.encode(image)
	if err != nil {
		return "", fmt.Errorf("failed to encode OCR request: %w", err)
	}

	return external.Do(ctx, c.caller, "parse_image", http.MethodPost, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to call OCR service: %w", err)
		}
		defer resp.Body.Close()

		if err := external.CheckStatus(c.caller.Service(), resp); err != nil {
			return "", err
		}

		var parsed parseResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return "", fmt.Errorf("failed to decode OCR response: %w", err)
		}

		if len(parsed.ParsedResults) == 0 {
			if parsed.IsErroredOnProcessing {
				return "", fmt.Errorf("ocr.space failed to process image (exit code %d): %s",
					parsed.OCRExitCode, parsed.errorMessage())
			}
			return "", nil
		}
		return parsed.ParsedResults[0].ParsedText, nil
	})
}

func (c *Client) encode(image domain.LabelImage) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"apikey", c.config.APIKey},
		{"language", c.config.Language},
		{"isOverlayRequired", "false"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	fileName := image.FileName
	if fileName == "" {
		fileName = "label"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", image.ContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
