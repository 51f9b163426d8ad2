package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/internal/infrastructure/external"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/resilience"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

const systemPrompt = "You translate product labels for export. " +
	"Reply with the translation only, keeping line breaks, numbers, dates and units unchanged."

// OpenAIConfig holds configuration for the chat completion translator
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns the configuration for apiKey
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		Model:   openai.GPT4oMini,
		BaseURL: defaultOpenAIBaseURL,
		Timeout: DefaultTimeout,
	}
}

// OpenAITranslator translates with a chat completion model.
// Implements domain.Translator.
type OpenAITranslator struct {
	config OpenAIConfig
	client *openai.Client
	caller *external.Caller
}

// NewOpenAITranslator creates a new OpenAITranslator
func NewOpenAITranslator(config OpenAIConfig, breaker *resilience.CircuitBreaker, logger *logging.Logger, m *metrics.Metrics) *OpenAITranslator {
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenAIBaseURL
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return &OpenAITranslator{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		caller: external.NewCaller(resilience.BreakerOpenAITranslate, config.BaseURL, config.Timeout, breaker, logger, m),
	}
}

// Translate translates text into target
func (t *OpenAITranslator) Translate(ctx context.Context, text string, target domain.TargetLanguage) (string, error) {
	if t.config.APIKey == "" {
		return "", fmt.Errorf("openai: %w", external.ErrMissingAPIKey)
	}

	return external.Do(ctx, t.caller, "chat_completion", http.MethodPost, func(ctx context.Context) (string, error) {
		resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: t.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Translate into %s:\n\n%s", target.DisplayName(), text),
				},
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to create chat completion: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", ErrEmptyTranslation
		}
		translated := strings.TrimSpace(resp.Choices[0].Message.Content)
		if translated == "" {
			return "", ErrEmptyTranslation
		}
		return translated, nil
	})
}
