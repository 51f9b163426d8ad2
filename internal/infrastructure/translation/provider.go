package translation

import (
	"fmt"
	"strings"
)

// Provider names a translation backend
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderOpenAI Provider = "openai"
)

// ParseProvider parses TRANSLATOR_PROVIDER. An empty value selects Google.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProviderGoogle:
		return ProviderGoogle, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown translation provider %q (expected google or openai)", s)
	}
}
