package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// NoTextExtracted is the message shown when OCR finds nothing to translate
const NoTextExtracted = "Error: Could not extract text."

// Labeling errors
var (
	ErrNoTextExtracted          = errors.New("could not extract text")
	ErrEmptyImage               = errors.New("label image is empty")
	ErrImageTooLarge            = errors.New("label image is too large")
	ErrUnsupportedImageType     = errors.New("unsupported label image type")
	ErrUnsupportedLanguage      = errors.New("unsupported target language")
	ErrTextTooLong              = errors.New("extracted text is too long to translate")
	ErrLabelTranslationNotFound = errors.New("label translation not found")
)

// Label limits
const (
	// MaxImageBytes is the upload ceiling of the OCR service
	MaxImageBytes = 1 << 20
	// MaxTranslationChars is the longest text the translation endpoint accepts
	MaxTranslationChars = 5000
)

// Image content types accepted for labels
const (
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
)

// TargetLanguage is a BCP 47 code a label can be translated into
type TargetLanguage string

const (
	LanguageFrench  TargetLanguage = "fr"
	LanguageSpanish TargetLanguage = "es"
	LanguageGerman  TargetLanguage = "de"
	LanguageItalian TargetLanguage = "it"
)

// TargetLanguages lists the supported languages in display order
var TargetLanguages = []TargetLanguage{LanguageFrench, LanguageSpanish, LanguageGerman, LanguageItalian}

// IsValid checks if the language is supported
func (l TargetLanguage) IsValid() bool {
	switch l {
	case LanguageFrench, LanguageSpanish, LanguageGerman, LanguageItalian:
		return true
	default:
		return false
	}
}

// Tag returns the language tag
func (l TargetLanguage) Tag() language.Tag {
	return language.Make(string(l))
}

// DisplayName returns the English name of the language
func (l TargetLanguage) DisplayName() string {
	if !l.IsValid() {
		return string(l)
	}
	return display.English.Languages().Name(l.Tag())
}

// ParseTargetLanguage accepts a code ("fr"), a regional tag ("fr-CA") or an
// English name ("French").
func ParseTargetLanguage(s string) (TargetLanguage, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsupportedLanguage)
	}

	if tag, err := language.Parse(trimmed); err == nil {
		base, _ := tag.Base()
		if l := TargetLanguage(base.String()); l.IsValid() {
			return l, nil
		}
	}
	for _, l := range TargetLanguages {
		if strings.EqualFold(trimmed, l.DisplayName()) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// LabelImage is an uploaded product label
type LabelImage struct {
	FileName    string
	ContentType string
	Data        []byte
}

// NewLabelImage builds a label image. A missing or generic content type is
// inferred from the file extension.
func NewLabelImage(fileName, contentType string, data []byte) LabelImage {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = contentTypeFromExtension(fileName)
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		ct = ContentTypeJPEG
	}
	return LabelImage{FileName: fileName, ContentType: ct, Data: data}
}

func contentTypeFromExtension(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return ContentTypePNG
	case ".jpg", ".jpeg":
		return ContentTypeJPEG
	default:
		return ""
	}
}

// Size returns the image size in bytes
func (i LabelImage) Size() int {
	return len(i.Data)
}

// Validate checks size and type
func (i LabelImage) Validate() error {
	if len(i.Data) == 0 {
		return ErrEmptyImage
	}
	if len(i.Data) > MaxImageBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(i.Data), MaxImageBytes)
	}
	if i.ContentType != ContentTypePNG && i.ContentType != ContentTypeJPEG {
		return fmt.Errorf("%w: %q (expected png or jpeg)", ErrUnsupportedImageType, i.ContentType)
	}
	return nil
}

// NormalizeExtractedText trims OCR output and unifies line endings.
// An empty result means no text was found.
func NormalizeExtractedText(text string) (string, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if normalized == "" {
		return "", ErrNoTextExtracted
	}
	if n := utf8.RuneCountInString(normalized); n > MaxTranslationChars {
		return "", fmt.Errorf("%w: %d characters exceeds %d", ErrTextTooLong, n, MaxTranslationChars)
	}
	return normalized, nil
}

// LabelTranslation records a label read by OCR and its translation
type LabelTranslation struct {
	TranslationID  string         `bson:"_id"`
	FileName       string         `bson:"fileName"`
	ContentType    string         `bson:"contentType"`
	ImageSize      int            `bson:"imageSize"`
	ExtractedText  string         `bson:"extractedText"`
	TargetLanguage TargetLanguage `bson:"targetLanguage"`
	TranslatedText string         `bson:"translatedText"`
	CreatedAt      time.Time      `bson:"createdAt"`
	DomainEvents   []DomainEvent  `bson:"-"`
}

// NewLabelTranslation creates a translation record
func NewLabelTranslation(image LabelImage, extractedText string, target TargetLanguage, translatedText string) (*LabelTranslation, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, target)
	}
	if strings.TrimSpace(extractedText) == "" {
		return nil, ErrNoTextExtracted
	}

	now := time.Now().UTC()
	t := &LabelTranslation{
		TranslationID:  uuid.New().String(),
		FileName:       image.FileName,
		ContentType:    image.ContentType,
		ImageSize:      image.Size(),
		ExtractedText:  extractedText,
		TargetLanguage: target,
		TranslatedText: translatedText,
		CreatedAt:      now,
		DomainEvents:   make([]DomainEvent, 0, 1),
	}

	t.AddDomainEvent(&LabelTranslatedEvent{
		TranslationID:  t.TranslationID,
		TargetLanguage: string(target),
		Characters:     utf8.RuneCountInString(extractedText),
		TranslatedAt:   now,
	})

	return t, nil
}

// AddDomainEvent adds a domain event
func (t *LabelTranslation) AddDomainEvent(event DomainEvent) {
	t.DomainEvents = append(t.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (t *LabelTranslation) GetDomainEvents() []DomainEvent {
	return t.DomainEvents
}

// ClearDomainEvents clears all domain events
func (t *LabelTranslation) ClearDomainEvents() {
	t.DomainEvents = make([]DomainEvent, 0)
}
