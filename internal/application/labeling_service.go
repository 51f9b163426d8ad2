package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
)

// LabelingService handles label OCR and translation use cases
type LabelingService struct {
	repo       domain.LabelTranslationRepository
	extractor  domain.TextExtractor
	translator domain.Translator
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewLabelingService creates a new LabelingService
func NewLabelingService(
	repo domain.LabelTranslationRepository,
	extractor domain.TextExtractor,
	translator domain.Translator,
	logger *logging.Logger,
	m *metrics.Metrics,
) *LabelingService {
	return &LabelingService{
		repo:       repo,
		extractor:  extractor,
		translator: translator,
		logger:     logger.WithComponent("labeling"),
		metrics:    m,
	}
}

// ListLanguages returns the supported translation targets
func (s *LabelingService) ListLanguages(ctx context.Context) []LanguageDTO {
	dtos := make([]LanguageDTO, len(domain.TargetLanguages))
	for i, l := range domain.TargetLanguages {
		dtos[i] = ToLanguageDTO(l)
	}
	return dtos
}

// TranslateLabel extracts the text of a label image and translates it.
// Each collaborator is called at most once.
func (s *LabelingService) TranslateLabel(ctx context.Context, cmd TranslateLabelCommand) (*LabelTranslationDTO, error) {
	target, err := domain.ParseTargetLanguage(cmd.TargetLanguage)
	if err != nil {
		return nil, errors.ErrValidationWithFields("invalid target language", map[string]string{
			"targetLanguage": "must be one of fr, es, de, it",
		}).Wrap(err)
	}

	image := domain.NewLabelImage(cmd.FileName, cmd.ContentType, cmd.Data)
	if err := image.Validate(); err != nil {
		if stderrors.Is(err, domain.ErrImageTooLarge) {
			return nil, errors.ErrPayloadTooLarge(domain.MaxImageBytes).Wrap(err)
		}
		return nil, errors.ErrValidationWithFields("invalid label image", map[string]string{
			"file": err.Error(),
		}).Wrap(err)
	}

	raw, err := s.extractor.ExtractText(ctx, image)
	if err != nil {
		return nil, externalError(serviceOCR, err)
	}

	text, err := domain.NormalizeExtractedText(raw)
	switch {
	case stderrors.Is(err, domain.ErrNoTextExtracted):
		s.metrics.RecordLabelWithoutText()
		s.logger.WithContext(ctx).Info("No text found on label", "fileName", image.FileName)
		return nil, errors.ErrTextNotFound(domain.NoTextExtracted).Wrap(err)
	case err != nil:
		return nil, errors.ErrValidation(err.Error()).Wrap(err)
	}

	translated, err := s.translator.Translate(ctx, text, target)
	if err != nil {
		return nil, externalError(serviceTranslation, err)
	}

	translation, err := domain.NewLabelTranslation(image, text, target, translated)
	if err != nil {
		return nil, errors.ErrValidation(err.Error()).Wrap(err)
	}

	if err := s.repo.Save(ctx, translation); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to record label translation",
			"translationId", translation.TranslationID)
	}

	s.metrics.RecordLabelTranslation(string(target))
	s.logger.Event(ctx, "label.translated", map[string]any{
		"translationId":  translation.TranslationID,
		"targetLanguage": string(target),
		"imageSize":      image.Size(),
	})

	return ToLabelTranslationDTO(translation), nil
}

// GetLabelTranslation retrieves a recorded translation
func (s *LabelingService) GetLabelTranslation(ctx context.Context, query GetLabelTranslationQuery) (*LabelTranslationDTO, error) {
	translation, err := s.repo.FindByID(ctx, query.TranslationID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get label translation", "translationId", query.TranslationID)
		return nil, fmt.Errorf("failed to get label translation: %w", err)
	}

	if translation == nil {
		return nil, errors.ErrNotFoundWithID("label translation", query.TranslationID)
	}

	return ToLabelTranslationDTO(translation), nil
}

// ListLabelTranslations lists recorded translations, newest first
func (s *LabelingService) ListLabelTranslations(ctx context.Context, query ListLabelTranslationsQuery) (*api.PageResponse[LabelTranslationDTO], error) {
	var filter domain.LabelTranslationFilter
	if query.TargetLanguage != "" {
		target, err := domain.ParseTargetLanguage(query.TargetLanguage)
		if err != nil {
			return nil, errors.ErrValidationWithFields("invalid language filter", map[string]string{
				"targetLanguage": "must be one of fr, es, de, it",
			})
		}
		filter.TargetLanguage = target
	}

	page := query.Page.Normalize()

	translations, err := s.repo.FindAll(ctx, filter, page.GetLimit(), page.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list label translations")
		return nil, fmt.Errorf("failed to list label translations: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count label translations")
		return nil, fmt.Errorf("failed to count label translations: %w", err)
	}

	dtos := make([]LabelTranslationDTO, 0, len(translations))
	for _, t := range translations {
		dtos = append(dtos, *ToLabelTranslationDTO(t))
	}

	response := api.NewPageResponse(dtos, page.Page, page.PageSize, total)
	return &response, nil
}
