package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freelansire/hrh/internal/application"
	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/middleware"
)

// LabelingHandler handles label OCR and translation requests
type LabelingHandler struct {
	service *application.LabelingService
	logger  *logging.Logger
}

// NewLabelingHandler creates a new LabelingHandler
func NewLabelingHandler(service *application.LabelingService, logger *logging.Logger) *LabelingHandler {
	return &LabelingHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the labeling routes
func (h *LabelingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/languages", h.ListLanguages)

	translations := r.Group("/label-translations")
	{
		translations.POST("", h.TranslateLabel)
		translations.GET("", h.ListLabelTranslations)
		translations.GET("/:id", h.GetLabelTranslation)
	}
}

// ListLanguages handles GET /languages
func (h *LabelingHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListLanguages(c.Request.Context()))
}

type translateLabelForm struct {
	File           *multipart.FileHeader `form:"file" binding:"required"`
	TargetLanguage string                `form:"targetLanguage" binding:"required"`
}

// TranslateLabel handles POST /label-translations
func (h *LabelingHandler) TranslateLabel(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var form translateLabelForm
	if appErr := api.BindFormAndValidate(c, &form); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	cmd, appErr := readLabelUpload(form.File, form.TargetLanguage)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"label.file_name":       cmd.FileName,
		"label.size":            len(cmd.Data),
		"label.target_language": cmd.TargetLanguage,
		"operation":             "translate_label",
	})

	translation, err := h.service.TranslateLabel(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, translation)
}

// readLabelUpload reads an uploaded label image into a command. Files over
// the OCR ceiling are rejected before they are read into memory.
func readLabelUpload(file *multipart.FileHeader, targetLanguage string) (application.TranslateLabelCommand, *errors.AppError) {
	if file.Size > domain.MaxImageBytes {
		return application.TranslateLabelCommand{}, errors.ErrPayloadTooLarge(domain.MaxImageBytes)
	}

	f, err := file.Open()
	if err != nil {
		return application.TranslateLabelCommand{}, errors.ErrBadRequest(fmt.Sprintf("failed to open upload: %v", err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
	if err != nil {
		return application.TranslateLabelCommand{}, errors.ErrBadRequest(fmt.Sprintf("failed to read upload: %v", err))
	}

	return application.TranslateLabelCommand{
		FileName:       file.Filename,
		ContentType:    file.Header.Get("Content-Type"),
		Data:           data,
		TargetLanguage: targetLanguage,
	}, nil
}

type listLabelTranslationsParams struct {
	TargetLanguage string `form:"targetLanguage"`
}

// ListLabelTranslations handles GET /label-translations
func (h *LabelingHandler) ListLabelTranslations(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var params listLabelTranslationsParams
	if appErr := api.BindQueryAndValidate(c, &params); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	page, err := h.service.ListLabelTranslations(c.Request.Context(), application.ListLabelTranslationsQuery{
		Page:           api.ParsePagination(c),
		TargetLanguage: params.TargetLanguage,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetLabelTranslation handles GET /label-translations/:id
func (h *LabelingHandler) GetLabelTranslation(c *gin.Context) {
	translation, err := h.service.GetLabelTranslation(c.Request.Context(), application.GetLabelTranslationQuery{
		TranslationID: c.Param("id"),
	})
	if err != nil {
		middleware.NewErrorResponder(c, h.logger.Logger).RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, translation)
}
