package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/freelansire/hrh/internal/application"
	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/middleware"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Page text
const (
	PageTitle   = "HRH Logistics"
	PageHeading = "HRH AI-Powered Export & Warehousing System"
)

// Feature selector values
const (
	FeatureLabeling    = "labeling"
	FeatureWarehousing = "warehousing"
	FeatureRouting     = "routing"
)

type featureOption struct {
	Key      string
	Label    string
	Selected bool
}

var features = []struct{ key, label string }{
	{FeatureLabeling, "Automated Labeling and Translation"},
	{FeatureWarehousing, "Warehousing Optimization"},
	{FeatureRouting, "Logistics Route Planning"},
}

type categoryOption struct {
	Value string
	Label string
}

// productForm carries the warehousing form fields. Defaults match the form's
// initial values.
type productForm struct {
	Category      string  `form:"category"`
	VolumeM3      float64 `form:"volumeM3"`
	WeightKg      float64 `form:"weightKg"`
	ShelfLifeDays int     `form:"shelfLifeDays"`
	Demand        int     `form:"demand"`
}

func defaultProductForm() productForm {
	return productForm{
		Category:      string(domain.CategoryFrozenGoods),
		VolumeM3:      0.5,
		WeightKg:      10,
		ShelfLifeDays: 30,
		Demand:        50,
	}
}

type routeForm struct {
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
}

type pageView struct {
	Title      string
	Heading    string
	Feature    string
	Features   []featureOption
	Languages  []application.LanguageDTO
	Categories []categoryOption

	Product          productForm
	Route            routeForm
	SelectedLanguage string

	Error         string
	ErrorDetails  map[string]string
	ExtractedText string
	Assignment    *application.ZoneAssignmentDTO
	Translation   *application.LabelTranslationDTO
	RoutePlan     *application.RoutePlanDTO
}

// UIHandler serves the single-page HTML front end
type UIHandler struct {
	warehousing *application.WarehousingService
	labeling    *application.LabelingService
	routing     *application.RoutingService
	tmpl        *template.Template
	logger      *logging.Logger
}

// NewUIHandler parses the embedded page template
func NewUIHandler(
	warehousing *application.WarehousingService,
	labeling *application.LabelingService,
	routing *application.RoutingService,
	logger *logging.Logger,
) (*UIHandler, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"km": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &UIHandler{
		warehousing: warehousing,
		labeling:    labeling,
		routing:     routing,
		tmpl:        tmpl,
		logger:      logger,
	}, nil
}

// RegisterRoutes registers the page and its form targets
func (h *UIHandler) RegisterRoutes(r gin.IRouter) {
	ui := r.Group("", middleware.SecurityHeaders())
	{
		ui.GET("/", h.Index)
		ui.POST("/ui/labeling", h.TranslateLabel)
		ui.POST("/ui/warehousing", h.AssignZone)
		ui.POST("/ui/routing", h.PlanRoute)
	}
}

func (h *UIHandler) newView(c *gin.Context, feature string) *pageView {
	switch feature {
	case FeatureLabeling, FeatureWarehousing, FeatureRouting:
	default:
		feature = FeatureLabeling
	}

	options := make([]featureOption, len(features))
	for i, f := range features {
		options[i] = featureOption{Key: f.key, Label: f.label, Selected: f.key == feature}
	}

	categories := make([]categoryOption, len(domain.ProductCategories))
	for i, cat := range domain.ProductCategories {
		categories[i] = categoryOption{Value: string(cat), Label: cat.DisplayName()}
	}

	return &pageView{
		Title:            PageTitle,
		Heading:          PageHeading,
		Feature:          feature,
		Features:         options,
		Languages:        h.labeling.ListLanguages(c.Request.Context()),
		Categories:       categories,
		Product:          defaultProductForm(),
		SelectedLanguage: string(domain.LanguageFrench),
	}
}

func (h *UIHandler) render(c *gin.Context, status int, view *pageView) {
	c.Render(status, render.HTML{Template: h.tmpl, Name: "index.html", Data: view})
}

// renderError shows the user-visible message of err on the page
func (h *UIHandler) renderError(c *gin.Context, view *pageView, err error) {
	appErr := errors.MapDomainError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("UI request failed", "feature", view.Feature)
	}
	view.Error = appErr.Message
	view.ErrorDetails = appErr.Details
	h.render(c, appErr.HTTPStatus, view)
}

// Index handles GET /?feature=
func (h *UIHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, h.newView(c, c.Query("feature")))
}

// AssignZone handles POST /ui/warehousing
func (h *UIHandler) AssignZone(c *gin.Context) {
	view := h.newView(c, FeatureWarehousing)

	form := defaultProductForm()
	if appErr := api.BindFormAndValidate(c, &form); appErr != nil {
		h.renderError(c, view, appErr)
		return
	}
	view.Product = form

	assignment, err := h.warehousing.AssignZone(c.Request.Context(), application.AssignZoneCommand{
		Category:      form.Category,
		VolumeM3:      form.VolumeM3,
		WeightKg:      form.WeightKg,
		ShelfLifeDays: form.ShelfLifeDays,
		Demand:        form.Demand,
	})
	if err != nil {
		h.renderError(c, view, err)
		return
	}

	view.Assignment = assignment
	h.render(c, http.StatusOK, view)
}

// TranslateLabel handles POST /ui/labeling
func (h *UIHandler) TranslateLabel(c *gin.Context) {
	view := h.newView(c, FeatureLabeling)

	var form translateLabelForm
	if appErr := api.BindFormAndValidate(c, &form); appErr != nil {
		h.renderError(c, view, appErr)
		return
	}
	view.SelectedLanguage = form.TargetLanguage

	cmd, appErr := readLabelUpload(form.File, form.TargetLanguage)
	if appErr != nil {
		h.renderError(c, view, appErr)
		return
	}

	translation, err := h.labeling.TranslateLabel(c.Request.Context(), cmd)
	if err != nil {
		// No text is a result, not a failure: show the sentinel as the extracted text.
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.CodeTextNotFound {
			view.ExtractedText = domain.NoTextExtracted
			h.render(c, http.StatusOK, view)
			return
		}
		h.renderError(c, view, err)
		return
	}

	view.ExtractedText = translation.ExtractedText
	view.Translation = translation
	h.render(c, http.StatusOK, view)
}

// PlanRoute handles POST /ui/routing
func (h *UIHandler) PlanRoute(c *gin.Context) {
	view := h.newView(c, FeatureRouting)

	var form routeForm
	if appErr := api.BindFormAndValidate(c, &form); appErr != nil {
		h.renderError(c, view, appErr)
		return
	}
	view.Route = form

	plan, err := h.routing.PlanRoute(c.Request.Context(), application.PlanRouteCommand{
		Origin:      form.Origin,
		Destination: form.Destination,
	})
	if err != nil {
		h.renderError(c, view, err)
		return
	}

	view.RoutePlan = plan
	h.render(c, http.StatusOK, view)
}
