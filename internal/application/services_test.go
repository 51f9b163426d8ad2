package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/api"
	apperrors "github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/resilience"
)

func requireAppError(t *testing.T, err error, code string, status int) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

// =============================================================================
// WarehousingService
// =============================================================================

func TestWarehousingService_ListZones(t *testing.T) {
	logger, m := testDeps()
	svc := NewWarehousingService(&fakeAssignmentRepository{}, logger, m)

	zones := svc.ListZones(context.Background())
	require.Len(t, zones, 4)
	assert.Equal(t, "Cold Storage", zones[0].Name)
	assert.Equal(t, "low", zones[0].Temperature)
	assert.Equal(t, "Low", zones[0].TemperatureLabel)
	assert.Equal(t, "Room Temp", zones[3].TemperatureLabel)
}

func TestWarehousingService_AssignZone(t *testing.T) {
	logger, m := testDeps()
	repo := &fakeAssignmentRepository{}
	svc := NewWarehousingService(repo, logger, m)

	dto, err := svc.AssignZone(context.Background(), AssignZoneCommand{
		Category: "perishables", VolumeM3: 0.3, WeightKg: 5, ShelfLifeDays: 15, Demand: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "Cold Storage", dto.Zone.Name)
	assert.Equal(t, "Perishables", dto.Product.CategoryName)
	assert.Equal(t, []string{domain.WarningPerishableRotate}, dto.Warnings)
	require.Len(t, repo.assignments, 1)
	assert.Equal(t, dto.ID, repo.assignments[0].AssignmentID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ZoneAssignments.WithLabelValues("hrh-test", "perishables", "Cold Storage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ZoneWarnings.WithLabelValues("hrh-test", "perishables")))
}

func TestWarehousingService_AssignZoneAcceptsDisplayName(t *testing.T) {
	logger, m := testDeps()
	svc := NewWarehousingService(&fakeAssignmentRepository{}, logger, m)

	dto, err := svc.AssignZone(context.Background(), AssignZoneCommand{
		Category: "Frozen Goods", VolumeM3: 0.1, WeightKg: 2, ShelfLifeDays: 7, Demand: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "frozen_goods", dto.Product.Category)
	assert.Equal(t, 0, dto.Zone.ID)
	assert.Empty(t, dto.Warnings)
	assert.NotNil(t, dto.Warnings)
}

func TestWarehousingService_AssignZoneValidation(t *testing.T) {
	logger, m := testDeps()
	repo := &fakeAssignmentRepository{}
	svc := NewWarehousingService(repo, logger, m)

	_, err := svc.AssignZone(context.Background(), AssignZoneCommand{
		Category: "toys", VolumeM3: -1, WeightKg: 5, ShelfLifeDays: 400, Demand: 30,
	})

	appErr := requireAppError(t, err, apperrors.CodeValidationError, http.StatusBadRequest)
	assert.Contains(t, appErr.Details, "category")
	assert.Contains(t, appErr.Details, "volumeM3")
	assert.Contains(t, appErr.Details, "shelfLifeDays")
	assert.Empty(t, repo.assignments)
}

func TestWarehousingService_AssignZoneSurvivesStorageFailure(t *testing.T) {
	logger, m := testDeps()
	svc := NewWarehousingService(&fakeAssignmentRepository{saveErr: errors.New("mongo down")}, logger, m)

	dto, err := svc.AssignZone(context.Background(), AssignZoneCommand{
		Category: "non_food_items", VolumeM3: 1.2, WeightKg: 20, ShelfLifeDays: 90, Demand: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Standard Shelving", dto.Zone.Name)
}

func TestWarehousingService_GetZoneAssignment(t *testing.T) {
	logger, m := testDeps()
	repo := &fakeAssignmentRepository{}
	svc := NewWarehousingService(repo, logger, m)

	created, err := svc.AssignZone(context.Background(), AssignZoneCommand{
		Category: "perishables", VolumeM3: 0.5, WeightKg: 10, ShelfLifeDays: 30, Demand: 50,
	})
	require.NoError(t, err)

	got, err := svc.GetZoneAssignment(context.Background(), GetZoneAssignmentQuery{AssignmentID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.GetZoneAssignment(context.Background(), GetZoneAssignmentQuery{AssignmentID: "missing"})
	appErr := requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, "missing", appErr.Details["id"])

	repo.findErr = errors.New("connection refused")
	_, err = svc.GetZoneAssignment(context.Background(), GetZoneAssignmentQuery{AssignmentID: created.ID})
	assert.Error(t, err)
	assert.False(t, apperrors.IsAppError(err))
}

func TestWarehousingService_ListZoneAssignments(t *testing.T) {
	logger, m := testDeps()
	repo := &fakeAssignmentRepository{}
	svc := NewWarehousingService(repo, logger, m)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AssignZone(ctx, AssignZoneCommand{Category: "perishables", VolumeM3: 0.1, WeightKg: 2, ShelfLifeDays: 7 + i, Demand: 10})
		require.NoError(t, err)
	}
	_, err := svc.AssignZone(ctx, AssignZoneCommand{Category: "perishables", VolumeM3: 0.8, WeightKg: 15, ShelfLifeDays: 60, Demand: 70})
	require.NoError(t, err)

	page, err := svc.ListZoneAssignments(ctx, ListZoneAssignmentsQuery{Page: api.PageRequest{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(4), page.TotalItems)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.True(t, page.HasNext)

	zone := 3
	filtered, err := svc.ListZoneAssignments(ctx, ListZoneAssignmentsQuery{Page: api.DefaultPageRequest(), ZoneID: &zone})
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, "Overflow Storage", filtered.Data[0].Zone.Name)

	bad := 9
	_, err = svc.ListZoneAssignments(ctx, ListZoneAssignmentsQuery{ZoneID: &bad})
	requireAppError(t, err, apperrors.CodeValidationError, http.StatusBadRequest)
}

// =============================================================================
// LabelingService
// =============================================================================

func newLabelingService(extractor *fakeExtractor, translator *fakeTranslator) (*LabelingService, *fakeTranslationRepository) {
	logger, m := testDeps()
	repo := &fakeTranslationRepository{}
	return NewLabelingService(repo, extractor, translator, logger, m), repo
}

func labelCommand(lang string) TranslateLabelCommand {
	return TranslateLabelCommand{
		FileName:       "label.png",
		ContentType:    "image/png",
		Data:           []byte("\x89PNG\r\n\x1a\nlabel"),
		TargetLanguage: lang,
	}
}

func TestLabelingService_ListLanguages(t *testing.T) {
	svc, _ := newLabelingService(&fakeExtractor{}, &fakeTranslator{})

	langs := svc.ListLanguages(context.Background())
	assert.Equal(t, []LanguageDTO{
		{Code: "fr", Name: "French"},
		{Code: "es", Name: "Spanish"},
		{Code: "de", Name: "German"},
		{Code: "it", Name: "Italian"},
	}, langs)
}

func TestLabelingService_TranslateLabel(t *testing.T) {
	extractor := &fakeExtractor{text: "  Keep frozen\r\n"}
	translator := &fakeTranslator{result: "Garder congelé"}
	svc, repo := newLabelingService(extractor, translator)

	dto, err := svc.TranslateLabel(context.Background(), labelCommand("fr"))
	require.NoError(t, err)

	assert.Equal(t, "Keep frozen", dto.ExtractedText)
	assert.Equal(t, "Garder congelé", dto.TranslatedText)
	assert.Equal(t, "French", dto.TargetLanguageName)
	assert.Equal(t, "image/png", dto.ContentType)
	assert.Equal(t, "Keep frozen", translator.gotText)
	assert.Equal(t, domain.LanguageFrench, translator.gotLang)
	assert.Len(t, repo.translations, 1)
}

func TestLabelingService_TranslateLabelNoText(t *testing.T) {
	extractor := &fakeExtractor{text: "   "}
	translator := &fakeTranslator{}
	svc, repo := newLabelingService(extractor, translator)

	_, err := svc.TranslateLabel(context.Background(), labelCommand("es"))

	appErr := requireAppError(t, err, apperrors.CodeTextNotFound, http.StatusNotFound)
	assert.Equal(t, domain.NoTextExtracted, appErr.Message)
	assert.Zero(t, translator.calls)
	assert.Empty(t, repo.translations)
}

func TestLabelingService_TranslateLabelErrors(t *testing.T) {
	tests := []struct {
		name       string
		cmd        TranslateLabelCommand
		extractor  *fakeExtractor
		translator *fakeTranslator
		code       string
		status     int
	}{
		{
			name:       "unsupported language",
			cmd:        labelCommand("ja"),
			extractor:  &fakeExtractor{text: "x"},
			translator: &fakeTranslator{},
			code:       apperrors.CodeValidationError,
			status:     http.StatusBadRequest,
		},
		{
			name:       "unsupported image type",
			cmd:        TranslateLabelCommand{FileName: "label.gif", ContentType: "image/gif", Data: []byte("GIF89a"), TargetLanguage: "fr"},
			extractor:  &fakeExtractor{text: "x"},
			translator: &fakeTranslator{},
			code:       apperrors.CodeValidationError,
			status:     http.StatusBadRequest,
		},
		{
			name:       "image too large",
			cmd:        TranslateLabelCommand{FileName: "label.png", Data: make([]byte, domain.MaxImageBytes+1), TargetLanguage: "fr"},
			extractor:  &fakeExtractor{text: "x"},
			translator: &fakeTranslator{},
			code:       apperrors.CodePayloadTooLarge,
			status:     http.StatusRequestEntityTooLarge,
		},
		{
			name:       "ocr failure",
			cmd:        labelCommand("de"),
			extractor:  &fakeExtractor{err: errors.New("ocr.space returned 500")},
			translator: &fakeTranslator{},
			code:       apperrors.CodeExternalService,
			status:     http.StatusBadGateway,
		},
		{
			name:       "ocr breaker open",
			cmd:        labelCommand("de"),
			extractor:  &fakeExtractor{err: fmt.Errorf("ocr-space: %w", resilience.ErrCircuitOpen)},
			translator: &fakeTranslator{},
			code:       apperrors.CodeServiceUnavailable,
			status:     http.StatusServiceUnavailable,
		},
		{
			name:       "translation timeout",
			cmd:        labelCommand("it"),
			extractor:  &fakeExtractor{text: "Fragile"},
			translator: &fakeTranslator{err: fmt.Errorf("translate: %w", context.DeadlineExceeded)},
			code:       apperrors.CodeTimeout,
			status:     http.StatusGatewayTimeout,
		},
		{
			name:       "translation failure",
			cmd:        labelCommand("it"),
			extractor:  &fakeExtractor{text: "Fragile"},
			translator: &fakeTranslator{err: errors.New("unexpected html")},
			code:       apperrors.CodeExternalService,
			status:     http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newLabelingService(tt.extractor, tt.translator)

			_, err := svc.TranslateLabel(context.Background(), tt.cmd)

			requireAppError(t, err, tt.code, tt.status)
			assert.Empty(t, repo.translations)
			assert.LessOrEqual(t, tt.extractor.calls, 1)
			assert.LessOrEqual(t, tt.translator.calls, 1)
		})
	}
}

func TestLabelingService_GetAndList(t *testing.T) {
	svc, _ := newLabelingService(&fakeExtractor{text: "Fragile"}, &fakeTranslator{result: "Frágil"})
	ctx := context.Background()

	created, err := svc.TranslateLabel(ctx, labelCommand("es"))
	require.NoError(t, err)
	_, err = svc.TranslateLabel(ctx, labelCommand("fr"))
	require.NoError(t, err)

	got, err := svc.GetLabelTranslation(ctx, GetLabelTranslationQuery{TranslationID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "Frágil", got.TranslatedText)

	_, err = svc.GetLabelTranslation(ctx, GetLabelTranslationQuery{TranslationID: "nope"})
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)

	all, err := svc.ListLabelTranslations(ctx, ListLabelTranslationsQuery{Page: api.DefaultPageRequest()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalItems)

	spanish, err := svc.ListLabelTranslations(ctx, ListLabelTranslationsQuery{Page: api.DefaultPageRequest(), TargetLanguage: "es"})
	require.NoError(t, err)
	require.Len(t, spanish.Data, 1)
	assert.Equal(t, "es", spanish.Data[0].TargetLanguage)

	_, err = svc.ListLabelTranslations(ctx, ListLabelTranslationsQuery{TargetLanguage: "xx"})
	requireAppError(t, err, apperrors.CodeValidationError, http.StatusBadRequest)
}

// =============================================================================
// RoutingService
// =============================================================================

func chicagoToDenver() domain.DrivingRoute {
	return domain.DrivingRoute{
		DistanceText:    "1,003 mi",
		DurationText:    "14 hours 32 mins",
		DistanceMeters:  1614199,
		DurationSeconds: 52320,
		StartAddress:    "Chicago, IL, USA",
		EndAddress:      "Denver, CO, USA",
	}
}

func TestRoutingService_PlanRoute(t *testing.T) {
	logger, m := testDeps()
	repo := &fakeRoutePlanRepository{}
	directions := &fakeDirections{route: chicagoToDenver()}
	svc := NewRoutingService(repo, directions, logger, m)

	dto, err := svc.PlanRoute(context.Background(), PlanRouteCommand{Origin: " Chicago ", Destination: "Denver"})
	require.NoError(t, err)

	assert.Equal(t, "Chicago", dto.Origin)
	assert.Equal(t, "driving", dto.Mode)
	assert.Equal(t, "1,003 mi", dto.Road.DistanceText)
	assert.Equal(t, "Port of New York", dto.OriginPort.Name)
	assert.Equal(t, 40.7128, dto.OriginPort.Latitude)
	assert.InDelta(t, 3944.42, dto.ShippingDistanceKm, 0.011)
	assert.Equal(t, 1, directions.calls)
	assert.Len(t, repo.plans, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoutePlans.WithLabelValues("hrh-test", "driving")))
}

func TestRoutingService_PlanRouteErrors(t *testing.T) {
	tests := []struct {
		name      string
		cmd       PlanRouteCommand
		err       error
		code      string
		status    int
		wantCalls int
	}{
		{"blank origin", PlanRouteCommand{Origin: " ", Destination: "Denver"}, nil, apperrors.CodeValidationError, http.StatusBadRequest, 0},
		{"no route", PlanRouteCommand{Origin: "Honolulu", Destination: "Denver"}, fmt.Errorf("ZERO_RESULTS: %w", domain.ErrNoRoute), apperrors.CodeNoDrivingRoute, http.StatusNotFound, 1},
		{"provider failure", PlanRouteCommand{Origin: "Chicago", Destination: "Denver"}, errors.New("REQUEST_DENIED"), apperrors.CodeExternalService, http.StatusBadGateway, 1},
		{"breaker open", PlanRouteCommand{Origin: "Chicago", Destination: "Denver"}, fmt.Errorf("google-maps: %w", resilience.ErrCircuitOpen), apperrors.CodeServiceUnavailable, http.StatusServiceUnavailable, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, m := testDeps()
			repo := &fakeRoutePlanRepository{}
			directions := &fakeDirections{route: chicagoToDenver(), err: tt.err}
			svc := NewRoutingService(repo, directions, logger, m)

			_, err := svc.PlanRoute(context.Background(), tt.cmd)

			requireAppError(t, err, tt.code, tt.status)
			assert.Equal(t, tt.wantCalls, directions.calls)
			assert.Empty(t, repo.plans)
		})
	}
}

func TestRoutingService_PlanRouteBlankFieldsReported(t *testing.T) {
	logger, m := testDeps()
	svc := NewRoutingService(&fakeRoutePlanRepository{}, &fakeDirections{}, logger, m)

	_, err := svc.PlanRoute(context.Background(), PlanRouteCommand{})

	appErr := requireAppError(t, err, apperrors.CodeValidationError, http.StatusBadRequest)
	assert.Equal(t, "must not be blank", appErr.Details["origin"])
	assert.Equal(t, "must not be blank", appErr.Details["destination"])
}

func TestRoutingService_GetAndList(t *testing.T) {
	logger, m := testDeps()
	repo := &fakeRoutePlanRepository{}
	svc := NewRoutingService(repo, &fakeDirections{route: chicagoToDenver()}, logger, m)
	ctx := context.Background()

	created, err := svc.PlanRoute(ctx, PlanRouteCommand{Origin: "Chicago", Destination: "Denver"})
	require.NoError(t, err)

	got, err := svc.GetRoutePlan(ctx, GetRoutePlanQuery{RoutePlanID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ShippingDistanceKm, got.ShippingDistanceKm)

	_, err = svc.GetRoutePlan(ctx, GetRoutePlanQuery{RoutePlanID: "missing"})
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)

	page, err := svc.ListRoutePlans(ctx, ListRoutePlansQuery{Page: api.PageRequest{Page: 0, PageSize: 500}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(api.MaxPageSize), page.PageSize)
	assert.Len(t, page.Data, 1)

	repo.findErr = errors.New("cursor killed")
	_, err = svc.ListRoutePlans(ctx, ListRoutePlansQuery{})
	assert.Error(t, err)
}
