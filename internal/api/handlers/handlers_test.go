package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apispec "github.com/freelansire/hrh/api"
	"github.com/freelansire/hrh/internal/application"
	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/contracts/openapi"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/middleware"
)

type testEnv struct {
	router     *gin.Engine
	contract   *openapi.Validator
	extractor  *stubExtractor
	translator *stubTranslator
	directions *stubDirections
}

func chicagoToDenver() domain.DrivingRoute {
	return domain.DrivingRoute{
		DistanceText:    "1,614 km",
		DurationText:    "14 hours 52 mins",
		DistanceMeters:  1613521,
		DurationSeconds: 53520,
		StartAddress:    "Chicago, IL, USA",
		EndAddress:      "Denver, CO, USA",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewNop()
	m := metrics.New(metrics.DefaultConfig("hrh-test"))
	env := &testEnv{
		extractor:  &stubExtractor{text: "Keep frozen"},
		translator: &stubTranslator{result: "Mantener congelado"},
		directions: &stubDirections{route: chicagoToDenver()},
	}

	warehousing := application.NewWarehousingService(&memoryAssignments{}, logger, m)
	labeling := application.NewLabelingService(&memoryTranslations{}, env.extractor, env.translator, logger, m)
	routing := application.NewRoutingService(&memoryRoutePlans{}, env.directions, logger, m)

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig("hrh-test", logger.Logger))
	router.NoRoute(middleware.NoRoute())

	v1 := router.Group("/api/v1")
	NewWarehousingHandler(warehousing, logger).RegisterRoutes(v1)
	NewLabelingHandler(labeling, logger).RegisterRoutes(v1)
	NewRoutingHandler(routing, logger).RegisterRoutes(v1)

	ui, err := NewUIHandler(warehousing, labeling, routing, logger)
	require.NoError(t, err)
	ui.RegisterRoutes(router)
	router.GET("/api/openapi.yaml", ServeContract("application/yaml", apispec.OpenAPI))

	contract, err := openapi.NewValidatorFromBytes(apispec.OpenAPI)
	require.NoError(t, err)

	env.router = router
	env.contract = contract
	return env
}

// serve runs req and checks the response against the API contract. The
// request itself is checked only when validRequest is set.
func (e *testEnv) serve(t *testing.T, req *http.Request, validRequest bool) *httptest.ResponseRecorder {
	t.Helper()
	if validRequest {
		require.NoError(t, e.contract.ValidateRequest(req))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.NoError(t, e.contract.ValidateResponse(req, rec.Result()), rec.Body.String())
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func labelRequest(t *testing.T, path, fileName, contentType string, data []byte, targetLanguage string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("targetLanguage", targetLanguage))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestWarehousingAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	zones := decode[[]application.ZoneDTO](t, rec)
	require.Len(t, zones, 4)
	assert.Equal(t, "Overflow Storage", zones[3].Name)

	rec = env.serve(t, jsonRequest(http.MethodPost, "/api/v1/zone-assignments",
		`{"category":"perishables","volumeM3":0.3,"weightKg":5,"shelfLifeDays":15,"demand":30}`), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[application.ZoneAssignmentDTO](t, rec)
	assert.Equal(t, "Cold Storage", created.Zone.Name)
	assert.Equal(t, []string{domain.WarningPerishableRotate}, created.Warnings)

	rec = env.serve(t, jsonRequest(http.MethodPost, "/api/v1/zone-assignments",
		`{"category":"non_food_items","volumeM3":0.8,"weightKg":15,"shelfLifeDays":60,"demand":70}`), true)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments/"+created.ID, nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[application.ZoneAssignmentDTO](t, rec).ID)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments?zoneId=0", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Data       []application.ZoneAssignmentDTO `json:"data"`
		TotalItems int64                           `json:"totalItems"`
	}](t, rec)
	assert.Equal(t, int64(1), page.TotalItems)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created.ID, page.Data[0].ID)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments?page=1&pageSize=1", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[struct {
		Data    []application.ZoneAssignmentDTO `json:"data"`
		HasNext bool                            `json:"hasNext"`
	}](t, rec)
	assert.Len(t, all.Data, 1)
	assert.True(t, all.HasNext)
}

func TestWarehousingAPIErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		req     *http.Request
		status  int
		code    string
		details map[string]string
	}{
		{
			name:    "invalid descriptor",
			req:     jsonRequest(http.MethodPost, "/api/v1/zone-assignments", `{"category":"perishables","volumeM3":0,"weightKg":5,"shelfLifeDays":400,"demand":30}`),
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			details: map[string]string{"volumeM3": "must be greater than 0", "shelfLifeDays": "must be between 1 and 365"},
		},
		{
			name:    "volume too large to classify",
			req:     jsonRequest(http.MethodPost, "/api/v1/zone-assignments", `{"category":"frozen_goods","volumeM3":1e308,"weightKg":5,"shelfLifeDays":30,"demand":30}`),
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			details: map[string]string{"volumeM3": "must be a finite number no greater than 1e+06"},
		},
		{
			name:   "malformed body",
			req:    jsonRequest(http.MethodPost, "/api/v1/zone-assignments", `{"category":`),
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "non numeric zone filter",
			req:    httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments?zoneId=cold", nil),
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "zone filter out of range",
			req:    httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments?zoneId=7", nil),
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "unknown assignment",
			req:    httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments/missing", nil),
			status: http.StatusNotFound,
			code:   "RESOURCE_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(t, tt.req, false)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decode[middleware.APIErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			for field, msg := range tt.details {
				assert.Equal(t, msg, resp.Details[field], field)
			}
		})
	}
}

func TestLabelingAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	languages := decode[[]application.LanguageDTO](t, rec)
	require.Len(t, languages, 4)
	assert.Equal(t, application.LanguageDTO{Code: "fr", Name: "French"}, languages[0])

	rec = env.serve(t, labelRequest(t, "/api/v1/label-translations", "label.png", "image/png", []byte("png-bytes"), "es"), false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[application.LabelTranslationDTO](t, rec)
	assert.Equal(t, "Keep frozen", created.ExtractedText)
	assert.Equal(t, "Mantener congelado", created.TranslatedText)
	assert.Equal(t, "Spanish", created.TargetLanguageName)
	assert.Equal(t, 9, created.ImageSize)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/label-translations/"+created.ID, nil), true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/label-translations?targetLanguage=es", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		TotalItems int64 `json:"totalItems"`
	}](t, rec)
	assert.Equal(t, int64(1), page.TotalItems)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/label-translations?targetLanguage=de", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decode[struct {
		TotalItems int64 `json:"totalItems"`
	}](t, rec).TotalItems)
}

func TestLabelingAPIErrors(t *testing.T) {
	tests := []struct {
		name      string
		extracted string
		req       func(t *testing.T) *http.Request
		status    int
		code      string
		message   string
	}{
		{
			name:      "no text on label",
			extracted: "  \n ",
			req: func(t *testing.T) *http.Request {
				return labelRequest(t, "/api/v1/label-translations", "blank.jpg", "image/jpeg", []byte("jpg"), "fr")
			},
			status:  http.StatusNotFound,
			code:    "TEXT_NOT_FOUND",
			message: domain.NoTextExtracted,
		},
		{
			name: "missing file",
			req: func(t *testing.T) *http.Request {
				return labelRequest(t, "/api/v1/label-translations", "", "", nil, "fr")
			},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name: "unsupported language",
			req: func(t *testing.T) *http.Request {
				return labelRequest(t, "/api/v1/label-translations", "label.png", "image/png", []byte("png"), "ja")
			},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name: "unsupported image type",
			req: func(t *testing.T) *http.Request {
				return labelRequest(t, "/api/v1/label-translations", "label.gif", "image/gif", []byte("gif"), "fr")
			},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name: "image over the OCR limit",
			req: func(t *testing.T) *http.Request {
				return labelRequest(t, "/api/v1/label-translations", "big.png", "image/png", bytes.Repeat([]byte{1}, domain.MaxImageBytes+1), "fr")
			},
			status: http.StatusRequestEntityTooLarge,
			code:   "PAYLOAD_TOO_LARGE",
		},
		{
			name: "invalid language filter",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/v1/label-translations?targetLanguage=xx", nil)
			},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.extracted != "" {
				env.extractor.text = tt.extracted
			}

			rec := env.serve(t, tt.req(t), false)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decode[middleware.APIErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestRoutingAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, jsonRequest(http.MethodPost, "/api/v1/route-plans",
		`{"origin":" Chicago, IL ","destination":"Denver, CO"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plan := decode[application.RoutePlanDTO](t, rec)
	assert.Equal(t, "Chicago, IL", plan.Origin)
	assert.Equal(t, "1,614 km", plan.Road.DistanceText)
	assert.Equal(t, "Port of New York", plan.OriginPort.Name)
	assert.InDelta(t, 3944.42, plan.ShippingDistanceKm, 0.011)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/route-plans/"+plan.ID, nil), true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/route-plans", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[struct {
		TotalItems int64 `json:"totalItems"`
	}](t, rec).TotalItems)
}

func TestRoutingAPIErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
		code   string
	}{
		{"blank origin", nil, `{"origin":"  ","destination":"Denver"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"no route", domain.ErrNoRoute, `{"origin":"Honolulu","destination":"Denver"}`, http.StatusNotFound, "NO_DRIVING_ROUTE"},
		{"upstream failure", fmt.Errorf("directions request failed with status UNKNOWN_ERROR"), `{"origin":"Chicago","destination":"Denver"}`, http.StatusBadGateway, "EXTERNAL_SERVICE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.directions.err = tt.err

			rec := env.serve(t, jsonRequest(http.MethodPost, "/api/v1/route-plans", tt.body), false)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[middleware.APIErrorResponse](t, rec).Code)
		})
	}
}

func TestServeContract(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, apispec.OpenAPI, rec.Body.Bytes())
}

func servePage(t *testing.T, env *testEnv, req *http.Request) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestUIIndex(t *testing.T) {
	env := newTestEnv(t)

	status, body := servePage(t, env, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>HRH Logistics</title>")
	assert.Contains(t, body, "HRH AI-Powered Export &amp; Warehousing System")
	for _, label := range []string{"Automated Labeling and Translation", "Warehousing Optimization", "Logistics Route Planning"} {
		assert.Contains(t, body, label)
	}
	assert.Contains(t, body, `action="/ui/labeling"`)
	assert.Contains(t, body, `<option value="it">Italian</option>`)

	_, body = servePage(t, env, httptest.NewRequest(http.MethodGet, "/?feature=warehousing", nil))
	assert.Contains(t, body, `action="/ui/warehousing"`)
	assert.Contains(t, body, `value="0.5"`)
	assert.NotContains(t, body, `action="/ui/labeling"`)

	_, body = servePage(t, env, httptest.NewRequest(http.MethodGet, "/?feature=unknown", nil))
	assert.Contains(t, body, `action="/ui/labeling"`)
}

func TestUIWarehousing(t *testing.T) {
	env := newTestEnv(t)

	status, body := servePage(t, env, formRequest("/ui/warehousing", url.Values{
		"category":      {"frozen_goods"},
		"volumeM3":      {"1.2"},
		"weightKg":      {"20"},
		"shelfLifeDays": {"90"},
		"demand":        {"100"},
	}))

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Recommended Storage: <strong>Standard Shelving</strong>")
	assert.Contains(t, body, "Temperature: Room Temp | Space Efficiency: 1")
	assert.Contains(t, body, domain.WarningFrozenNotCold)

	status, body = servePage(t, env, formRequest("/ui/warehousing", url.Values{
		"category": {"Non-Food Items"},
		"volumeM3": {"-1"},
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Error: invalid product descriptor")
	assert.Contains(t, body, "volumeM3")
}

func TestUIWarehousingRejectsNonFiniteAmounts(t *testing.T) {
	env := newTestEnv(t)

	status, body := servePage(t, env, formRequest("/ui/warehousing", url.Values{
		"category":      {"frozen_goods"},
		"volumeM3":      {"Inf"},
		"weightKg":      {"NaN"},
		"shelfLifeDays": {"30"},
		"demand":        {"50"},
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Error: invalid product descriptor")
	assert.Contains(t, body, "<li>volumeM3 must be a finite number no greater than")
	assert.Contains(t, body, "<li>weightKg must be greater than 0</li>")
	assert.NotContains(t, body, "Recommended Storage")

	rec := env.serve(t, httptest.NewRequest(http.MethodGet, "/api/v1/zone-assignments", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Data       []application.ZoneAssignmentDTO `json:"data"`
		TotalItems int64                           `json:"totalItems"`
	}](t, rec)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.TotalItems)
}

func TestUILabeling(t *testing.T) {
	env := newTestEnv(t)

	status, body := servePage(t, env, labelRequest(t, "/ui/labeling", "label.png", "image/png", []byte("png"), "de"))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Extracted Text:")
	assert.Contains(t, body, "Keep frozen")
	assert.Contains(t, body, "Translated Text:")
	assert.Contains(t, body, "Mantener congelado")
	assert.Contains(t, body, `<option value="de" selected>German</option>`)

	env.extractor.text = ""
	status, body = servePage(t, env, labelRequest(t, "/ui/labeling", "label.png", "image/png", []byte("png"), "fr"))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, domain.NoTextExtracted)
	assert.NotContains(t, body, "Translated Text:")
}

func TestUIRouting(t *testing.T) {
	env := newTestEnv(t)

	status, body := servePage(t, env, formRequest("/ui/routing", url.Values{
		"origin":      {"Chicago"},
		"destination": {"Denver"},
	}))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Optimal Route: Chicago, IL, USA → Denver, CO, USA")
	assert.Contains(t, body, "Road Distance: 1,614 km | Estimated Time: 14 hours 52 mins")
	assert.Contains(t, body, "Shipping Distance (via sea): 3944.42 km")

	env.directions.err = domain.ErrNoRoute
	status, body = servePage(t, env, formRequest("/ui/routing", url.Values{
		"origin":      {"Honolulu"},
		"destination": {"Denver"},
	}))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Error: no driving route found")
}
