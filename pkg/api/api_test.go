package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/middleware"
)

func testContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParsePaginationClampsValues(t *testing.T) {
	tests := []struct {
		query    string
		page     int64
		pageSize int64
	}{
		{"", 1, DefaultPageSize},
		{"page=3&pageSize=10", 3, 10},
		{"page=0&pageSize=0", 1, DefaultPageSize},
		{"page=-2&pageSize=500", 1, MaxPageSize},
		{"page=abc", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c := testContext(httptest.NewRequest(http.MethodGet, "/items?"+tt.query, nil))
			p := ParsePagination(c)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	p := PageRequest{Page: 3, PageSize: 25}
	assert.Equal(t, int64(50), p.GetOffset())
	assert.Equal(t, int64(25), p.GetLimit())
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, 2, 2, 5)
	assert.Equal(t, int64(3), resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	empty := NewPageResponse[string](nil, 1, 20, 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, int64(1), empty.TotalPages)
	assert.False(t, empty.HasNext)
}

type routeRequest struct {
	Origin      string `json:"origin" form:"origin" binding:"required,not_blank,safe_text"`
	Destination string `json:"destination" form:"destination" binding:"required,not_blank,safe_text"`
}

func TestBindAndValidate(t *testing.T) {
	middleware.InitValidator()

	body := `{"origin":"Chicago, IL","destination":"  "}`
	req := httptest.NewRequest(http.MethodPost, "/route-plans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var r routeRequest
	appErr := BindAndValidate(testContext(req), &r)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
	assert.Equal(t, "must not be blank", appErr.Details["destination"])
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/route-plans", strings.NewReader(`{"origin":`))
	req.Header.Set("Content-Type", "application/json")

	var r routeRequest
	appErr := BindAndValidate(testContext(req), &r)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeBadRequest, appErr.Code)
}

func TestBindFormAndValidate(t *testing.T) {
	middleware.InitValidator()

	form := url.Values{"origin": {"Chicago, IL"}, "destination": {"Denver, CO"}}
	req := httptest.NewRequest(http.MethodPost, "/ui/routing", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var r routeRequest
	require.Nil(t, BindFormAndValidate(testContext(req), &r))
	assert.Equal(t, "Chicago, IL", r.Origin)
	assert.Equal(t, "Denver, CO", r.Destination)
}

func TestValidateStruct(t *testing.T) {
	type product struct {
		Demand float64 `json:"demand" validate:"gte=0,lte=100"`
	}

	assert.Nil(t, ValidateStruct(product{Demand: 50}))

	appErr := ValidateStruct(product{Demand: 120})
	require.NotNil(t, appErr)
	assert.Equal(t, "must be less than or equal to 100", appErr.Details["demand"])
}
