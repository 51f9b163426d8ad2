package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freelansire/hrh/internal/application"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/middleware"
)

// WarehousingHandler handles zone catalog and zone assignment requests
type WarehousingHandler struct {
	service *application.WarehousingService
	logger  *logging.Logger
}

// NewWarehousingHandler creates a new WarehousingHandler
func NewWarehousingHandler(service *application.WarehousingService, logger *logging.Logger) *WarehousingHandler {
	return &WarehousingHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the warehousing routes
func (h *WarehousingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/zones", h.ListZones)

	assignments := r.Group("/zone-assignments")
	{
		assignments.POST("", h.AssignZone)
		assignments.GET("", h.ListZoneAssignments)
		assignments.GET("/:id", h.GetZoneAssignment)
	}
}

// ListZones handles GET /zones
func (h *WarehousingHandler) ListZones(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListZones(c.Request.Context()))
}

// AssignZone handles POST /zone-assignments
func (h *WarehousingHandler) AssignZone(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.AssignZoneCommand
	if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"product.category": cmd.Category,
		"operation":        "assign_zone",
	})

	assignment, err := h.service.AssignZone(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

type listZoneAssignmentsParams struct {
	ZoneID *int `form:"zoneId"`
}

// ListZoneAssignments handles GET /zone-assignments
func (h *WarehousingHandler) ListZoneAssignments(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var params listZoneAssignmentsParams
	if appErr := api.BindQueryAndValidate(c, &params); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	page, err := h.service.ListZoneAssignments(c.Request.Context(), application.ListZoneAssignmentsQuery{
		Page:   api.ParsePagination(c),
		ZoneID: params.ZoneID,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetZoneAssignment handles GET /zone-assignments/:id
func (h *WarehousingHandler) GetZoneAssignment(c *gin.Context) {
	assignmentID := c.Param("id")

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"assignment.id": assignmentID,
		"operation":     "get_zone_assignment",
	})

	assignment, err := h.service.GetZoneAssignment(c.Request.Context(), application.GetZoneAssignmentQuery{
		AssignmentID: assignmentID,
	})
	if err != nil {
		middleware.NewErrorResponder(c, h.logger.Logger).RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}
