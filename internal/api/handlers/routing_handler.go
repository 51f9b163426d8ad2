package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freelansire/hrh/internal/application"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/middleware"
)

// RoutingHandler handles route planning requests
type RoutingHandler struct {
	service *application.RoutingService
	logger  *logging.Logger
}

// NewRoutingHandler creates a new RoutingHandler
func NewRoutingHandler(service *application.RoutingService, logger *logging.Logger) *RoutingHandler {
	return &RoutingHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the routing routes
func (h *RoutingHandler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/route-plans")
	{
		plans.POST("", h.PlanRoute)
		plans.GET("", h.ListRoutePlans)
		plans.GET("/:id", h.GetRoutePlan)
	}
}

// PlanRoute handles POST /route-plans
func (h *RoutingHandler) PlanRoute(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.PlanRouteCommand
	if appErr := api.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"route.origin":      cmd.Origin,
		"route.destination": cmd.Destination,
		"operation":         "plan_route",
	})

	plan, err := h.service.PlanRoute(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	h.logger.Info("Route planned",
		"routePlanId", plan.ID,
		"distance", plan.Road.DistanceText,
	)
	c.JSON(http.StatusCreated, plan)
}

// ListRoutePlans handles GET /route-plans
func (h *RoutingHandler) ListRoutePlans(c *gin.Context) {
	page, err := h.service.ListRoutePlans(c.Request.Context(), application.ListRoutePlansQuery{
		Page: api.ParsePagination(c),
	})
	if err != nil {
		middleware.NewErrorResponder(c, h.logger.Logger).RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetRoutePlan handles GET /route-plans/:id
func (h *RoutingHandler) GetRoutePlan(c *gin.Context) {
	plan, err := h.service.GetRoutePlan(c.Request.Context(), application.GetRoutePlanQuery{
		RoutePlanID: c.Param("id"),
	})
	if err != nil {
		middleware.NewErrorResponder(c, h.logger.Logger).RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, plan)
}
