package admin

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitanips/platform-api/internal/handler"
	"github.com/vitanips/platform-api/internal/middleware"
	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/service/admin"
)

type Handler struct {
	service *admin.Service
}

func NewHandler(service *admin.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the reporting and management endpoints.
// The group is expected to carry auth plus the admin gate already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStats)
	r.GET("/analytics", h.GetAnalytics)

	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PATCH("/users/:id", h.PatchUser)

	r.GET("/doctors", h.ListDoctors)
	r.PATCH("/doctors/:id/verify", h.VerifyDoctor)

	r.GET("/pharmacies", h.ListPharmacies)
	r.PATCH("/pharmacies/:id", h.PatchPharmacy)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetAnalytics(c *gin.Context) {
	analytics, err := h.service.GetAnalytics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (h *Handler) ListUsers(c *gin.Context) {
	filters := &model.UserFilters{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}
	if v, ok := c.GetQuery("is_active"); ok {
		active := strings.ToLower(v) == "true"
		filters.IsActive = &active
	}

	users, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.ListResponse{Count: len(users), Results: users})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("user not found"))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) PatchUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("user not found"))
		return
	}

	// Unknown JSON fields are ignored; only the account flags are writable
	// here. An empty body is an empty patch, not a bad request.
	var req model.UpdateUserFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	user, err := h.service.PatchUserFlags(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	filters := &model.DoctorFilters{
		Search: c.Query("search"),
	}
	if v, ok := c.GetQuery("verified"); ok {
		verified := strings.ToLower(v) == "true"
		filters.Verified = &verified
	}

	doctors, err := h.service.ListDoctors(c.Request.Context(), filters)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.ListResponse{Count: len(doctors), Results: doctors})
}

func (h *Handler) VerifyDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("doctor not found"))
		return
	}

	// An empty body reads as an absent flag and falls into the 400 below.
	var req model.VerifyDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}
	if req.IsVerified == nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("is_verified field is required"))
		return
	}

	doctor, err := h.service.VerifyDoctor(c.Request.Context(), id, *req.IsVerified)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) ListPharmacies(c *gin.Context) {
	filters := &model.PharmacyFilters{
		Search: c.Query("search"),
	}
	if v, ok := c.GetQuery("is_active"); ok {
		active := strings.ToLower(v) == "true"
		filters.IsActive = &active
	}

	pharmacies, err := h.service.ListPharmacies(c.Request.Context(), filters)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.ListResponse{Count: len(pharmacies), Results: pharmacies})
}

func (h *Handler) PatchPharmacy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("pharmacy not found"))
		return
	}

	// A body without is_active, including no body at all, is accepted and
	// leaves the row unchanged.
	var req model.UpdatePharmacyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	pharmacy, err := h.service.PatchPharmacy(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(pharmacy))
}

