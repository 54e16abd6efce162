package profile

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitanips/platform-api/internal/handler"
	"github.com/vitanips/platform-api/internal/middleware"
	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/service/profile"
)

type Handler struct {
	service *profile.Service
}

func NewHandler(service *profile.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated user listing.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
}

// RegisterRoutes mounts the authenticated profile and record endpoints.
// The group is expected to carry the auth middleware already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/users/me")
	{
		me.GET("", h.GetProfile)
		me.PUT("", h.UpdateProfile)
		me.PATCH("", h.UpdateProfile)

		me.GET("/medical-history", h.ListMedicalHistory)
		me.POST("/medical-history", h.CreateMedicalHistory)
		me.GET("/medical-history/:id", h.GetMedicalHistory)
		me.PUT("/medical-history/:id", h.UpdateMedicalHistory)
		me.PATCH("/medical-history/:id", h.UpdateMedicalHistory)
		me.DELETE("/medical-history/:id", h.DeleteMedicalHistory)

		me.GET("/vaccinations", h.ListVaccinations)
		me.POST("/vaccinations", h.CreateVaccination)
		me.GET("/vaccinations/:id", h.GetVaccination)
		me.PUT("/vaccinations/:id", h.UpdateVaccination)
		me.PATCH("/vaccinations/:id", h.UpdateVaccination)
		me.DELETE("/vaccinations/:id", h.DeleteVaccination)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.ListResponse{Count: len(users), Results: users})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	// An empty body is an empty patch, not a bad request.
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) ListMedicalHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	entries, err := h.service.ListMedicalHistory(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.ListResponse{Count: len(entries), Results: entries})
}

func (h *Handler) CreateMedicalHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	var req model.MedicalHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	entry, err := h.service.CreateMedicalHistory(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) GetMedicalHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("medical history record not found"))
		return
	}

	entry, err := h.service.GetMedicalHistory(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) UpdateMedicalHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("medical history record not found"))
		return
	}

	var req model.MedicalHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	entry, err := h.service.UpdateMedicalHistory(c.Request.Context(), id, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) DeleteMedicalHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("medical history record not found"))
		return
	}

	if err := h.service.DeleteMedicalHistory(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListVaccinations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	records, err := h.service.ListVaccinations(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.ListResponse{Count: len(records), Results: records})
}

func (h *Handler) CreateVaccination(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	var req model.VaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	record, err := h.service.CreateVaccination(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) GetVaccination(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("vaccination record not found"))
		return
	}

	record, err := h.service.GetVaccination(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) UpdateVaccination(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("vaccination record not found"))
		return
	}

	var req model.VaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(middleware.ValidationMessage(err)))
		return
	}

	record, err := h.service.UpdateVaccination(c.Request.Context(), id, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) DeleteVaccination(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("vaccination record not found"))
		return
	}

	if err := h.service.DeleteVaccination(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

