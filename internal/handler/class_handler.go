package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proffyhq/proffy-api/internal/service"
	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
	"github.com/proffyhq/proffy-api/pkg/pagination"
	"github.com/proffyhq/proffy-api/pkg/response"

	"github.com/proffyhq/proffy-api/internal/models"
)

// ClassHandler wires the class service to HTTP routes.
type ClassHandler struct {
	classes   *service.ClassService
	hostURL   string
	apiPrefix string
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(classes *service.ClassService, hostURL, apiPrefix string) *ClassHandler {
	return &ClassHandler{
		classes:   classes,
		hostURL:   strings.TrimRight(hostURL, "/"),
		apiPrefix: apiPrefix,
	}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param subject query string false "Exact subject match"
// @Param week_day query int false "Weekday (0=Sunday .. 6=Saturday)"
// @Param time query string false "Time of day (HH:mm)"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	params := service.ListClassesParams{
		Subject: c.Query("subject"),
		Time:    c.Query("time"),
		Page:    1,
	}
	if raw := c.Query("week_day"); raw != "" {
		weekDay, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "week_day must be an integer"))
			return
		}
		params.WeekDay = &weekDay
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		params.Page = page
	}

	items, pag, err := h.classes.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	for i := range items {
		h.augment(&items[i])
	}

	baseURL := h.hostURL + c.Request.URL.String()
	totalPages := pagination.TotalPages(pag.TotalCount, pag.PageSize)
	links := pagination.Links(pag.Page, totalPages, baseURL)

	response.Paginated(c, items, pag, links)
}

// Get godoc
// @Summary Get class detail
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class id must be an integer"))
		return
	}

	item, err := h.classes.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.augment(item)

	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Register a tutor with a class and its weekly schedule
// @Tags Classes
// @Accept json
// @Param payload body service.RegisterClassRequest true "Registration payload"
// @Success 201
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.RegisterClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	if _, err := h.classes.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *ClassHandler) augment(item *models.ClassItem) {
	item.URL = fmt.Sprintf("%s%s/classes/%d", h.hostURL, h.apiPrefix, item.ID)
	item.UserURL = fmt.Sprintf("%s%s/users/%d", h.hostURL, h.apiPrefix, item.UserID)
}
