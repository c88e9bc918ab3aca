package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"smartmess/internal/errors"
	"smartmess/internal/model"
	"smartmess/internal/service"
)

// MenuHandler handles weekly menu and voting endpoints.
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// CastVoteRequest represents a vote submission.
type CastVoteRequest struct {
	WeekStart string `json:"weekStart" validate:"required"`
	Day       string `json:"day" validate:"required"`
	MealType  string `json:"mealType" validate:"required"`
	Category  string `json:"category" validate:"required"`
	OptionID  string `json:"optionId" validate:"required"`
}

// GetWeeklyMenu godoc
// @Summary Weekly menu with vote counts
// @Tags menu
// @Produce json
// @Security BearerAuth
// @Param week query string false "Week start date (YYYY-MM-DD), defaults to current week"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /menu/weekly [get]
func (h *MenuHandler) GetWeeklyMenu(c echo.Context) error {
	if _, _, ok := currentUser(c); !ok {
		return unauthorized()
	}

	weekStart := c.QueryParam("week")
	if weekStart == "" {
		weekStart = model.WeekStartDate(time.Now())
	}

	menu, err := h.menuService.GetWeeklyMenu(c.Request().Context(), weekStart)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"menu": menu})
}

// CastVote godoc
// @Summary Vote for a meal option
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CastVoteRequest true "Vote data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /menu/vote [post]
func (h *MenuHandler) CastVote(c echo.Context) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	var req CastVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.menuService.CastVote(c.Request().Context(), userID, service.CastVoteInput{
		WeekStart: req.WeekStart,
		Day:       req.Day,
		MealSlot:  req.MealType,
		Category:  req.Category,
		OptionID:  req.OptionID,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	message := "Vote updated successfully"
	if created {
		message = "Vote recorded successfully. +5 points awarded."
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// UserVotes godoc
// @Summary Current user's votes for a week
// @Tags menu
// @Produce json
// @Security BearerAuth
// @Param week query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /menu/votes/user [get]
func (h *MenuHandler) UserVotes(c echo.Context) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}

	weekStart := c.QueryParam("week")
	if weekStart == "" {
		weekStart = model.WeekStartDate(time.Now())
	}

	votes, err := h.menuService.UserVotes(c.Request().Context(), userID, weekStart)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"votes": votes})
}
