package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"smartmess/internal/errors"
	"smartmess/internal/service"
)

// NutritionHandler handles AI nutrition endpoints.
type NutritionHandler struct {
	nutritionService service.NutritionService
}

// NewNutritionHandler creates a new nutrition handler.
func NewNutritionHandler(nutritionService service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// GenerateImageRequest represents a meal image generation request.
type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GetAdvice godoc
// @Summary Get personalized nutrition advice
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param prompt query string true "User question"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /nutrition/advice [get]
func (h *NutritionHandler) GetAdvice(c echo.Context) error {
	if _, _, ok := currentUser(c); !ok {
		return unauthorized()
	}

	prompt := c.QueryParam("prompt")
	if prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "prompt is required",
			Code:  "MISSING_PROMPT",
		})
	}

	advice, err := h.nutritionService.GetAdvice(c.Request().Context(), prompt)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"advice": advice})
}

// GenerateMealImage godoc
// @Summary Generate a meal image URL from a prompt
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateImageRequest true "Image prompt"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /meals/generate-image [post]
func (h *NutritionHandler) GenerateMealImage(c echo.Context) error {
	if _, _, ok := currentUser(c); !ok {
		return unauthorized()
	}

	var req GenerateImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imageURL, err := h.nutritionService.GenerateMealImage(c.Request().Context(), req.Prompt)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"imageUrl": imageURL})
}
