package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"smartmess/internal/errors"
)

// currentUser extracts the authenticated principal from the echo-jwt
// token stashed on the context.
func currentUser(c echo.Context) (uuid.UUID, string, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", false
	}
	rawID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// unauthorized is the uniform 401 for a missing or unusable principal.
func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "unauthorized",
		Code:  "UNAUTHORIZED",
	})
}
