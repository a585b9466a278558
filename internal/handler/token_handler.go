package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stockroom/internal/auth"
	"stockroom/internal/service"
)

// TokenHandler issues bearer API tokens for the storefront SPA.
type TokenHandler struct {
	authService service.AuthService
	jwtService  *auth.JWTService
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(authService service.AuthService, jwtService *auth.JWTService) *TokenHandler {
	return &TokenHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// TokenRequest represents a token issuance request.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// Issue godoc
// @Summary Exchange credentials for a bearer API token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/token [post]
func (h *TokenHandler) Issue(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.VerifyCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresIn: int(auth.TokenExpiry.Seconds()),
	})
}
