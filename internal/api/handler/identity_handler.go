package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

// IdentityHandler serves registration, profile, password reset and token
// endpoints.
type IdentityHandler struct {
	service ports.IdentityService
}

func NewIdentityHandler(service ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /users/register [post]
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetProfile returns the caller's profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/profile [get]
func (h *IdentityHandler) GetProfile(c echo.Context) error {
	profile, err := h.service.GetProfile(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile partially updates the caller's profile.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/profile [patch]
func (h *IdentityHandler) UpdateProfile(c echo.Context) error {
	var req profileUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), caller(c), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// CSRF returns the token set by the CSRF middleware so browser clients can
// echo it back in the X-CSRFToken header.
//
// @Summary      Get a CSRF token
// @Tags         users
// @Produce      json
// @Success      200  {object}  csrfResponse
// @Router       /users/csrf [get]
func (h *IdentityHandler) CSRF(c echo.Context) error {
	token, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return c.JSON(http.StatusOK, csrfResponse{CSRFToken: token})
}

// RequestPasswordReset mails a reset link when the address matches an account.
// The response is the same whether or not it did.
//
// @Summary      Request a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /users/password_reset [post]
func (h *IdentityHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

// ConfirmPasswordReset sets a new password using the uid and token from the
// reset link.
//
// @Summary      Confirm a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetConfirmRequest  true  "Reset link values and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /users/reset-password-confirm [post]
func (h *IdentityHandler) ConfirmPasswordReset(c echo.Context) error {
	var req passwordResetConfirmRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.service.ConfirmPasswordReset(c.Request().Context(), req.UID, req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successful"})
}

// Login exchanges credentials for an access/refresh token pair.
//
// @Summary      Obtain a token pair
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  tokenPairResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /token [post]
func (h *IdentityHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh mints a new access token.
//
// @Summary      Refresh an access token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  accessResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /token/refresh [post]
func (h *IdentityHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	access, err := h.service.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		// A bad refresh token is an authentication failure, unlike a bad reset token.
		if errors.Is(err, domain.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
		}
		return err
	}
	return c.JSON(http.StatusOK, accessResponse{Access: access})
}
