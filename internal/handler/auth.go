package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-reservation/internal/config"
	"github.com/iliyamo/event-reservation/internal/middleware"
	"github.com/iliyamo/event-reservation/internal/repository"
	"github.com/iliyamo/event-reservation/internal/utils"
)

// AuthHandler serves host registration, login and token refresh.
type AuthHandler struct {
	hosts  *repository.HostRepo
	tokens *repository.TokenRepo
	cfg    config.Config
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(hosts *repository.HostRepo, tokens *repository.TokenRepo, cfg config.Config) *AuthHandler {
	return &AuthHandler{hosts: hosts, tokens: tokens, cfg: cfg}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates a host account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	id, err := h.hosts.Create(c.Request().Context(), req.Email, req.Password, strings.TrimSpace(req.Name), h.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": strings.ToLower(req.Email)})
}

// Login verifies credentials and issues an access and a refresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	host, err := h.hosts.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return internalError(c, err)
	}
	if !utils.VerifyPassword(host.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.cfg.JWTSecret, host.ID, host.Email, h.cfg.AccessTTLMin)
	if err != nil {
		return internalError(c, err)
	}
	refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTLDays)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.tokens.StoreRefresh(c.Request().Context(), host.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access.Token,
		"expires_at":    access.Exp,
		"refresh_token": refresh.Raw,
	})
}

// Refresh rotates a refresh token and issues a fresh access token.
// The presented token is revoked whether or not rotation succeeds
// past validation.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	hash := utils.HashRefreshRaw(req.RefreshToken)
	hostID, err := h.tokens.ValidateRefresh(c.Request().Context(), hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return internalError(c, err)
	}
	if err := h.tokens.Revoke(c.Request().Context(), hash); err != nil {
		return internalError(c, err)
	}

	host, err := h.hosts.GetByID(c.Request().Context(), hostID)
	if err != nil {
		return internalError(c, err)
	}

	access, err := utils.NewAccessToken(h.cfg.JWTSecret, host.ID, host.Email, h.cfg.AccessTTLMin)
	if err != nil {
		return internalError(c, err)
	}
	refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTLDays)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.tokens.StoreRefresh(c.Request().Context(), host.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access.Token,
		"expires_at":    access.Exp,
		"refresh_token": refresh.Raw,
	})
}

// Logout revokes a refresh token. Idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	if err := h.tokens.Revoke(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "logged out"})
}

// Me returns the authenticated host's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	host, err := h.hosts.GetByID(c.Request().Context(), middleware.HostID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, host)
}
