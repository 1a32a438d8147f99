package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avanti-store/catalog-backend/internal/service"
	"github.com/avanti-store/catalog-backend/internal/session"
	"github.com/avanti-store/catalog-backend/pkg/logging"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Sessions *session.Manager
}

type credentialsRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	SecretKey string `json:"secret_key"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Register(ctx, req.Username, req.Password, req.SecretKey); err != nil {
		switch {
		case errors.Is(err, service.ErrBadSecret):
			return echo.NewHTTPError(http.StatusForbidden, "invalid secret key")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "missing username or password")
		case errors.Is(err, service.ErrUserExists):
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "administrator registered",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	token, err := h.Sessions.Begin(ctx, &session.Session{
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot create session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create session")
	}

	c.SetCookie(session.Cookie(token, h.Sessions.TTL()))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"role":    user.Role,
	})
}

// Logout destroys the session if one exists and sends the caller back to the
// login page either way.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
		if err := h.Sessions.End(ctx, ck.Value); err != nil {
			logging.FromContext(ctx).Error("logout_error", "reason", "cannot end session", "error", err)
		}
	}

	c.SetCookie(session.ExpiredCookie())
	return c.Redirect(http.StatusFound, "/")
}
