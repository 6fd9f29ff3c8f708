// ABOUTME: HTTP handlers for registration, login, logout and identity lookup.
// ABOUTME: Successful logins return a bearer token usable with /api/auth/me.
package api

import (
	"net/http"
	"strings"

	"github.com/harperreed/healthai/internal/apperr"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/session"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsDemo   bool   `json:"isDemo"`
}

type authResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
}

type meResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func bindError() error {
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	sess := session.New()
	u, err := s.auth.Register(c.Request().Context(), sess, req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return s.respondAuthenticated(c, sess, u, "Account created successfully")
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	sess := session.New()
	if req.IsDemo {
		u := s.auth.LoginDemo(sess)
		return s.respondAuthenticated(c, sess, u, "Demo login successful")
	}

	u, err := s.auth.Login(c.Request().Context(), sess, req.Email, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Auth("%s", apperr.Message(err, "User not found"))
		}
		return err
	}
	return s.respondAuthenticated(c, sess, u, "Login successful")
}

func (s *Server) respondAuthenticated(c echo.Context, sess *session.Session, u *models.User, msg string) error {
	token, err := s.tokens.Issue(sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, User: u, Message: msg, Token: token})
}

func (s *Server) handleLogout(c echo.Context) error {
	token, sess, err := s.bearerSession(c)
	if err != nil {
		return err
	}
	s.auth.Logout(sess)
	s.tokens.Revoke(token)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out"})
}

func (s *Server) handleMe(c echo.Context) error {
	_, sess, err := s.bearerSession(c)
	if err != nil {
		return err
	}
	u, _ := sess.Current()
	return c.JSON(http.StatusOK, meResponse{Success: true, User: u})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func (s *Server) bearerSession(c echo.Context) (string, *session.Session, error) {
	token := bearerToken(c)
	if token == "" {
		return "", nil, apperr.Auth("Authorization token is required")
	}
	sess, ok := s.tokens.Lookup(token)
	if !ok {
		return "", nil, apperr.Auth("Invalid or expired token")
	}
	return token, sess, nil
}
