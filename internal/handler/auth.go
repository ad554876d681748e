package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/post-office-sim/internal/auth"
)

// AuthHandler issues access tokens for the admin API.  There is a single
// admin identity configured through the environment; no user store is
// involved, so login is a bcrypt check against the configured password hash.
type AuthHandler struct {
	Secret       string
	AdminHash    string
	AccessTTLMin int
}

func NewAuthHandler(secret, adminHash string, accessTTLMin int) *AuthHandler {
	return &AuthHandler{Secret: secret, AdminHash: adminHash, AccessTTLMin: accessTTLMin}
}

type loginReq struct {
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login verifies the admin password and returns a short-lived ADMIN token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if !auth.VerifyPassword(h.AdminHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := auth.NewAccessToken(h.Secret, "admin", "ADMIN", h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me reports the authenticated identity; useful for probing a token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
