package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/domain"
	"github.com/Domenick1991/airline/internal/service/users"
	"github.com/gin-gonic/gin"
)

const (
	userContextKey  = "user"
	tokenContextKey = "session_token"
)

type sessionAuth struct {
	users  users.UserUseCase
	cfg    config.SessionConfig
	logger *slog.Logger
}

func newSessionAuth(userService users.UserUseCase, cfg config.SessionConfig, logger *slog.Logger) *sessionAuth {
	if cfg.CookieName == "" {
		cfg.CookieName = "sessionid"
	}
	return &sessionAuth{users: userService, cfg: cfg, logger: logger}
}

// Middleware resolves the session cookie into the current user. Requests
// without a valid session continue anonymously.
func (s *sessionAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cfg.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := s.users.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userContextKey, user)
			c.Set(tokenContextKey, token)
		case errors.Is(err, domain.ErrSessionNotFound):
			s.clearCookie(c)
		default:
			s.logger.WarnContext(c.Request.Context(), "session lookup failed", "error", err)
		}
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page.
func (s *sessionAuth) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *sessionAuth) RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func (s *sessionAuth) setCookie(c *gin.Context, session *domain.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, session.Token, int(s.cfg.TTL().Seconds()), "/", "", s.cfg.Secure, true)
}

func (s *sessionAuth) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, "", -1, "/", "", s.cfg.Secure, true)
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

func sessionToken(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}
