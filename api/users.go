package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/Domenick1991/airline/internal/service/users"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service  users.UserUseCase
	sessions *sessionAuth
	logger   *slog.Logger
}

func NewUserHandler(service users.UserUseCase, sessions *sessionAuth, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{service: service, sessions: sessions, logger: logger}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.sessions.RequireLogin(), h.index)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *UserHandler) index(c *gin.Context) {
	user, _ := currentUser(c)
	c.HTML(http.StatusOK, "users/index.html", gin.H{"user": user})
}

func (h *UserHandler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "users/login.html", gin.H{})
}

func (h *UserHandler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "users/login.html", gin.H{"message": "Invalid credentials."})
		return
	}

	session, err := h.service.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		c.HTML(http.StatusOK, "users/login.html", gin.H{"message": "Invalid credentials."})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	h.sessions.setCookie(c, session)
	c.Redirect(http.StatusFound, usersPath)
}

func (h *UserHandler) logout(c *gin.Context) {
	ctx := c.Request.Context()
	if token := sessionToken(c); token != "" {
		if err := h.service.Logout(ctx, token); err != nil {
			h.logger.WarnContext(ctx, "failed to delete session", "error", err)
		}
	}
	h.sessions.clearCookie(c)
	c.HTML(http.StatusOK, "users/login.html", gin.H{"message": "Logged out."})
}
