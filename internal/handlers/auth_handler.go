package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webstarter/internal/auth"
	"webstarter/internal/services"
	"webstarter/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService  services.AuthService
	secureCookie bool
}

// NewAuthHandler - secureCookie включается в production (HTTPS).
func NewAuthHandler(base *BaseHandler, authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes регистрирует /auth/*
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/session", h.Session)
		authGroup.GET("/me", h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token, resp.ExpiresAt)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token, resp.ExpiresAt)
	c.JSON(http.StatusOK, resp)
}

// Logout - JWT без состояния, достаточно удалить cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", time.Time{})
	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// Session never fails for anonymous callers: {"user": null}.
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := auth.CurrentSession(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := -1
	if token != "" {
		maxAge = int(time.Until(expires).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}
