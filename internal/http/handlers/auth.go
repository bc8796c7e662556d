package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// POST /auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, services.ErrMissingFields)
		return
	}
	token, user, err := ah.authService.Register(reqCtx(c), req.Username, req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"access_token": token,
		"user":         user,
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
	})
}

// POST /auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, services.ErrMissingLogin)
		return
	}
	token, user, err := ah.authService.Login(reqCtx(c), req.Username, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": token,
		"user":         user,
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
	})
}

// GET /auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.userService.GetMe(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, me)
}
