package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /users/dashboard
func (uh *UserHandler) Dashboard(c *gin.Context) {
	d, err := uh.userService.Dashboard(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}

// GET /users/courses
func (uh *UserHandler) Courses(c *gin.Context) {
	courses, err := uh.userService.EnrolledCourses(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, courses)
}

// GET /users/progress
func (uh *UserHandler) Progress(c *gin.Context) {
	rows, err := uh.userService.AllProgress(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /users/stats
func (uh *UserHandler) Stats(c *gin.Context) {
	stats, err := uh.userService.Stats(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, stats)
}
