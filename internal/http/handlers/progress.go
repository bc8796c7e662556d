package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GET /progress/:course
func (h *ProgressHandler) CourseProgress(c *gin.Context) {
	courseID, ok := pathID(c, "course", services.ErrCourseNotFound)
	if !ok {
		return
	}
	p, err := h.progressService.CourseProgress(reqCtx(c), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, p)
}

// GET /progress/:course/:lesson
func (h *ProgressHandler) LessonProgress(c *gin.Context) {
	courseID, ok := pathID(c, "course", services.ErrCourseNotFound)
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lesson", services.ErrLessonNotFound)
	if !ok {
		return
	}
	row, err := h.progressService.LessonProgress(reqCtx(c), courseID, lessonID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if row == nil {
		response.RespondOK(c, gin.H{"progress": 0, "completed": false})
		return
	}
	response.RespondOK(c, row)
}

// POST /progress/:course/:lesson
// body: { "progress": 0.4, "video_progress": 73.5 }
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	courseID, ok := pathID(c, "course", services.ErrCourseNotFound)
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lesson", services.ErrLessonNotFound)
	if !ok {
		return
	}
	var req services.ProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_request", err.Error()))
		return
	}
	if err := h.progressService.Update(reqCtx(c), courseID, lessonID, req); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Progress updated"})
}

// POST /progress/:course/:lesson/complete
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	courseID, ok := pathID(c, "course", services.ErrCourseNotFound)
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lesson", services.ErrLessonNotFound)
	if !ok {
		return
	}
	points, err := h.progressService.Complete(reqCtx(c), courseID, lessonID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lesson marked as completed", "points": points})
}
