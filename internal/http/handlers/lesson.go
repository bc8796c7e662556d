package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type LessonHandler struct {
	lessonService services.LessonService
}

func NewLessonHandler(lessonService services.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// GET /lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrLessonNotFound)
	if !ok {
		return
	}
	lesson, err := h.lessonService.Get(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, lesson)
}

// POST /lessons/:id/quiz
// body: { "answers": { "0": [1, 2], "1": "hola" } }
func (h *LessonHandler) SubmitQuiz(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrQuizNotFound)
	if !ok {
		return
	}
	var req struct {
		Answers map[string]json.RawMessage `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_request", "answers must be an object keyed by question index"))
		return
	}
	result, err := h.lessonService.SubmitQuiz(reqCtx(c), id, req.Answers)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, result)
}
