package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type BookmarkHandler struct {
	bookmarkService services.BookmarkService
}

func NewBookmarkHandler(bookmarkService services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// GET /bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	rows, err := h.bookmarkService.List(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /bookmarks/:lesson/check
func (h *BookmarkHandler) Check(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson", services.ErrLessonNotFound)
	if !ok {
		return
	}
	marked, err := h.bookmarkService.IsBookmarked(reqCtx(c), lessonID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"isBookmarked": marked})
}

// POST /bookmarks
// body: { "lesson_id": "..." }
func (h *BookmarkHandler) Add(c *gin.Context) {
	var req struct {
		LessonID string `json:"lesson_id"`
	}
	_ = c.ShouldBindJSON(&req)
	lessonID, ok := parseOptionalID(req.LessonID)
	if !ok {
		response.RespondErr(c, services.ErrLessonNotFound)
		return
	}
	b, err := h.bookmarkService.Add(reqCtx(c), lessonID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Bookmark added", "bookmark": b})
}

// DELETE /bookmarks/:lesson
func (h *BookmarkHandler) Remove(c *gin.Context) {
	lessonID, ok := pathID(c, "lesson", services.ErrBookmarkNotFound)
	if !ok {
		return
	}
	if err := h.bookmarkService.Remove(reqCtx(c), lessonID); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Bookmark removed"})
}
