package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /admin/courses
func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.adminService.ListCourses(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, courses)
}

// GET /admin/courses/recent
func (h *AdminHandler) RecentCourses(c *gin.Context) {
	courses, err := h.adminService.RecentCourses(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, courses)
}

// GET /admin/courses/:id
func (h *AdminHandler) GetCourse(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	course, err := h.adminService.GetCourse(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, course)
}

// POST /admin/courses (multipart/form-data)
// fields: title, description, category, difficulty, is_published, is_featured
// file: thumbnail (optional)
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	in, closeFile, err := courseForm(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	defer closeFile()

	course, err := h.adminService.CreateCourse(reqCtx(c), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, course)
}

// PUT /admin/courses/:id (multipart/form-data, fields as for create)
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	in, closeFile, err := courseForm(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	defer closeFile()

	if err := h.adminService.UpdateCourse(reqCtx(c), id, in); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Course updated"})
}

// DELETE /admin/courses/:id
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	if err := h.adminService.DeleteCourse(reqCtx(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Course deleted"})
}

// GET /admin/courses/:id/lessons
func (h *AdminHandler) ListLessons(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	lessons, err := h.adminService.ListLessons(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, lessons)
}

// POST /admin/courses/:id/lessons
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	var in services.LessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_request", err.Error()))
		return
	}
	lesson, err := h.adminService.CreateLesson(reqCtx(c), id, in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, lesson)
}

// GET /admin/lessons/:id
func (h *AdminHandler) GetLesson(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrLessonNotFound)
	if !ok {
		return
	}
	lesson, err := h.adminService.GetLesson(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, lesson)
}

// PUT /admin/lessons/:id
func (h *AdminHandler) UpdateLesson(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrLessonNotFound)
	if !ok {
		return
	}
	var in services.LessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_request", err.Error()))
		return
	}
	if err := h.adminService.UpdateLesson(reqCtx(c), id, in); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lesson updated"})
}

// DELETE /admin/lessons/:id
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrLessonNotFound)
	if !ok {
		return
	}
	if err := h.adminService.DeleteLesson(reqCtx(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lesson deleted"})
}

// GET /admin/users/recent
func (h *AdminHandler) RecentUsers(c *gin.Context) {
	users, err := h.adminService.RecentUsers(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, users)
}

// courseForm reads the course fields present in the form. The returned func
// closes the uploaded thumbnail, if any.
func courseForm(c *gin.Context) (services.CourseInput, func(), error) {
	var in services.CourseInput
	noop := func() {}

	in.Title = formString(c, "title")
	in.Description = formString(c, "description")
	in.Category = formString(c, "category")
	in.Difficulty = formString(c, "difficulty")
	in.IsPublished = formBool(c, "is_published")
	in.IsFeatured = formBool(c, "is_featured")

	fh, err := c.FormFile("thumbnail")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, noop, nil
	}
	if err != nil {
		return in, noop, apierr.BadRequest("invalid_request", err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return in, noop, apierr.BadRequest("invalid_thumbnail", "Could not read thumbnail")
	}
	in.Thumbnail = f
	return in, func() { _ = f.Close() }, nil
}

func formString(c *gin.Context, name string) *string {
	v, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	return &v
}

// formBool treats only "true" as true, matching what browser forms send.
func formBool(c *gin.Context, name string) *bool {
	v, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	b := strings.EqualFold(strings.TrimSpace(v), "true")
	return &b
}
