package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GET /courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListPublished(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, courses)
}

// GET /courses/featured
func (h *CourseHandler) ListFeatured(c *gin.Context) {
	courses, err := h.courseService.ListFeatured(reqCtx(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, courses)
}

// GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	detail, err := h.courseService.GetDetail(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// POST /courses/enroll/:id
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	enrollment, err := h.courseService.Enroll(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message":    "Successfully enrolled in course",
		"enrollment": enrollment,
	})
}

// GET /courses/:id/enrollment
func (h *CourseHandler) EnrollmentStatus(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrCourseNotFound)
	if !ok {
		return
	}
	enrolled, err := h.courseService.IsEnrolled(reqCtx(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"isEnrolled": enrolled})
}
