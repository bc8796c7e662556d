package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/JithuMorrison/Lingzee/internal/http/handlers"
	httpMW "github.com/JithuMorrison/Lingzee/internal/http/middleware"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// UploadsDir is served at /uploads when set (local thumbnail storage).
	UploadsDir    string
	UploadsPrefix string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler      *httpH.AuthHandler
	CourseHandler    *httpH.CourseHandler
	LessonHandler    *httpH.LessonHandler
	ProgressHandler  *httpH.ProgressHandler
	UserHandler      *httpH.UserHandler
	BookmarkHandler  *httpH.BookmarkHandler
	AdminHandler     *httpH.AdminHandler
	AssistantHandler *httpH.AssistantHandler
	RealtimeHandler  *httpH.RealtimeHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Local thumbnails
	if cfg.UploadsDir != "" {
		prefix := cfg.UploadsPrefix
		if prefix == "" {
			prefix = "/uploads"
		}
		r.Static(prefix, cfg.UploadsDir)
	}

	api := r.Group("/api")

	// Public
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}
	if cfg.CourseHandler != nil {
		api.GET("/courses", cfg.CourseHandler.ListCourses)
		api.GET("/courses/featured", cfg.CourseHandler.ListFeatured)
		api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	// Realtime stream authenticates from the query string as well
	if cfg.RealtimeHandler != nil {
		api.GET("/realtime/stream", cfg.AuthMiddleware.RequireStreamAuth(), cfg.RealtimeHandler.Stream)
	}

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		if cfg.AuthHandler != nil {
			protected.GET("/auth/me", cfg.AuthHandler.Me)
		}

		if cfg.CourseHandler != nil {
			protected.POST("/courses/enroll/:id", cfg.CourseHandler.Enroll)
			protected.GET("/courses/:id/enrollment", cfg.CourseHandler.EnrollmentStatus)
		}

		if cfg.LessonHandler != nil {
			protected.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
			protected.POST("/lessons/:id/quiz", cfg.LessonHandler.SubmitQuiz)
		}

		if cfg.ProgressHandler != nil {
			protected.GET("/progress/:course", cfg.ProgressHandler.CourseProgress)
			protected.GET("/progress/:course/:lesson", cfg.ProgressHandler.LessonProgress)
			protected.POST("/progress/:course/:lesson", cfg.ProgressHandler.UpdateProgress)
			protected.POST("/progress/:course/:lesson/complete", cfg.ProgressHandler.CompleteLesson)
		}

		if cfg.UserHandler != nil {
			protected.GET("/users/dashboard", cfg.UserHandler.Dashboard)
			protected.GET("/users/courses", cfg.UserHandler.Courses)
			protected.GET("/users/progress", cfg.UserHandler.Progress)
			protected.GET("/users/stats", cfg.UserHandler.Stats)
		}

		if cfg.BookmarkHandler != nil {
			protected.GET("/bookmarks", cfg.BookmarkHandler.List)
			protected.GET("/bookmarks/:lesson/check", cfg.BookmarkHandler.Check)
			protected.POST("/bookmarks", cfg.BookmarkHandler.Add)
			protected.DELETE("/bookmarks/:lesson", cfg.BookmarkHandler.Remove)
		}

		if cfg.AssistantHandler != nil {
			protected.POST("/assistant/session", cfg.AssistantHandler.StartSession)
			protected.GET("/assistant/session/:id/messages", cfg.AssistantHandler.Messages)
			protected.POST("/assistant/message", cfg.AssistantHandler.SendMessage)
		}

		if cfg.RealtimeHandler != nil {
			protected.POST("/realtime/subscribe", cfg.RealtimeHandler.Subscribe)
			protected.POST("/realtime/unsubscribe", cfg.RealtimeHandler.Unsubscribe)
		}
	}

	admin := protected.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	if cfg.AdminHandler != nil {
		admin.GET("/stats", cfg.AdminHandler.Stats)
		admin.GET("/courses", cfg.AdminHandler.ListCourses)
		admin.POST("/courses", cfg.AdminHandler.CreateCourse)
		admin.GET("/courses/recent", cfg.AdminHandler.RecentCourses)
		admin.GET("/courses/:id", cfg.AdminHandler.GetCourse)
		admin.PUT("/courses/:id", cfg.AdminHandler.UpdateCourse)
		admin.DELETE("/courses/:id", cfg.AdminHandler.DeleteCourse)
		admin.GET("/courses/:id/lessons", cfg.AdminHandler.ListLessons)
		admin.POST("/courses/:id/lessons", cfg.AdminHandler.CreateLesson)
		admin.GET("/lessons/:id", cfg.AdminHandler.GetLesson)
		admin.PUT("/lessons/:id", cfg.AdminHandler.UpdateLesson)
		admin.DELETE("/lessons/:id", cfg.AdminHandler.DeleteLesson)
		admin.GET("/users/recent", cfg.AdminHandler.RecentUsers)
	}

	return r
}
