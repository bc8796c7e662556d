package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/db"
	"github.com/JithuMorrison/Lingzee/internal/http"
	httpH "github.com/JithuMorrison/Lingzee/internal/http/handlers"
	httpMW "github.com/JithuMorrison/Lingzee/internal/http/middleware"
	"github.com/JithuMorrison/Lingzee/internal/platform/localmedia"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Course    *httpH.CourseHandler
	Lesson    *httpH.LessonHandler
	Progress  *httpH.ProgressHandler
	User      *httpH.UserHandler
	Bookmark  *httpH.BookmarkHandler
	Admin     *httpH.AdminHandler
	Assistant *httpH.AssistantHandler
	Realtime  *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, theDB *gorm.DB, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(httpH.DependencyCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return db.Ping(ctx, theDB) },
		}),
		Auth:      httpH.NewAuthHandler(services.Auth, services.User),
		Course:    httpH.NewCourseHandler(services.Course),
		Lesson:    httpH.NewLessonHandler(services.Lesson),
		Progress:  httpH.NewProgressHandler(services.Progress),
		User:      httpH.NewUserHandler(services.User),
		Bookmark:  httpH.NewBookmarkHandler(services.Bookmark),
		Admin:     httpH.NewAdminHandler(services.Admin),
		Assistant: httpH.NewAssistantHandler(services.Chat),
		Realtime:  httpH.NewRealtimeHandler(log, sseHub, services.Chat),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, clients Clients, handlers Handlers, middleware Middleware) *http.Server {
	rc := http.RouterConfig{
		Log:              log,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		AuthMiddleware:   middleware.Auth,
		AuthHandler:      handlers.Auth,
		CourseHandler:    handlers.Course,
		LessonHandler:    handlers.Lesson,
		ProgressHandler:  handlers.Progress,
		UserHandler:      handlers.User,
		BookmarkHandler:  handlers.Bookmark,
		AdminHandler:     handlers.Admin,
		AssistantHandler: handlers.Assistant,
		RealtimeHandler:  handlers.Realtime,
		HealthHandler:    handlers.Health,
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.Otel.ServiceName
	}
	if clients.Thumbnails.Mode == storageModeLocal {
		rc.UploadsDir = cfg.UploadDir
		rc.UploadsPrefix = localmedia.DefaultURLPrefix
	}
	return http.NewServer(rc)
}
