package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type Services struct {
	Tokens    *services.TokenIssuer
	Auth      services.AuthService
	User      services.UserService
	Course    services.CourseService
	Lesson    services.LessonService
	Progress  services.ProgressService
	Bookmark  services.BookmarkService
	Thumbnail services.ThumbnailService
	Admin     services.AdminService
	Chat      services.ChatService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	// With a bus every instance's forwarder feeds its own hub, so publishing
	// there is enough. Without one, deliver straight to the local hub.
	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emitter = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	}

	tokens, err := services.NewTokenIssuer(cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init token issuer: %w", err)
	}
	thumbnails := services.NewThumbnailService(log, clients.Thumbnails.Store, cfg.ThumbnailMaxWidth, cfg.ThumbnailMaxHeight)

	return Services{
		Tokens:    tokens,
		Auth:      services.NewAuthService(db, log, r.User, tokens),
		User:      services.NewUserService(db, log, r.User, r.Course, r.Lesson, r.Enrollment, r.Progress),
		Course:    services.NewCourseService(db, log, r.Course, r.Lesson, r.Enrollment),
		Lesson:    services.NewLessonService(db, log, r.Lesson, r.Enrollment, r.Progress, r.User),
		Progress:  services.NewProgressService(db, log, r.Progress, r.Lesson, r.User),
		Bookmark:  services.NewBookmarkService(db, log, r.Bookmark, r.Lesson),
		Thumbnail: thumbnails,
		Admin:     services.NewAdminService(db, log, r.User, r.Course, r.Lesson, r.Enrollment, thumbnails),
		Chat: services.NewChatService(
			db,
			log,
			r.ChatSession,
			r.ChatMessage,
			services.NewEchoAssistant(),
			services.NewChatNotifier(emitter),
		),
	}, nil
}
