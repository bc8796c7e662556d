package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/platform/ctxutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
)

var (
	ErrUnauthenticated   = apierr.Unauthorized("unauthenticated", "Token is missing or invalid")
	ErrInvalidLogin      = apierr.Unauthorized("invalid_credentials", "Invalid credentials")
	ErrUserExists        = apierr.BadRequest("user_exists", "User already exists")
	ErrMissingFields     = apierr.BadRequest("missing_fields", "Missing required fields")
	ErrMissingLogin      = apierr.BadRequest("missing_fields", "Missing username or password")
	ErrCourseNotFound    = apierr.NotFound("course_not_found", "Course not found")
	ErrLessonNotFound    = apierr.NotFound("lesson_not_found", "Lesson not found")
	ErrQuizNotFound      = apierr.NotFound("quiz_not_found", "Quiz not found")
	ErrEmptyQuiz         = apierr.BadRequest("empty_quiz", "Quiz has no questions")
	ErrNotEnrolled       = apierr.Forbidden("not_enrolled", "You need to enroll in this course first")
	ErrAlreadyEnrolled   = apierr.BadRequest("already_enrolled", "Already enrolled in this course")
	ErrAlreadyBookmarked = apierr.BadRequest("already_bookmarked", "Already bookmarked")
	ErrLessonIDRequired  = apierr.BadRequest("missing_lesson_id", "Lesson ID is required")
	ErrBookmarkNotFound  = apierr.NotFound("bookmark_not_found", "Bookmark not found")
	ErrSessionNotFound   = apierr.NotFound("session_not_found", "Session not found")
	ErrAdminRequired     = apierr.Forbidden("admin_required", "Admin access required")
)

// requireUser returns the caller attached by the auth middleware.
func requireUser(dbc dbctx.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return rd.UserID, nil
}

// invalidAsBadRequest turns a store-boundary validation failure into a 400 and
// passes every other error through untouched.
func invalidAsBadRequest(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrInvalid) {
		return apierr.New(http.StatusBadRequest, "invalid_input", err)
	}
	return err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
