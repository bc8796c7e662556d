package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	"github.com/JithuMorrison/Lingzee/internal/data/repos/testutil"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/ctxutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

// testEnv wires real repositories over a test database. Service tests write
// without a transaction (token checks read outside any request transaction),
// so seeded names are unique per test.
type testEnv struct {
	db  *gorm.DB
	log *logger.Logger
	ctx context.Context

	users       repos.UserRepo
	courses     repos.CourseRepo
	lessons     repos.LessonRepo
	enrollments repos.EnrollmentRepo
	progress    repos.ProgressRepo
	bookmarks   repos.BookmarkRepo
	sessions    repos.ChatSessionRepo
	messages    repos.ChatMessageRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testEnv{
		db:          db,
		log:         log,
		ctx:         context.Background(),
		users:       repos.NewUserRepo(db, log),
		courses:     repos.NewCourseRepo(db, log),
		lessons:     repos.NewLessonRepo(db, log),
		enrollments: repos.NewEnrollmentRepo(db, log),
		progress:    repos.NewProgressRepo(db, log),
		bookmarks:   repos.NewBookmarkRepo(db, log),
		sessions:    repos.NewChatSessionRepo(db, log),
		messages:    repos.NewChatMessageRepo(db, log),
	}
}

func uniqueName(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func (e *testEnv) seedUser(t *testing.T) *types.User {
	t.Helper()
	return testutil.SeedUser(t, e.ctx, e.db, uniqueName("user"))
}

// as returns a request context authenticated as u.
func (e *testEnv) as(u *types.User) dbctx.Context {
	ctx := ctxutil.WithRequestData(e.ctx, &ctxutil.RequestData{UserID: u.ID, IsAdmin: u.IsAdmin})
	return dbctx.From(ctx)
}

func (e *testEnv) anon() dbctx.Context {
	return dbctx.From(e.ctx)
}

func (e *testEnv) reloadUser(t *testing.T, id uuid.UUID) *types.User {
	t.Helper()
	u, err := e.users.GetByID(e.anon(), id)
	if err != nil || u == nil {
		t.Fatalf("reload user: u=%v err=%v", u, err)
	}
	return u
}
