package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/JithuMorrison/Lingzee/internal/data/repos/testutil"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
)

type learningServices struct {
	courses   CourseService
	lessons   LessonService
	progress  ProgressService
	users     UserService
	bookmarks BookmarkService
}

func newLearningServices(e *testEnv) learningServices {
	return learningServices{
		courses:   NewCourseService(e.db, e.log, e.courses, e.lessons, e.enrollments),
		lessons:   NewLessonService(e.db, e.log, e.lessons, e.enrollments, e.progress, e.users),
		progress:  NewProgressService(e.db, e.log, e.progress, e.lessons, e.users),
		users:     NewUserService(e.db, e.log, e.users, e.courses, e.lessons, e.enrollments, e.progress),
		bookmarks: NewBookmarkService(e.db, e.log, e.bookmarks, e.lessons),
	}
}

func fourQuestions() []types.Question {
	return []types.Question{question("0"), question("1"), question("2"), question("0", "3")}
}

func TestCourseCatalogAndEnrollment(t *testing.T) {
	e := newTestEnv(t)
	s := newLearningServices(e)
	u := e.seedUser(t)

	c := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("Spanish"), true)
	second := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 2, types.LessonTypeText, false)
	first := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 1, types.LessonTypeVideo, true)
	hidden := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 3, types.LessonTypeText, false)
	if _, err := e.lessons.Update(e.anon(), hidden.ID, map[string]any{"is_published": false}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	detail, err := s.courses.GetDetail(e.anon(), c.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Lessons) != 2 || detail.Lessons[0].ID != first.ID || detail.Lessons[1].ID != second.ID {
		t.Fatalf("GetDetail: lessons not published-only in order: %+v", detail.Lessons)
	}
	if _, err := s.courses.GetDetail(e.anon(), uuid.New()); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("GetDetail (missing): want ErrCourseNotFound got=%v", err)
	}

	list, err := s.courses.ListPublished(e.anon())
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	var summary *types.CourseSummary
	for _, cs := range list {
		if cs.ID == c.ID {
			summary = cs
		}
	}
	if summary == nil || summary.LessonCount != 2 {
		t.Fatalf("ListPublished: summary=%+v", summary)
	}

	dbc := e.as(u)
	if ok, err := s.courses.IsEnrolled(dbc, c.ID); err != nil || ok {
		t.Fatalf("IsEnrolled (before): ok=%v err=%v", ok, err)
	}
	if _, err := s.courses.Enroll(dbc, c.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if ok, err := s.courses.IsEnrolled(dbc, c.ID); err != nil || !ok {
		t.Fatalf("IsEnrolled (after): ok=%v err=%v", ok, err)
	}
	if _, err := s.courses.Enroll(dbc, c.ID); !errors.Is(err, ErrAlreadyEnrolled) || apierr.StatusOf(err) != 400 {
		t.Fatalf("Enroll (again): want 400 ErrAlreadyEnrolled got=%v", err)
	}
	if _, err := s.courses.Enroll(dbc, uuid.New()); apierr.StatusOf(err) != 404 {
		t.Fatalf("Enroll (missing course): want 404 got=%v", err)
	}
	if _, err := s.courses.Enroll(e.anon(), c.ID); apierr.StatusOf(err) != 401 {
		t.Fatalf("Enroll (anonymous): want 401 got=%v", err)
	}
}

func TestLessonEnrollmentGate(t *testing.T) {
	e := newTestEnv(t)
	s := newLearningServices(e)
	u := e.seedUser(t)
	c := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("German"), true)
	free := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 1, types.LessonTypeVideo, true)
	paid := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 2, types.LessonTypeText, false)
	dbc := e.as(u)

	if _, err := s.lessons.Get(dbc, free.ID); err != nil {
		t.Fatalf("Get (free): %v", err)
	}
	if _, err := s.lessons.Get(dbc, paid.ID); !errors.Is(err, ErrNotEnrolled) || apierr.StatusOf(err) != 403 {
		t.Fatalf("Get (not enrolled): want 403 got=%v", err)
	}
	if _, err := s.lessons.Get(dbc, uuid.New()); apierr.StatusOf(err) != 404 {
		t.Fatalf("Get (missing): want 404 got=%v", err)
	}
	if _, err := s.courses.Enroll(dbc, c.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if got, err := s.lessons.Get(dbc, paid.ID); err != nil || got.ID != paid.ID {
		t.Fatalf("Get (enrolled): got=%v err=%v", got, err)
	}
}

func TestSubmitQuiz(t *testing.T) {
	e := newTestEnv(t)
	s := newLearningServices(e)
	u := e.seedUser(t)
	c := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("French"), true)
	quiz := testutil.SeedQuiz(t, e.ctx, e.db, c.ID, 15, fourQuestions())
	video := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 1, types.LessonTypeVideo, true)
	dbc := e.as(u)

	// 3 of 4: recorded as half done, no points.
	result, err := s.lessons.SubmitQuiz(dbc, quiz.ID, answers("0", "[0]", "1", "[1]", "2", "[2]", "3", "[3]"))
	if err != nil {
		t.Fatalf("SubmitQuiz (3/4): %v", err)
	}
	if result.Correct != 3 || result.Total != 4 || result.Score != 75 || result.Passed {
		t.Fatalf("SubmitQuiz (3/4): %+v", result)
	}
	row, err := e.progress.Get(e.anon(), u.ID, c.ID, quiz.ID)
	if err != nil || row == nil || row.Progress != 0.5 || row.Completed || row.QuizScore == nil || *row.QuizScore != 75 {
		t.Fatalf("progress after 3/4: row=%+v err=%v", row, err)
	}
	if got := e.reloadUser(t, u.ID).Points; got != 0 {
		t.Fatalf("points after failing: want 0 got=%d", got)
	}

	// 4 of 4, with the multi-answer question submitted out of order.
	result, err = s.lessons.SubmitQuiz(dbc, quiz.ID, answers("0", "[0]", "1", "1", "2", "[2]", "3", "[3, 0]"))
	if err != nil {
		t.Fatalf("SubmitQuiz (4/4): %v", err)
	}
	if result.Score != 100 || !result.Passed {
		t.Fatalf("SubmitQuiz (4/4): %+v", result)
	}
	row, _ = e.progress.Get(e.anon(), u.ID, c.ID, quiz.ID)
	if row == nil || row.Progress != 1 || !row.Completed || *row.QuizScore != 100 {
		t.Fatalf("progress after 4/4: %+v", row)
	}
	if got := e.reloadUser(t, u.ID).Points; got != 30 {
		t.Fatalf("points after passing: want 30 got=%d", got)
	}

	if _, err := s.lessons.SubmitQuiz(dbc, video.ID, answers()); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("SubmitQuiz (video): want ErrQuizNotFound got=%v", err)
	}
	if _, err := s.lessons.SubmitQuiz(dbc, uuid.New(), answers()); apierr.StatusOf(err) != 404 {
		t.Fatalf("SubmitQuiz (missing): want 404 got=%v", err)
	}
	empty := testutil.SeedQuiz(t, e.ctx, e.db, c.ID, 5, nil)
	if _, err := s.lessons.SubmitQuiz(dbc, empty.ID, answers()); !errors.Is(err, ErrEmptyQuiz) || apierr.StatusOf(err) != 400 {
		t.Fatalf("SubmitQuiz (empty): want 400 ErrEmptyQuiz got=%v", err)
	}
}

func TestProgressTracking(t *testing.T) {
	e := newTestEnv(t)
	s := newLearningServices(e)
	u := e.seedUser(t)
	c := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("Japanese"), true)
	l1 := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 1, types.LessonTypeVideo, true)
	l2 := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 2, types.LessonTypeText, true)
	dbc := e.as(u)

	if row, err := s.progress.LessonProgress(dbc, c.ID, l1.ID); err != nil || row != nil {
		t.Fatalf("LessonProgress (none): row=%+v err=%v", row, err)
	}

	video := 42.0
	if err := s.progress.Update(dbc, c.ID, l1.ID, ProgressUpdate{Progress: 0.5, VideoProgress: &video}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.progress.Update(dbc, c.ID, l1.ID, ProgressUpdate{Progress: 1.5}); apierr.StatusOf(err) != 400 {
		t.Fatalf("Update (out of range): want 400 got=%v", err)
	}
	row, err := s.progress.LessonProgress(dbc, c.ID, l1.ID)
	if err != nil || row == nil || row.Progress != 0.5 || row.VideoProgress != 42 {
		t.Fatalf("LessonProgress: row=%+v err=%v", row, err)
	}

	points, err := s.progress.Complete(dbc, c.ID, l2.ID)
	if err != nil || points != 20 {
		t.Fatalf("Complete: points=%d err=%v", points, err)
	}
	if _, err := s.progress.Complete(dbc, c.ID, uuid.New()); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("Complete (missing): want ErrLessonNotFound got=%v", err)
	}

	agg, err := s.progress.CourseProgress(dbc, c.ID)
	if err != nil {
		t.Fatalf("CourseProgress: %v", err)
	}
	if agg.Progress != 0.75 || len(agg.CompletedLessons) != 1 || agg.CompletedLessons[0] != l2.ID {
		t.Fatalf("CourseProgress: %+v", agg)
	}

	empty := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("Empty"), true)
	if agg, err := s.progress.CourseProgress(dbc, empty.ID); err != nil || agg.Progress != 0 {
		t.Fatalf("CourseProgress (no lessons): %+v err=%v", agg, err)
	}
}

func TestUserDashboardAndStats(t *testing.T) {
	e := newTestEnv(t)
	s := newLearningServices(e)
	u := e.seedUser(t)
	dbc := e.as(u)

	done := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("Done"), true)
	doneLesson := testutil.SeedLesson(t, e.ctx, e.db, done.ID, 1, types.LessonTypeText, true)
	started := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("Started"), true)
	testutil.SeedLesson(t, e.ctx, e.db, started.ID, 1, types.LessonTypeText, true)
	testutil.SeedLesson(t, e.ctx, e.db, started.ID, 2, types.LessonTypeText, true)

	for _, c := range []*types.Course{done, started} {
		if _, err := s.courses.Enroll(dbc, c.ID); err != nil {
			t.Fatalf("Enroll: %v", err)
		}
	}
	if _, err := s.progress.Complete(dbc, done.ID, doneLesson.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	dash, err := s.users.Dashboard(dbc)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(dash.Courses) != 2 || len(dash.Progress) != 2 {
		t.Fatalf("Dashboard: courses=%d progress=%d", len(dash.Courses), len(dash.Progress))
	}
	if dash.Progress[done.ID.String()].Progress != 1 || dash.Progress[started.ID.String()].Progress != 0 {
		t.Fatalf("Dashboard progress: %+v", dash.Progress)
	}

	stats, err := s.users.Stats(dbc)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := UserStats{TotalCourses: 2, CompletedCourses: 1, Streak: 0, Points: 20}
	if *stats != want {
		t.Fatalf("Stats: want=%+v got=%+v", want, *stats)
	}

	courses, err := s.users.EnrolledCourses(dbc)
	if err != nil || len(courses) != 2 {
		t.Fatalf("EnrolledCourses: n=%d err=%v", len(courses), err)
	}
	rows, err := s.users.AllProgress(dbc)
	if err != nil || len(rows) != 1 {
		t.Fatalf("AllProgress: n=%d err=%v", len(rows), err)
	}
	me, err := s.users.GetMe(dbc)
	if err != nil || me.ID != u.ID {
		t.Fatalf("GetMe: me=%v err=%v", me, err)
	}
	raw, _ := json.Marshal(me)
	var fields map[string]any
	_ = json.Unmarshal(raw, &fields)
	if _, leaked := fields["password"]; leaked {
		t.Fatalf("GetMe: password hash must not serialize")
	}
}

func TestBookmarks(t *testing.T) {
	e := newTestEnv(t)
	s := newLearningServices(e)
	u := e.seedUser(t)
	c := testutil.SeedCourse(t, e.ctx, e.db, uniqueName("Korean"), true)
	l := testutil.SeedLesson(t, e.ctx, e.db, c.ID, 1, types.LessonTypeText, true)
	dbc := e.as(u)

	if _, err := s.bookmarks.Add(dbc, l.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok, err := s.bookmarks.IsBookmarked(dbc, l.ID); err != nil || !ok {
		t.Fatalf("IsBookmarked: ok=%v err=%v", ok, err)
	}
	list, err := s.bookmarks.List(dbc)
	if err != nil || len(list) != 1 || list[0].LessonID != l.ID {
		t.Fatalf("List: %+v err=%v", list, err)
	}

	tests := []struct {
		name     string
		lessonID uuid.UUID
		status   int
	}{
		{name: "duplicate", lessonID: l.ID, status: 400},
		{name: "missing id", lessonID: uuid.Nil, status: 400},
		{name: "unknown lesson", lessonID: uuid.New(), status: 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.bookmarks.Add(dbc, tt.lessonID); apierr.StatusOf(err) != tt.status {
				t.Fatalf("Add: want %d got=%v", tt.status, err)
			}
		})
	}

	if err := s.bookmarks.Remove(dbc, l.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.bookmarks.Remove(dbc, l.ID); !errors.Is(err, ErrBookmarkNotFound) {
		t.Fatalf("Remove (again): want ErrBookmarkNotFound got=%v", err)
	}
}
