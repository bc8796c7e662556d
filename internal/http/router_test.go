package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	"github.com/JithuMorrison/Lingzee/internal/data/repos/testutil"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	httpH "github.com/JithuMorrison/Lingzee/internal/http/handlers"
	httpMW "github.com/JithuMorrison/Lingzee/internal/http/middleware"
	"github.com/JithuMorrison/Lingzee/internal/platform/localmedia"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(db, log)
	courseRepo := repos.NewCourseRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	enrollmentRepo := repos.NewEnrollmentRepo(db, log)
	progressRepo := repos.NewProgressRepo(db, log)
	bookmarkRepo := repos.NewBookmarkRepo(db, log)

	tokens, err := services.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	uploads := t.TempDir()
	store, err := localmedia.New(log, uploads, "/uploads")
	if err != nil {
		t.Fatalf("localmedia.New: %v", err)
	}
	hub := realtime.NewSSEHub(log)

	authService := services.NewAuthService(db, log, userRepo, tokens)
	userService := services.NewUserService(db, log, userRepo, courseRepo, lessonRepo, enrollmentRepo, progressRepo)
	chatService := services.NewChatService(db, log,
		repos.NewChatSessionRepo(db, log), repos.NewChatMessageRepo(db, log),
		services.NewEchoAssistant(),
		services.NewChatNotifier(&services.HubEmitter{Hub: hub}),
	)
	thumbnails := services.NewThumbnailService(log, store, 0, 0)

	engine := NewRouter(RouterConfig{
		Log:              log,
		UploadsDir:       uploads,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, authService),
		AuthHandler:      httpH.NewAuthHandler(authService, userService),
		CourseHandler:    httpH.NewCourseHandler(services.NewCourseService(db, log, courseRepo, lessonRepo, enrollmentRepo)),
		LessonHandler:    httpH.NewLessonHandler(services.NewLessonService(db, log, lessonRepo, enrollmentRepo, progressRepo, userRepo)),
		ProgressHandler:  httpH.NewProgressHandler(services.NewProgressService(db, log, progressRepo, lessonRepo, userRepo)),
		UserHandler:      httpH.NewUserHandler(userService),
		BookmarkHandler:  httpH.NewBookmarkHandler(services.NewBookmarkService(db, log, bookmarkRepo, lessonRepo)),
		AdminHandler:     httpH.NewAdminHandler(services.NewAdminService(db, log, userRepo, courseRepo, lessonRepo, enrollmentRepo, thumbnails)),
		AssistantHandler: httpH.NewAssistantHandler(chatService),
		RealtimeHandler:  httpH.NewRealtimeHandler(log, hub, chatService),
		HealthHandler:    httpH.NewHealthHandler(),
	})
	return &testServer{engine: engine, db: db, auth: authService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: want %d got %d body=%s", want, rec.Code, rec.Body.String())
	}
}

type authResponse struct {
	AccessToken string     `json:"access_token"`
	User        types.User `json:"user"`
}

func (s *testServer) register(t *testing.T, username string) authResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-pw",
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[authResponse](t, rec)
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthcheck", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "ok" {
		t.Fatalf("body: %q", rec.Body.String())
	}
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)
	reg := s.register(t, "ana")
	if reg.AccessToken == "" || reg.User.Username != "ana" {
		t.Fatalf("register: %+v", reg)
	}
	if strings.Contains(s.do(t, http.MethodGet, "/api/auth/me", reg.AccessToken, nil).Body.String(), "password") {
		t.Fatalf("me must not expose the password")
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{name: "duplicate username", method: http.MethodPost, path: "/api/auth/register", body: gin.H{"username": "ana", "email": "other@example.com", "password": "x"}, status: http.StatusBadRequest},
		{name: "register missing fields", method: http.MethodPost, path: "/api/auth/register", body: gin.H{"username": "bo"}, status: http.StatusBadRequest},
		{name: "login wrong password", method: http.MethodPost, path: "/api/auth/login", body: gin.H{"username": "ana", "password": "nope"}, status: http.StatusUnauthorized},
		{name: "login missing fields", method: http.MethodPost, path: "/api/auth/login", body: gin.H{"username": "ana"}, status: http.StatusBadRequest},
		{name: "login ok", method: http.MethodPost, path: "/api/auth/login", body: gin.H{"username": "ana", "password": "secret-pw"}, status: http.StatusOK},
		{name: "me without token", method: http.MethodGet, path: "/api/auth/me", status: http.StatusUnauthorized},
		{name: "me with garbage token", method: http.MethodGet, path: "/api/auth/me", token: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "me query token ignored", method: http.MethodGet, path: "/api/auth/me?token=" + reg.AccessToken, status: http.StatusUnauthorized},
		{name: "me", method: http.MethodGet, path: "/api/auth/me", token: reg.AccessToken, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, s.do(t, tt.method, tt.path, tt.token, tt.body), tt.status)
		})
	}

	var n int64
	if err := s.db.Model(&types.User{}).Where("username = ?", "ana").Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("duplicate register must not create a user: n=%d err=%v", n, err)
	}
}

func TestLearningRoutes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	token := s.register(t, "learner").AccessToken

	course := testutil.SeedCourse(t, ctx, s.db, "Italian", true)
	intro := testutil.SeedLesson(t, ctx, s.db, course.ID, 1, types.LessonTypeText, true)
	paid := testutil.SeedLesson(t, ctx, s.db, course.ID, 2, types.LessonTypeText, false)
	quiz := testutil.SeedQuiz(t, ctx, s.db, course.ID, 5, []types.Question{
		{Text: "uno?", Type: "mcq", CorrectAnswers: []json.RawMessage{json.RawMessage(`0`)}},
		{Text: "ciao?", Type: "typing", CorrectAnswers: []json.RawMessage{json.RawMessage(`"ciao"`)}},
	})

	courses := decode[[]types.CourseSummary](t, s.do(t, http.MethodGet, "/api/courses", "", nil))
	if len(courses) != 1 || courses[0].LessonCount != 3 {
		t.Fatalf("courses: %+v", courses)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/courses/"+uuid.NewString(), "", nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, "/api/courses/not-an-id", "", nil), http.StatusNotFound)

	expectStatus(t, s.do(t, http.MethodGet, "/api/lessons/"+intro.ID.String(), token, nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/lessons/"+paid.ID.String(), token, nil), http.StatusForbidden)

	expectStatus(t, s.do(t, http.MethodPost, "/api/courses/enroll/"+course.ID.String(), token, nil), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, "/api/courses/enroll/"+course.ID.String(), token, nil), http.StatusBadRequest)
	enrolled := decode[map[string]bool](t, s.do(t, http.MethodGet, "/api/courses/"+course.ID.String()+"/enrollment", token, nil))
	if !enrolled["isEnrolled"] {
		t.Fatalf("enrollment: %+v", enrolled)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/lessons/"+paid.ID.String(), token, nil), http.StatusOK)

	rec := s.do(t, http.MethodPost, "/api/lessons/"+quiz.ID.String()+"/quiz", token, gin.H{
		"answers": gin.H{"0": []int{0}, "1": "ciao"},
	})
	expectStatus(t, rec, http.StatusOK)
	result := decode[services.QuizResult](t, rec)
	if !result.Passed || result.Score != 100 || result.Correct != 2 || result.Total != 2 {
		t.Fatalf("quiz: %+v", result)
	}
	expectStatus(t, s.do(t, http.MethodPost, "/api/lessons/"+intro.ID.String()+"/quiz", token, gin.H{"answers": gin.H{}}), http.StatusNotFound)

	progressPath := "/api/progress/" + course.ID.String() + "/" + intro.ID.String()
	empty := decode[map[string]any](t, s.do(t, http.MethodGet, progressPath, token, nil))
	if empty["progress"] != float64(0) || empty["completed"] != false {
		t.Fatalf("empty progress: %+v", empty)
	}
	expectStatus(t, s.do(t, http.MethodPost, progressPath, token, gin.H{"progress": 0.5, "video_progress": 12.5}), http.StatusOK)
	done := decode[map[string]any](t, s.do(t, http.MethodPost, progressPath+"/complete", token, nil))
	if done["points"] != float64(20) {
		t.Fatalf("complete: %+v", done)
	}

	agg := decode[types.CourseProgress](t, s.do(t, http.MethodGet, "/api/progress/"+course.ID.String(), token, nil))
	if len(agg.CompletedLessons) != 2 || agg.Progress < 0.66 || agg.Progress > 0.67 {
		t.Fatalf("course progress: %+v", agg)
	}

	stats := decode[services.UserStats](t, s.do(t, http.MethodGet, "/api/users/stats", token, nil))
	if stats.TotalCourses != 1 || stats.Points != 30 || stats.Streak != 0 {
		t.Fatalf("stats: %+v", stats)
	}
	dash := decode[services.Dashboard](t, s.do(t, http.MethodGet, "/api/users/dashboard", token, nil))
	if len(dash.Courses) != 1 || len(dash.Progress[course.ID.String()].CompletedLessons) != 2 {
		t.Fatalf("dashboard: %+v", dash)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/bookmarks", token, gin.H{}), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, "/api/bookmarks", token, gin.H{"lesson_id": paid.ID}), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, "/api/bookmarks", token, gin.H{"lesson_id": paid.ID}), http.StatusBadRequest)
	check := decode[map[string]bool](t, s.do(t, http.MethodGet, "/api/bookmarks/"+paid.ID.String()+"/check", token, nil))
	if !check["isBookmarked"] {
		t.Fatalf("bookmark check: %+v", check)
	}
	expectStatus(t, s.do(t, http.MethodDelete, "/api/bookmarks/"+paid.ID.String(), token, nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodDelete, "/api/bookmarks/"+paid.ID.String(), token, nil), http.StatusNotFound)
}

func pngUpload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		img.Set(x, 1, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func courseFormRequest(t *testing.T, method, path, token string, fields map[string]string, thumbnail []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if thumbnail != nil {
		fw, err := w.CreateFormFile("thumbnail", "cover.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(thumbnail)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	learner := s.register(t, "student").AccessToken
	expectStatus(t, s.do(t, http.MethodGet, "/api/admin/stats", learner, nil), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodGet, "/api/admin/stats", "", nil), http.StatusUnauthorized)

	if err := s.auth.EnsureAdmin(ctx, "root", "root@example.com", "root-pw"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	login := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "root", "password": "root-pw"})
	expectStatus(t, login, http.StatusOK)
	admin := decode[authResponse](t, login).AccessToken

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, courseFormRequest(t, http.MethodPost, "/api/admin/courses", admin, map[string]string{
		"title":        "Portuguese",
		"is_published": "true",
	}, pngUpload(t)))
	expectStatus(t, rec, http.StatusCreated)
	course := decode[types.Course](t, rec)
	if course.Category != "Language" || course.Difficulty != "Beginner" || !course.IsPublished || course.IsFeatured {
		t.Fatalf("created course: %+v", course)
	}
	if !strings.HasPrefix(course.Thumbnail, "/uploads/thumbnails/") {
		t.Fatalf("thumbnail url: %q", course.Thumbnail)
	}
	expectStatus(t, s.do(t, http.MethodGet, course.Thumbnail, "", nil), http.StatusOK)

	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, courseFormRequest(t, http.MethodPost, "/api/admin/courses", admin, map[string]string{"description": "no title"}, nil))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, courseFormRequest(t, http.MethodPut, "/api/admin/courses/"+course.ID.String(), admin, map[string]string{"difficulty": "Advanced"}, nil))
	expectStatus(t, rec, http.StatusOK)
	updated := decode[types.Course](t, s.do(t, http.MethodGet, "/api/admin/courses/"+course.ID.String(), admin, nil))
	if updated.Difficulty != "Advanced" || updated.Title != "Portuguese" || !updated.IsPublished {
		t.Fatalf("updated course: %+v", updated)
	}

	lessonsPath := "/api/admin/courses/" + course.ID.String() + "/lessons"
	expectStatus(t, s.do(t, http.MethodPost, lessonsPath, admin, gin.H{"title": "Second", "order": 2}), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, lessonsPath, admin, gin.H{"title": "First", "order": 1, "duration": 5}), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, lessonsPath, admin, gin.H{"order": 3}), http.StatusBadRequest)
	lessons := decode[[]types.Lesson](t, s.do(t, http.MethodGet, lessonsPath, admin, nil))
	if len(lessons) != 2 || lessons[0].Title != "First" || lessons[1].Title != "Second" {
		t.Fatalf("lessons: %+v", lessons)
	}
	lessonPath := "/api/admin/lessons/" + lessons[1].ID.String()
	expectStatus(t, s.do(t, http.MethodPut, lessonPath, admin, gin.H{"title": "Renamed"}), http.StatusOK)
	if got := decode[types.Lesson](t, s.do(t, http.MethodGet, lessonPath, admin, nil)); got.Title != "Renamed" || got.SortOrder != 2 {
		t.Fatalf("updated lesson: %+v", got)
	}

	stats := decode[services.AdminStats](t, s.do(t, http.MethodGet, "/api/admin/stats", admin, nil))
	if stats.TotalCourses != 1 || stats.TotalLessons != 2 || stats.TotalUsers != 2 {
		t.Fatalf("stats: %+v", stats)
	}
	users := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/api/admin/users/recent", admin, nil))
	if len(users) != 2 {
		t.Fatalf("recent users: %d", len(users))
	}
	for _, u := range users {
		if _, ok := u["password"]; ok {
			t.Fatalf("recent users must not expose credentials")
		}
	}

	expectStatus(t, s.do(t, http.MethodDelete, "/api/admin/courses/"+course.ID.String(), admin, nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/admin/courses/"+course.ID.String(), admin, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, lessonPath, admin, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodDelete, "/api/admin/courses/"+course.ID.String(), admin, nil), http.StatusNotFound)
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		case line == "" && ev.name != "":
			return ev
		}
	}
}

func TestRealtimeChatRelay(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	token := s.register(t, "chatter").AccessToken
	other := s.register(t, "lurker").AccessToken

	rec := s.do(t, http.MethodPost, "/api/assistant/session", token, gin.H{"course_id": uuid.NewString()})
	expectStatus(t, rec, http.StatusOK)
	session := decode[struct {
		SessionID uuid.UUID            `json:"session_id"`
		Messages  []*types.ChatMessage `json:"messages"`
	}](t, rec)
	if session.SessionID == uuid.Nil || len(session.Messages) != 0 {
		t.Fatalf("session: %+v", session)
	}

	rec = s.do(t, http.MethodPost, "/api/assistant/session", token, gin.H{})
	expectStatus(t, rec, http.StatusOK)
	if courseless := decode[struct {
		SessionID uuid.UUID `json:"session_id"`
	}](t, rec); courseless.SessionID == uuid.Nil || courseless.SessionID == session.SessionID {
		t.Fatalf("session without course: %+v", courseless)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/realtime/stream?token="+token, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stream status: %d", resp.StatusCode)
	}
	stream := bufio.NewReader(resp.Body)

	connected := readEvent(t, stream)
	if connected.name != string(realtime.SSEEventConnected) {
		t.Fatalf("first event: %+v", connected)
	}
	var hello realtime.SSEMessage
	if err := json.Unmarshal([]byte(connected.data), &hello); err != nil {
		t.Fatalf("decode connected: %v", err)
	}
	clientID, _ := hello.Data.(map[string]any)["client_id"].(string)
	if clientID == "" {
		t.Fatalf("connected event carries no client_id: %s", connected.data)
	}

	sub := gin.H{"client_id": clientID, "session_id": session.SessionID}
	expectStatus(t, s.do(t, http.MethodPost, "/api/realtime/subscribe", other, sub), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodPost, "/api/realtime/subscribe", token, sub), http.StatusOK)

	expectStatus(t, s.do(t, http.MethodPost, "/api/assistant/message", token, gin.H{"session_id": session.SessionID}), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, "/api/assistant/message", other, gin.H{"session_id": session.SessionID, "message": "hi"}), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodPost, "/api/assistant/message", token, gin.H{"session_id": session.SessionID, "message": "Buongiorno"}), http.StatusOK)

	if ev := readEvent(t, stream); ev.name != string(realtime.SSEEventUserMessage) {
		t.Fatalf("second event: %+v", ev)
	}
	reply := readEvent(t, stream)
	if reply.name != string(realtime.SSEEventAssistantMessage) || !strings.Contains(reply.data, "I received your message: Buongiorno") {
		t.Fatalf("assistant event: %+v", reply)
	}

	history := decode[struct {
		Messages []*types.ChatMessage `json:"messages"`
	}](t, s.do(t, http.MethodGet, "/api/assistant/session/"+session.SessionID.String()+"/messages", token, nil))
	if len(history.Messages) != 2 || history.Messages[0].Sender != types.SenderUser {
		t.Fatalf("history: %+v", history.Messages)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/assistant/session/"+session.SessionID.String()+"/messages", other, nil), http.StatusNotFound)
}
