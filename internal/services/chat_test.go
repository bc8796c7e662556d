package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (r *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingEmitter) events() []realtime.SSEMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]realtime.SSEMessage(nil), r.msgs...)
}

type failingAssistant struct{}

func (failingAssistant) Reply(ctx context.Context, sessionID uuid.UUID, history []*types.ChatMessage) (string, error) {
	return "", errors.New("model offline")
}

func TestChatSendStoresAndPublishes(t *testing.T) {
	e := newTestEnv(t)
	emitter := &recordingEmitter{}
	svc := NewChatService(e.db, e.log, e.sessions, e.messages, NewEchoAssistant(), NewChatNotifier(emitter))
	u := e.seedUser(t)
	dbc := e.as(u)

	session, msgs, err := svc.StartSession(dbc, uuid.New())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.ID == uuid.Nil || len(msgs) != 0 || !session.Active {
		t.Fatalf("StartSession: session=%+v msgs=%d", session, len(msgs))
	}

	reply, err := svc.Send(dbc, session.ID, "Hola")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Sender != types.SenderAssistant || reply.Content != "I received your message: Hola" {
		t.Fatalf("Send reply: %+v", reply)
	}
	if _, err := svc.Send(dbc, session.ID, "Adios"); err != nil {
		t.Fatalf("Send (second): %v", err)
	}

	history, err := svc.Messages(dbc, session.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	wantSenders := []string{types.SenderUser, types.SenderAssistant, types.SenderUser, types.SenderAssistant}
	if len(history) != len(wantSenders) {
		t.Fatalf("Messages: want %d got %d", len(wantSenders), len(history))
	}
	for i, m := range history {
		if m.Sender != wantSenders[i] {
			t.Fatalf("Messages[%d]: want sender %s got %s", i, wantSenders[i], m.Sender)
		}
	}
	if history[3].Content != "I received your message: Adios" {
		t.Fatalf("Messages[3]: %q", history[3].Content)
	}

	events := emitter.events()
	if len(events) != 4 {
		t.Fatalf("events: want 4 got %d", len(events))
	}
	for _, ev := range events {
		if ev.Channel != session.ID.String() {
			t.Fatalf("event channel: want %s got %s", session.ID, ev.Channel)
		}
	}
	if events[1].Event != realtime.SSEEventAssistantMessage || events[0].Event != realtime.SSEEventUserMessage {
		t.Fatalf("event kinds: %v, %v", events[0].Event, events[1].Event)
	}
}

func TestChatRejects(t *testing.T) {
	e := newTestEnv(t)
	emitter := &recordingEmitter{}
	svc := NewChatService(e.db, e.log, e.sessions, e.messages, NewEchoAssistant(), NewChatNotifier(emitter))
	owner := e.seedUser(t)
	stranger := e.seedUser(t)

	session, _, err := svc.StartSession(e.as(owner), uuid.New())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	tests := []struct {
		name      string
		user      *types.User
		sessionID uuid.UUID
		text      string
		status    int
	}{
		{name: "missing text", user: owner, sessionID: session.ID, text: "", status: 400},
		{name: "missing session", user: owner, sessionID: uuid.Nil, text: "hi", status: 400},
		{name: "unknown session", user: owner, sessionID: uuid.New(), text: "hi", status: 404},
		{name: "someone else's session", user: stranger, sessionID: session.ID, text: "hi", status: 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Send(e.as(tt.user), tt.sessionID, tt.text); apierr.StatusOf(err) != tt.status {
				t.Fatalf("Send: want %d got=%v", tt.status, err)
			}
		})
	}
	if _, err := svc.Messages(e.as(stranger), session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Messages (stranger): want ErrSessionNotFound got=%v", err)
	}
	if len(emitter.events()) != 0 {
		t.Fatalf("rejected sends must not publish")
	}

	broken := NewChatService(e.db, e.log, e.sessions, e.messages, failingAssistant{}, NewChatNotifier(emitter))
	if _, err := broken.Send(e.as(owner), session.ID, "hi"); err == nil || apierr.StatusOf(err) != 500 {
		t.Fatalf("Send (assistant down): want 500 got=%v", err)
	}
}

func TestChatSessionCourseIsOptional(t *testing.T) {
	e := newTestEnv(t)
	svc := NewChatService(e.db, e.log, e.sessions, e.messages, NewEchoAssistant(), NewChatNotifier(&recordingEmitter{}))
	u := e.seedUser(t)
	courseID := uuid.New()

	tests := []struct {
		name     string
		courseID uuid.UUID
		want     *uuid.UUID
	}{
		{name: "no course", courseID: uuid.Nil},
		{name: "with course", courseID: courseID, want: &courseID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, msgs, err := svc.StartSession(e.as(u), tt.courseID)
			if err != nil {
				t.Fatalf("StartSession: %v", err)
			}
			if len(msgs) != 0 {
				t.Fatalf("new session has %d messages", len(msgs))
			}
			stored, err := svc.AuthorizeSession(e.as(u), session.ID)
			if err != nil {
				t.Fatalf("AuthorizeSession: %v", err)
			}
			switch {
			case tt.want == nil && stored.CourseID != nil:
				t.Fatalf("course: want nil got=%v", *stored.CourseID)
			case tt.want != nil && (stored.CourseID == nil || *stored.CourseID != *tt.want):
				t.Fatalf("course: want %v got=%v", *tt.want, stored.CourseID)
			}
			reply, err := svc.Send(e.as(u), session.ID, "hola")
			if err != nil || reply.Content != "I received your message: hola" {
				t.Fatalf("Send: reply=%+v err=%v", reply, err)
			}
		})
	}
}

func TestEchoAssistantRepliesToLatestUserMessage(t *testing.T) {
	history := []*types.ChatMessage{
		{Sender: types.SenderUser, Content: "first"},
		{Sender: types.SenderAssistant, Content: "I received your message: first"},
		{Sender: types.SenderUser, Content: "second"},
	}
	got, err := NewEchoAssistant().Reply(context.Background(), uuid.New(), history)
	if err != nil || got != "I received your message: second" {
		t.Fatalf("Reply: got=%q err=%v", got, err)
	}
	if _, err := NewEchoAssistant().Reply(context.Background(), uuid.New(), nil); err == nil {
		t.Fatalf("Reply: expected error for empty history")
	}
}
