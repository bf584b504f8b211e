package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestSessions_CreateAndGetByToken(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "tok-1", strPtr("user-9"))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if !sess.IsActive {
		t.Fatalf("expected new session active")
	}
	if sess.CreatedAt.IsZero() || sess.UpdatedAt.IsZero() {
		t.Fatalf("expected assigned timestamps")
	}

	got, err := s.GetSessionByToken(ctx, "tok-1", true)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.ID != sess.ID || got.UserID == nil || *got.UserID != "user-9" {
		t.Fatalf("unexpected session: %+v", got)
	}

	if _, err := s.GetSessionByToken(ctx, "missing", true); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessions_TokenUnique(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.CreateSession(ctx, "tok-dup", nil); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := s.CreateSession(ctx, "tok-dup", nil); err == nil {
		t.Fatalf("expected unique constraint error on duplicate token")
	}
}

func TestSessions_ActiveOnlyFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sess, err := s.CreateSession(ctx, "tok-2", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := s.UpdateSession(ctx, sess.ID, SessionPatch{IsActive: boolPtr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.GetSessionByToken(ctx, "tok-2", true); err != ErrNotFound {
		t.Fatalf("expected inactive session filtered, got %v", err)
	}
	got, err := s.GetSessionByToken(ctx, "tok-2", false)
	if err != nil {
		t.Fatalf("expected override to find inactive session: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected inactive session")
	}
}

func TestSessions_PartialUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sess, err := s.CreateSession(ctx, "tok-3", strPtr("before"))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	got, err := s.UpdateSession(ctx, sess.ID, SessionPatch{UserID: strPtr("after")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.UserID == nil || *got.UserID != "after" {
		t.Fatalf("expected user id updated, got %+v", got.UserID)
	}
	if !got.IsActive {
		t.Fatalf("expected untouched active flag")
	}
	if _, err := s.UpdateSession(ctx, 9999, SessionPatch{UserID: strPtr("x")}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestSessions_PaginationOrderAndTotal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, tok := range []string{"a", "b", "c", "d", "e"} {
		if _, err := s.CreateSession(ctx, tok, nil); err != nil {
			t.Fatalf("create session %s: %v", tok, err)
		}
	}
	items, total, err := s.ListSessions(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Most recently created first.
	if items[0].SessionID != "e" || items[1].SessionID != "d" {
		t.Fatalf("expected descending creation order, got %s, %s", items[0].SessionID, items[1].SessionID)
	}

	items, _, err = s.ListSessions(ctx, 10, 4)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(items) != 1 || items[0].SessionID != "a" {
		t.Fatalf("expected last page to hold oldest session, got %+v", items)
	}
}

func TestTranscripts_CreateThenAttachResponse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sess, err := s.CreateSession(ctx, "tok-4", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	tr, err := s.CreateTranscript(ctx, sess.ID, "hey ceddy what club", true, nil)
	if err != nil {
		t.Fatalf("create transcript: %v", err)
	}
	if tr.AssistantResponse != nil {
		t.Fatalf("expected nil assistant response at creation")
	}
	if !tr.ContainsWakeWord {
		t.Fatalf("expected wake flag persisted")
	}

	updated, err := s.SetAssistantResponse(ctx, tr.ID, "Try a 7 iron.")
	if err != nil {
		t.Fatalf("set response: %v", err)
	}
	if updated.ID != tr.ID {
		t.Fatalf("expected same record identity, got %d vs %d", updated.ID, tr.ID)
	}
	if updated.AssistantResponse == nil || *updated.AssistantResponse != "Try a 7 iron." {
		t.Fatalf("expected response attached, got %+v", updated.AssistantResponse)
	}
	if updated.UserQuery != tr.UserQuery || updated.ContainsWakeWord != tr.ContainsWakeWord {
		t.Fatalf("expected immutable fields unchanged")
	}

	if _, err := s.SetAssistantResponse(ctx, 12345, "x"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown transcript, got %v", err)
	}
}

func TestTranscripts_ListAndSessionFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s1, _ := s.CreateSession(ctx, "tok-5", nil)
	s2, _ := s.CreateSession(ctx, "tok-6", nil)
	for i := 0; i < 3; i++ {
		if _, err := s.CreateTranscript(ctx, s1.ID, "q1", false, nil); err != nil {
			t.Fatalf("create transcript: %v", err)
		}
	}
	if _, err := s.CreateTranscript(ctx, s2.ID, "q2", true, strPtr("turns/x.wav")); err != nil {
		t.Fatalf("create transcript: %v", err)
	}

	items, total, err := s.ListTranscripts(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list transcripts: %v", err)
	}
	if total != 4 || len(items) != 4 {
		t.Fatalf("expected 4 transcripts, got total=%d len=%d", total, len(items))
	}

	forS1, err := s.TranscriptsForSession(ctx, s1.ID, 2)
	if err != nil {
		t.Fatalf("session transcripts: %v", err)
	}
	if len(forS1) != 2 {
		t.Fatalf("expected cap at 2, got %d", len(forS1))
	}
	for _, tr := range forS1 {
		if tr.SessionID != s1.ID {
			t.Fatalf("expected only session %d transcripts, got %d", s1.ID, tr.SessionID)
		}
	}

	forS2, err := s.TranscriptsForSession(ctx, s2.ID, 10)
	if err != nil {
		t.Fatalf("session transcripts: %v", err)
	}
	if len(forS2) != 1 || forS2[0].AudioFilePath == nil || *forS2[0].AudioFilePath != "turns/x.wav" {
		t.Fatalf("expected stored audio path, got %+v", forS2)
	}
}
