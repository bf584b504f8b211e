// Package store persists sessions and transcripts in SQLite.
package store

import "time"

// Session is one conversational context. SessionID is the externally
// visible token; ID is the store-assigned identity.
type Session struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    *string   `json:"user_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transcript is one recorded user utterance and its optional assistant
// reply. ContainsWakeWord is fixed at creation and never recomputed.
type Transcript struct {
	ID                int64     `json:"id"`
	SessionID         int64     `json:"session_id"`
	UserQuery         string    `json:"user_query"`
	AssistantResponse *string   `json:"assistant_response"`
	AudioFilePath     *string   `json:"audio_file_path"`
	ContainsWakeWord  bool      `json:"contains_wake_word"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SessionPatch carries the mutable session fields for partial updates.
// Nil fields are left untouched.
type SessionPatch struct {
	UserID   *string
	IsActive *bool
}
