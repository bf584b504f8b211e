package store

import (
	"context"
	"database/sql"
	"fmt"
)

const transcriptColumns = "id, session_id, user_query, assistant_response, audio_file_path, contains_wake_word, created_at, updated_at"

func scanTranscript(row interface{ Scan(...any) error }) (Transcript, error) {
	var (
		tr               Transcript
		response, path   sql.NullString
		created, updated int64
	)
	if err := row.Scan(&tr.ID, &tr.SessionID, &tr.UserQuery, &response, &path,
		&tr.ContainsWakeWord, &created, &updated); err != nil {
		return Transcript{}, err
	}
	if response.Valid {
		tr.AssistantResponse = &response.String
	}
	if path.Valid {
		tr.AudioFilePath = &path.String
	}
	tr.CreatedAt = timeFromNanos(created)
	tr.UpdatedAt = timeFromNanos(updated)
	return tr, nil
}

// CreateTranscript records a transcribed utterance for a session. The
// wake-word flag is fixed here and never updated afterwards.
func (s *Store) CreateTranscript(ctx context.Context, sessionID int64, userQuery string, containsWakeWord bool, audioFilePath *string) (Transcript, error) {
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transcripts (session_id, user_query, audio_file_path, contains_wake_word, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, userQuery, audioFilePath, containsWakeWord, ts, ts)
	if err != nil {
		return Transcript{}, fmt.Errorf("insert transcript: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Transcript{}, fmt.Errorf("transcript insert id: %w", err)
	}
	return s.transcriptByID(ctx, id)
}

func (s *Store) transcriptByID(ctx context.Context, id int64) (Transcript, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transcriptColumns+" FROM transcripts WHERE id = ?", id)
	tr, err := scanTranscript(row)
	if err == sql.ErrNoRows {
		return Transcript{}, ErrNotFound
	}
	if err != nil {
		return Transcript{}, fmt.Errorf("scan transcript: %w", err)
	}
	return tr, nil
}

// SetAssistantResponse attaches the assistant reply to an existing
// transcript record.
func (s *Store) SetAssistantResponse(ctx context.Context, id int64, response string) (Transcript, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transcripts SET assistant_response = ?, updated_at = ? WHERE id = ?
	`, response, now(), id)
	if err != nil {
		return Transcript{}, fmt.Errorf("update transcript: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Transcript{}, fmt.Errorf("update transcript rows: %w", err)
	}
	if n == 0 {
		return Transcript{}, ErrNotFound
	}
	return s.transcriptByID(ctx, id)
}

// ListTranscripts returns one page across all sessions ordered by
// creation time descending, together with the total transcript count.
func (s *Store) ListTranscripts(ctx context.Context, limit, offset int) ([]Transcript, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcripts").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transcripts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transcriptColumns+` FROM transcripts
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	items := make([]Transcript, 0, limit)
	for rows.Next() {
		tr, err := scanTranscript(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transcript: %w", err)
		}
		items = append(items, tr)
	}
	return items, total, rows.Err()
}

// TranscriptsForSession returns the most recent transcripts for one
// session, capped at limit.
func (s *Store) TranscriptsForSession(ctx context.Context, sessionID int64, limit int) ([]Transcript, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transcriptColumns+` FROM transcripts
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query session transcripts: %w", err)
	}
	defer rows.Close()

	var items []Transcript
	for rows.Next() {
		tr, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		items = append(items, tr)
	}
	return items, rows.Err()
}
