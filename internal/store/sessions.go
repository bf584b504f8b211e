package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const sessionColumns = "id, session_id, user_id, is_active, created_at, updated_at"

func scanSession(row interface{ Scan(...any) error }) (Session, error) {
	var (
		sess             Session
		userID           sql.NullString
		created, updated int64
	)
	if err := row.Scan(&sess.ID, &sess.SessionID, &userID, &sess.IsActive, &created, &updated); err != nil {
		return Session{}, err
	}
	if userID.Valid {
		sess.UserID = &userID.String
	}
	sess.CreatedAt = timeFromNanos(created)
	sess.UpdatedAt = timeFromNanos(updated)
	return sess, nil
}

// CreateSession inserts a new session with the given business token.
func (s *Store) CreateSession(ctx context.Context, sessionID string, userID *string) (Session, error) {
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, is_active, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
	`, sessionID, userID, ts, ts)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Session{}, fmt.Errorf("session insert id: %w", err)
	}
	return s.sessionByID(ctx, id)
}

func (s *Store) sessionByID(ctx context.Context, id int64) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	return sess, nil
}

// GetSessionByToken resolves a session by its business token. When
// activeOnly is set (the default for callers resolving interaction
// requests), deactivated sessions are treated as absent.
func (s *Store) GetSessionByToken(ctx context.Context, sessionID string, activeOnly bool) (Session, error) {
	q := "SELECT " + sessionColumns + " FROM sessions WHERE session_id = ?"
	if activeOnly {
		q += " AND is_active = 1"
	}
	row := s.db.QueryRowContext(ctx, q, sessionID)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	return sess, nil
}

// UpdateSession applies a partial update and returns the stored row.
func (s *Store) UpdateSession(ctx context.Context, id int64, patch SessionPatch) (Session, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}
	if patch.UserID != nil {
		sets = append(sets, "user_id = ?")
		args = append(args, *patch.UserID)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return Session{}, fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Session{}, fmt.Errorf("update session rows: %w", err)
	}
	if n == 0 {
		return Session{}, ErrNotFound
	}
	return s.sessionByID(ctx, id)
}

// ListSessions returns one page ordered by creation time descending,
// together with the total session count.
func (s *Store) ListSessions(ctx context.Context, limit, offset int) ([]Session, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	items := make([]Session, 0, limit)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		items = append(items, sess)
	}
	return items, total, rows.Err()
}
