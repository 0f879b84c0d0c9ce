// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentreg/didreg/pkg/storage"
)

// SessionStore implements storage.SessionStore for PostgreSQL.
type SessionStore struct {
	db *pgxpool.Pool
}

// Create inserts a new session row.
func (s *SessionStore) Create(ctx context.Context, rec *storage.SessionRecord) error {
	query := `
		INSERT INTO sessions (id, did, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, query, rec.ID, rec.DID, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by id, expired or not.
func (s *SessionStore) Get(ctx context.Context, id string) (*storage.SessionRecord, error) {
	query := `
		SELECT id, did, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`

	var rec storage.SessionRecord
	err := s.db.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.DID, &rec.CreatedAt, &rec.ExpiresAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &rec, nil
}

// Delete removes a session by id, reporting whether one existed.
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM sessions WHERE id = $1`

	result, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteExpired deletes all expired sessions.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= NOW()`

	result, err := s.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

// Count returns the total number of stored sessions.
func (s *SessionStore) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM sessions`

	var count int64
	if err := s.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
