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

// RegistryStore implements storage.RegistryStore for PostgreSQL.
type RegistryStore struct {
	db *pgxpool.Pool
}

// Upsert inserts or replaces the row for rec.DID.
func (r *RegistryStore) Upsert(ctx context.Context, rec *storage.RegistryRecord) error {
	query := `
		INSERT INTO registrations (did, endpoint, registered_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (did) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
		    registered_at = EXCLUDED.registered_at,
		    expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.Exec(ctx, query, rec.DID, rec.Endpoint, rec.RegisteredAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert registration: %w", err)
	}
	return nil
}

// Get retrieves the row for did, expired or not.
func (r *RegistryStore) Get(ctx context.Context, did string) (*storage.RegistryRecord, error) {
	query := `
		SELECT did, endpoint, registered_at, expires_at
		FROM registrations
		WHERE did = $1
	`

	var rec storage.RegistryRecord
	err := r.db.QueryRow(ctx, query, did).Scan(&rec.DID, &rec.Endpoint, &rec.RegisteredAt, &rec.ExpiresAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &rec, nil
}

// Delete removes did's row, reporting whether one existed.
func (r *RegistryStore) Delete(ctx context.Context, did string) (bool, error) {
	query := `DELETE FROM registrations WHERE did = $1`

	result, err := r.db.Exec(ctx, query, did)
	if err != nil {
		return false, fmt.Errorf("failed to delete registration: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteExpired deletes all rows whose TTL has elapsed.
func (r *RegistryStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM registrations WHERE expires_at <= NOW()`

	result, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired registrations: %w", err)
	}
	return result.RowsAffected(), nil
}

// Count returns the total number of rows stored.
func (r *RegistryStore) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM registrations`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
