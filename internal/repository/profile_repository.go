package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"referral-finder/internal/database"
	"referral-finder/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Record, error) {
	if r == nil || r.db == nil {
		return profile.Record{}, fmt.Errorf("nil db")
	}

	var (
		raw       []byte
		completed bool
	)
	row := r.db.QueryRow(ctx, `SELECT profile, profile_completed FROM user_profiles WHERE user_id = $1`, userID)
	if err := row.Scan(&raw, &completed); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.Record{}, profile.ErrNotFound
		}
		return profile.Record{}, err
	}

	rec := profile.Record{UserID: userID, Completed: completed}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Profile); err != nil {
			return profile.Record{}, fmt.Errorf("decode profile: %w", err)
		}
	}
	return rec, nil
}
