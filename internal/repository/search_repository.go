package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"referral-finder/internal/database"
	"referral-finder/internal/domain/referral"
)

type SearchRepository interface {
	Save(ctx context.Context, rec referral.SearchRecord) error
}

type PostgresSearchRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresSearchRepository(db database.DB) *PostgresSearchRepository {
	return &PostgresSearchRepository{db: db, now: time.Now}
}

func (r *PostgresSearchRepository) Save(ctx context.Context, rec referral.SearchRecord) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}

	matches := rec.Matches
	if matches == nil {
		matches = []referral.Match{}
	}
	matchesJSON, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	sources := rec.Sources
	if sources == nil {
		sources = []string{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO job_searches (
			id, requester_id, job_title, company, job_description, job_url,
			extraction_method, matches, sources, used_fallback, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11)`,
		rec.ID,
		rec.RequesterID,
		rec.Job.Title,
		rec.Job.Company,
		rec.Job.Description,
		nullableText(rec.Job.SourceURL),
		nullableText(string(rec.Job.ExtractionMethod)),
		string(matchesJSON),
		string(sourcesJSON),
		rec.UsedFallback,
		createdAt,
	)
	return err
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
