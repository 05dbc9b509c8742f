package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

const resumeColumns = `id, user_id, title, personal_info, experience, education, skills,
	projects, certifications, achievements, template, is_public, created_at, updated_at`

// resumeSections holds the JSONB encodings of a resume's sections
type resumeSections struct {
	personalInfo, experience, education, skills, projects, certifications, achievements []byte
}

func encodeSections(r *types.Resume) (*resumeSections, error) {
	var s resumeSections
	fields := []struct {
		dst *[]byte
		src any
	}{
		{&s.personalInfo, r.PersonalInfo},
		{&s.experience, r.Experience},
		{&s.education, r.Education},
		{&s.skills, r.Skills},
		{&s.projects, r.Projects},
		{&s.certifications, r.Certifications},
		{&s.achievements, r.Achievements},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.src)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal resume section: %w", err)
		}
		*f.dst = b
	}
	return &s, nil
}

func (s *resumeSections) decode(r *types.Resume) error {
	fields := []struct {
		src []byte
		dst any
	}{
		{s.personalInfo, &r.PersonalInfo},
		{s.experience, &r.Experience},
		{s.education, &r.Education},
		{s.skills, &r.Skills},
		{s.projects, &r.Projects},
		{s.certifications, &r.Certifications},
		{s.achievements, &r.Achievements},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return fmt.Errorf("failed to unmarshal resume section: %w", err)
		}
	}
	return nil
}

// scanResume reads one row selected with resumeColumns
func scanResume(row pgx.Row) (*types.Resume, error) {
	var r types.Resume
	var s resumeSections
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &s.personalInfo, &s.experience, &s.education,
		&s.skills, &s.projects, &s.certifications, &s.achievements, &r.Template, &r.IsPublic,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.decode(&r); err != nil {
		return nil, err
	}
	r.Normalize()
	return &r, nil
}

// CreateResume inserts a resume and returns the stored record.
// An unknown user returns *NotFoundError.
func (db *DB) CreateResume(ctx context.Context, r *types.Resume) (*types.Resume, error) {
	r.Normalize()
	s, err := encodeSections(r)
	if err != nil {
		return nil, err
	}

	created, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, personal_info, experience, education, skills,
		                      projects, certifications, achievements, template, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+resumeColumns,
		r.UserID, r.Title, s.personalInfo, s.experience, s.education, s.skills,
		s.projects, s.certifications, s.achievements, r.Template, r.IsPublic,
	))
	if err != nil {
		if code, _ := pgCode(err); code == foreignKeyViolation {
			return nil, &NotFoundError{Entity: "user", ID: r.UserID.String()}
		}
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return created, nil
}

// GetResume retrieves a resume by ID. Returns nil, nil when missing.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumesByUser returns a user's resumes, most recently updated first
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// UpdateResume applies a partial update and bumps updated_at.
// The read and write share a transaction so concurrent patches do not interleave.
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, patch *types.ResumePatch) (*types.Resume, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanResume(tx.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "resume", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to load resume for update: %w", err)
	}

	patch.Apply(current)
	s, err := encodeSections(current)
	if err != nil {
		return nil, err
	}

	updated, err := scanResume(tx.QueryRow(ctx,
		`UPDATE resumes SET title = $2, personal_info = $3, experience = $4, education = $5,
		        skills = $6, projects = $7, certifications = $8, achievements = $9,
		        template = $10, is_public = $11, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, current.Title, s.personalInfo, s.experience, s.education, s.skills,
		s.projects, s.certifications, s.achievements, current.Template, current.IsPublic,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resume update: %w", err)
	}
	return updated, nil
}

// DeleteResume removes a resume. A missing resume returns *NotFoundError.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "resume", ID: id.String()}
	}
	return nil
}
