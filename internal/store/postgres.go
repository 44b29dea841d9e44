package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// PostgresStore persists resumes, versions, and conversations in PostgreSQL.
// Section lists, message history, and context maps are stored as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			filename TEXT NOT NULL DEFAULT '',
			raw_text TEXT NOT NULL DEFAULT '',
			sections JSONB NOT NULL DEFAULT '[]',
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS resume_versions (
			id UUID PRIMARY KEY,
			resume_id UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			version_number INT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			sections JSONB NOT NULL DEFAULT '[]',
			changes_description TEXT NOT NULL DEFAULT '',
			agent_used TEXT NOT NULL DEFAULT '',
			parent_version_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (resume_id, version_number)
		);
		CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			resume_id TEXT NOT NULL DEFAULT '',
			messages JSONB NOT NULL DEFAULT '[]',
			context JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateResume inserts a new resume record.
func (s *PostgresStore) CreateResume(ctx context.Context, resume *types.Resume) error {
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = now
	}
	resume.UpdatedAt = now

	sections, err := json.Marshal(resume.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	metadata, err := json.Marshal(orEmptyMap(resume.Metadata))
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, filename, raw_text, sections, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		resume.ID, resume.UserID, resume.Filename, resume.RawText, sections, metadata,
		resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume by id, or (nil, nil) when absent.
func (s *PostgresStore) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	var (
		resume   types.Resume
		sections []byte
		metadata []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, filename, raw_text, sections, metadata, created_at, updated_at
		 FROM resumes WHERE id = $1`, id,
	).Scan(&resume.ID, &resume.UserID, &resume.Filename, &resume.RawText,
		&sections, &metadata, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := json.Unmarshal(sections, &resume.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	if err := json.Unmarshal(metadata, &resume.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &resume, nil
}

// UpdateResume replaces the mutable fields of a resume.
func (s *PostgresStore) UpdateResume(ctx context.Context, resume *types.Resume) error {
	resume.UpdatedAt = time.Now().UTC()

	sections, err := json.Marshal(resume.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	metadata, err := json.Marshal(orEmptyMap(resume.Metadata))
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE resumes SET filename = $1, raw_text = $2, sections = $3, metadata = $4, updated_at = $5
		 WHERE id = $6`,
		resume.Filename, resume.RawText, sections, metadata, resume.UpdatedAt, resume.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	return nil
}

// CreateVersion inserts a version with the next number for its resume. The
// number is assigned inside a transaction so concurrent saves cannot collide.
func (s *PostgresStore) CreateVersion(ctx context.Context, version *types.ResumeVersion) error {
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	sections, err := json.Marshal(version.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM resume_versions WHERE resume_id = $1`,
		version.ResumeID,
	).Scan(&version.VersionNumber)
	if err != nil {
		return fmt.Errorf("failed to assign version number: %w", err)
	}

	var parent any
	if version.ParentVersionID != "" {
		parent = version.ParentVersionID
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO resume_versions
		 (id, resume_id, version_number, content, sections, changes_description, agent_used, parent_version_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		version.ID, version.ResumeID, version.VersionNumber, version.Content, sections,
		version.ChangesDescription, version.AgentUsed, parent, version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit version: %w", err)
	}
	return nil
}

// GetVersion retrieves one version by resume id and number.
func (s *PostgresStore) GetVersion(ctx context.Context, resumeID string, number int) (*types.ResumeVersion, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, resume_id, version_number, content, sections, changes_description, agent_used,
		        COALESCE(parent_version_id::text, ''), created_at
		 FROM resume_versions WHERE resume_id = $1 AND version_number = $2`,
		resumeID, number,
	)

	version, err := scanVersion(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// ListVersions retrieves all versions for a resume, oldest first.
func (s *PostgresStore) ListVersions(ctx context.Context, resumeID string) ([]types.ResumeVersion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, resume_id, version_number, content, sections, changes_description, agent_used,
		        COALESCE(parent_version_id::text, ''), created_at
		 FROM resume_versions WHERE resume_id = $1 ORDER BY version_number ASC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []types.ResumeVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *version)
	}
	return versions, nil
}

// GetConversation retrieves a conversation by id, or (nil, nil) when absent.
func (s *PostgresStore) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	var (
		conv     types.Conversation
		messages []byte
		convCtx  []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, resume_id, messages, context, created_at, updated_at
		 FROM conversations WHERE id = $1`, id,
	).Scan(&conv.ID, &conv.UserID, &conv.ResumeID, &messages, &convCtx, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if err := json.Unmarshal(messages, &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	if err := json.Unmarshal(convCtx, &conv.Context); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}
	return &conv, nil
}

// SaveConversation upserts a conversation record.
func (s *PostgresStore) SaveConversation(ctx context.Context, conv *types.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	messages, err := json.Marshal(orEmptyMessages(conv.Messages))
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	convCtx, err := json.Marshal(orEmptyMap(conv.Context))
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO conversations (id, user_id, resume_id, messages, context, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   resume_id = $3, messages = $4, context = $5, updated_at = $7`,
		conv.ID, conv.UserID, conv.ResumeID, messages, convCtx, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func scanVersion(row pgx.Row) (*types.ResumeVersion, error) {
	var (
		version  types.ResumeVersion
		sections []byte
	)
	err := row.Scan(&version.ID, &version.ResumeID, &version.VersionNumber, &version.Content,
		&sections, &version.ChangesDescription, &version.AgentUsed,
		&version.ParentVersionID, &version.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &version.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	return &version, nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyMessages(m []types.Message) []types.Message {
	if m == nil {
		return []types.Message{}
	}
	return m
}
