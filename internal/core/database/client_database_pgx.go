package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cybermozhi/cybermozhi-server/internal/config"
	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// nullableTime maps the zero time to NULL so COALESCE defaults apply.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, display_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.DisplayName, user.Email, user.PasswordHash,
		nullableTime(user.CreatedAt), nullableTime(user.UpdatedAt))
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, display_name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.DisplayName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const q = `
		SELECT id, display_name, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.DisplayName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Profiles

func (c *DatabaseClient) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return errors.New("nil profile")
	}
	const q = `
		INSERT INTO profiles
			(user_id, display_name, age, gender, marital_status, country, state, city, preferred_language, contact, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			marital_status = EXCLUDED.marital_status,
			country = EXCLUDED.country,
			state = EXCLUDED.state,
			city = EXCLUDED.city,
			preferred_language = EXCLUDED.preferred_language,
			contact = EXCLUDED.contact,
			updated_at = now()
	`
	_, err := c.db.ExecContext(ctx, q,
		p.UserID, p.DisplayName, p.Age, p.Gender, p.MaritalStatus,
		p.Country, p.State, p.City, p.PreferredLanguage, p.Contact)
	return err
}

func (c *DatabaseClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	const q = `
		SELECT user_id, display_name, age, gender, marital_status, country, state, city, preferred_language, contact, updated_at
		FROM profiles WHERE user_id = $1
	`
	var p models.Profile
	err := c.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &p.DisplayName, &p.Age, &p.Gender, &p.MaritalStatus,
		&p.Country, &p.State, &p.City, &p.PreferredLanguage, &p.Contact, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Chat sessions

func (c *DatabaseClient) CreateChatSession(ctx context.Context, s *models.ChatSession) error {
	if s == nil {
		return errors.New("nil chat session")
	}
	const q = `
		INSERT INTO chat_sessions (id, user_id, title, created_at, last_message_at)
		VALUES ($1, $2, $3, COALESCE($4, now()), COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q, s.ID, s.UserID, s.Title,
		nullableTime(s.CreatedAt), nullableTime(s.LastMessageAt))
	return err
}

func (c *DatabaseClient) GetChatSession(ctx context.Context, id string) (*models.ChatSession, error) {
	const q = `
		SELECT id, user_id, title, created_at, last_message_at
		FROM chat_sessions WHERE id = $1
	`
	var s models.ChatSession
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.LastMessageAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *DatabaseClient) ListChatSessions(ctx context.Context, userID string) ([]models.ChatSession, error) {
	const q = `
		SELECT id, user_id, title, created_at, last_message_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY last_message_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatSession
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.LastMessageAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) TouchChatSession(ctx context.Context, id string) error {
	const q = `
		UPDATE chat_sessions SET last_message_at = now() WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("chat session not found: %s", id)
	}
	return nil
}

func (c *DatabaseClient) DeleteChatSession(ctx context.Context, id string) error {
	const q = `
		DELETE FROM chat_sessions WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("chat session not found: %s", id)
	}
	return nil
}

// Chat messages (append-only)

func (c *DatabaseClient) AppendChatMessage(ctx context.Context, m *models.ChatMessage) error {
	if m == nil {
		return errors.New("nil chat message")
	}
	const q = `
		INSERT INTO chat_messages (id, session_id, role, text, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q, m.ID, m.SessionID, m.Role, m.Text, nullableTime(m.CreatedAt))
	return err
}

// ListChatMessages returns the most recent limit messages of the session in
// chronological (oldest-first) order. limit <= 0 means all messages.
func (c *DatabaseClient) ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	q := `
		SELECT id, session_id, role, text, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	args := []any{sessionID}
	if limit > 0 {
		q = `
			SELECT id, session_id, role, text, created_at FROM (
				SELECT id, session_id, role, text, created_at
				FROM chat_messages
				WHERE session_id = $1
				ORDER BY created_at DESC
				LIMIT $2
			) recent
			ORDER BY created_at ASC
		`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Legal drafts

func (c *DatabaseClient) CreateLegalDraft(ctx context.Context, d *models.LegalDraft) error {
	if d == nil {
		return errors.New("nil legal draft")
	}
	const q = `
		INSERT INTO legal_drafts (id, user_id, document_type, content, storage_url, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q, d.ID, d.UserID, d.DocumentType, d.Content, d.StorageURL, nullableTime(d.CreatedAt))
	return err
}

func (c *DatabaseClient) ListLegalDrafts(ctx context.Context, userID string) ([]models.LegalDraft, error) {
	const q = `
		SELECT id, user_id, document_type, content, storage_url, created_at
		FROM legal_drafts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LegalDraft
	for rows.Next() {
		var d models.LegalDraft
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.Content, &d.StorageURL, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Law chunks (pgvector)

func (c *DatabaseClient) CountLawChunks(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM law_chunks`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// InsertLawChunks inserts chunks in a single transaction.
func (c *DatabaseClient) InsertLawChunks(ctx context.Context, chunks []models.LawChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO law_chunks (id, law_id, title, section, text, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.LawID, ch.Title, ch.Section, ch.Text,
			pgvector.NewVector(ch.Embedding), nullableTime(ch.CreatedAt),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert law chunk %s: %w", ch.ID, err)
		}
	}
	return tx.Commit()
}

// SearchLawChunks finds the top-k law summaries nearest to a query embedding.
func (c *DatabaseClient) SearchLawChunks(ctx context.Context, queryVec []float32, limit int) ([]models.LawChunk, error) {
	const q = `
		SELECT id, law_id, title, section, text, embedding
		FROM law_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LawChunk
	for rows.Next() {
		var (
			ch  models.LawChunk
			emb pgvector.Vector
		)
		if err := rows.Scan(&ch.ID, &ch.LawID, &ch.Title, &ch.Section, &ch.Text, &emb); err != nil {
			return nil, err
		}
		ch.Embedding = emb.Slice()
		out = append(out, ch)
	}
	return out, rows.Err()
}

var _ core.DbClient = (*DatabaseClient)(nil)
