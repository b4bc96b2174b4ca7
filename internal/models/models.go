package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile holds the optional personalization details a user may fill in.
// Every field is optional; empty string / nil means "not provided".
type Profile struct {
	UserID            string    `db:"user_id" json:"user_id"`
	DisplayName       string    `db:"display_name" json:"display_name,omitempty"`
	Age               *int      `db:"age" json:"age,omitempty"`
	Gender            string    `db:"gender" json:"gender,omitempty"`
	MaritalStatus     string    `db:"marital_status" json:"marital_status,omitempty"`
	Country           string    `db:"country" json:"country,omitempty"`
	State             string    `db:"state" json:"state,omitempty"`
	City              string    `db:"city" json:"city,omitempty"`
	PreferredLanguage string    `db:"preferred_language" json:"preferred_language,omitempty"`
	Contact           string    `db:"contact" json:"contact,omitempty"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Incomplete reports whether the profile is missing all of the fields the
// assistant uses for tailored legal guidance: state, marital status and age.
// An incomplete profile triggers a gentle completion nudge in chat answers,
// never a hard failure.
func (p *Profile) Incomplete() bool {
	if p == nil {
		return true
	}
	return p.State == "" && p.MaritalStatus == "" && p.Age == nil
}

// Message roles. Exactly two variants; within a session messages alternate
// strictly, always starting with RoleUser.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatSession represents one named conversation owned by a user.
// Sessions are created lazily on the first message of a new conversation and
// are never created empty.
type ChatSession struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Title         string    `db:"title" json:"title"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
}

// ChatMessage is one half of a turn inside a session. Append-only.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Role      string    `db:"role" json:"role"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatTurn is the provider-agnostic shape for a prior turn supplied by a
// client (guest conversations) or rebuilt from the store.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// LegalDraft is a generated legal document kept for the user's records.
type LegalDraft struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	DocumentType string    `db:"document_type" json:"document_type"`
	Content      string    `db:"content" json:"content"`
	StorageURL   string    `db:"storage_url" json:"storage_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// LawChunk is one embedded law summary used to ground chat answers.
type LawChunk struct {
	ID        string    `db:"id" json:"id"`
	LawID     string    `db:"law_id" json:"law_id"`
	Title     string    `db:"title" json:"title"`
	Section   string    `db:"section" json:"section"`
	Text      string    `db:"text" json:"text"`
	Embedding []float32 `db:"embedding" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
