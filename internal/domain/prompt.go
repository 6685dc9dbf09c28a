package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of AI backoffice entity an event refers to.
type EntityType string

const (
	EntityPrompt     EntityType = "prompt"
	EntityConnection EntityType = "connection"
	EntityProfile    EntityType = "profile"
	EntityAgent      EntityType = "agent"
)

func (e EntityType) IsValid() bool {
	switch e {
	case EntityPrompt, EntityConnection, EntityProfile, EntityAgent:
		return true
	}
	return false
}

// Prompt is a reusable AI prompt authored in the backoffice.
type Prompt struct {
	ID        string    `json:"id"`
	Alias     string    `json:"alias"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	ProfileID *string   `json:"profile_id,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var aliasPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,254}$`)

const maxPromptContent = 65536

// SavePromptRequest is the inbound payload for creating or updating a prompt.
// Prompts are keyed by alias: saving an existing alias updates it.
type SavePromptRequest struct {
	Alias     string   `json:"alias"`
	Name      string   `json:"name"`
	Content   string   `json:"content"`
	ProfileID *string  `json:"profile_id,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

func (r *SavePromptRequest) Validate() error {
	if !aliasPattern.MatchString(r.Alias) {
		return ErrInvalidAlias
	}
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Content == "" || len(r.Content) > maxPromptContent {
		return ErrInvalidContent
	}
	if r.ProfileID != nil && uuid.Validate(*r.ProfileID) != nil {
		return ErrInvalidProfile
	}
	return nil
}

// PromptFilter holds query parameters for paginated prompt listing.
type PromptFilter struct {
	Tag   *string
	Page  int
	Limit int
}
