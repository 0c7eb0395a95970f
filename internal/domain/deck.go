package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxDeckNameLength is the longest deck name accepted, in characters.
const MaxDeckNameLength = 255

var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckUserIDEmpty is returned when a deck has no owner.
	ErrDeckUserIDEmpty = errors.New("deck user ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck name is blank.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckNameTooLong is returned when a deck name exceeds MaxDeckNameLength.
	ErrDeckNameTooLong = errors.New("deck name is too long")
)

// Deck groups cards and belongs to exactly one user.
type Deck struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	LastStudiedAt *time.Time `json:"last_studied_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewDeck creates a new Deck owned by userID.
func NewDeck(userID uuid.UUID, name, description string, now time.Time) (*Deck, error) {
	now = now.UTC()
	deck := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrDeckIDEmpty)
	}
	if d.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrDeckUserIDEmpty)
	}
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "cannot be empty", ErrDeckNameEmpty)
	}
	if utf8.RuneCountInString(d.Name) > MaxDeckNameLength {
		return NewValidationError("name", "is too long", ErrDeckNameTooLong)
	}
	return nil
}

// IsOwnedBy reports whether the deck belongs to userID.
func (d *Deck) IsOwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}
