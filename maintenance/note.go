package maintenance

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Role identifies which side of a tenancy an actor is on.
type Role string

// Actor roles.
const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleLandlord
}

// maxNoteLength caps note content in characters.
const maxNoteLength = 10000

// Note is an immutable comment on a request.
type Note struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	UserRole  Role      `json:"user_role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Seq is the store's insertion order, used to break CreatedAt ties.
	Seq int64 `json:"-"`
}

// ValidateNoteContent rejects empty, whitespace-only and oversized content.
func ValidateNoteContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return Invalid("content", "must not be empty")
	}

	if utf8.RuneCountInString(content) > maxNoteLength {
		return Invalid("content", "exceeds maximum length of 10000 characters")
	}

	return nil
}

// NewNote validates the input and builds a note with a fresh id stamped at now.
func NewNote(requestID, actorID string, role Role, content string, now time.Time) (Note, error) {
	if requestID == "" {
		return Note{}, Invalid("request_id", "is required")
	}

	if actorID == "" {
		return Note{}, Invalid("user_id", "is required")
	}

	if !role.Valid() {
		return Note{}, Invalid("user_role", "must be tenant or landlord")
	}

	if err := ValidateNoteContent(content); err != nil {
		return Note{}, err
	}

	return Note{
		ID:        uuid.New().String(),
		RequestID: requestID,
		UserID:    actorID,
		UserRole:  role,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// OrderNotes returns notes most recent first. Notes with equal timestamps
// keep their insertion order.
func OrderNotes(notes []Note) []Note {
	out := slices.Clone(notes)

	slices.SortStableFunc(out, func(a, b Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.Seq, b.Seq)
	})

	return out
}
