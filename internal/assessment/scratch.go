package assessment

import (
	"context"

	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// ScratchKey scopes durable scratch entries to one user's session for one
// assessment kind and language. The typed key replaces the ad hoc
// "<kind>-<language>-timer" string keys the SPA kept in localStorage.
type ScratchKey struct {
	UserID   int
	Kind     model.AssessmentKind
	Language string
}

// Scratch is durable per-language scratch storage. It holds only two kinds of
// fragments: the remaining countdown seconds, and (quiz variant only) the
// in-progress answer map. Both survive a page reload; both are cleared on
// submission or explicit quit.
type Scratch interface {
	// Timer returns the persisted countdown value. ok is false when no
	// resumable value exists for the key.
	Timer(ctx context.Context, key ScratchKey) (seconds int, ok bool, err error)

	// SetTimer overwrites the persisted countdown value.
	SetTimer(ctx context.Context, key ScratchKey, seconds int) error

	// Answers returns the persisted index→option map. Missing key yields an
	// empty map, not an error.
	Answers(ctx context.Context, key ScratchKey) (map[int]string, error)

	// SetAnswer overwrites the persisted option for one question index.
	SetAnswer(ctx context.Context, key ScratchKey, index int, option string) error

	// Clear deletes every fragment stored under the key.
	Clear(ctx context.Context, key ScratchKey) error
}
