// Package remote defines the document store the sync loop pushes to and
// pulls from. Each user owns three documents: schedules, notes and settings.
// Every write replaces a whole document; the last writer wins.
package remote

import (
	"context"

	"github.com/Will-L07/scheduler/internal/models"
)

// Snapshot is one user's synced state. A nil field is an absent document
// on Pull and a document left untouched on Push.
type Snapshot struct {
	Schedules []models.Schedule `json:"schedules"`
	Notes     []models.Note     `json:"notes"`
	Settings  *models.Settings  `json:"settings"`
}

// Empty reports whether the snapshot carries no documents at all.
func (s Snapshot) Empty() bool {
	return s.Schedules == nil && s.Notes == nil && s.Settings == nil
}

// Remote is the transport the sync loop talks to.
type Remote interface {
	// Push writes every non-nil document of snap for userID.
	Push(ctx context.Context, userID string, snap Snapshot) error
	// Pull reads the user's documents. found is false when none exist.
	Pull(ctx context.Context, userID string) (snap Snapshot, found bool, err error)
	// Subscribe calls fn with a fresh snapshot whenever another device
	// changes userID's documents. The returned func stops the subscription.
	Subscribe(ctx context.Context, userID string, fn func(Snapshot)) (unsubscribe func(), err error)
	Close() error
}
