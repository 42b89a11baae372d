package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dobryakk5/nsk/core/logger"
	"github.com/dobryakk5/nsk/core/telegram/router"
	"github.com/dobryakk5/nsk/internal/profile"
)

// contactRecorder creates a profile on the first event from each user. Ids
// are remembered only after a successful upsert, so a failed attempt is
// retried on the user's next event.
type contactRecorder struct {
	profiles Profiles

	mu   sync.Mutex
	seen map[int64]struct{}
}

func newContactRecorder(p Profiles) *contactRecorder {
	return &contactRecorder{profiles: p, seen: make(map[int64]struct{})}
}

func (r *contactRecorder) known(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[id]
	return ok
}

// RecordContact implements router.ContactRecorder.
func (r *contactRecorder) RecordContact(ctx context.Context, ev router.Event) error {
	if r.known(ev.UserID) {
		return nil
	}
	created, err := r.profiles.UpsertOnFirstContact(ctx, profile.Contact{
		UserID:    ev.UserID,
		Username:  ev.Username,
		FirstName: ev.FirstName,
	})
	if err != nil {
		return fmt.Errorf("record contact: %w", err)
	}
	r.mu.Lock()
	r.seen[ev.UserID] = struct{}{}
	r.mu.Unlock()
	if created {
		logger.Info(ctx, "service.profiles", "profile.created",
			slog.String("status", "ok"),
			slog.Bool("has_username", ev.Username != ""),
		)
	}
	return nil
}
