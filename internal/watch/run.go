// Package watch orchestrates one monitor run: load the cursor, fetch recent
// posts, filter to originals, deliver anything new in order, persist the
// cursor.
package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"tweetwatch/internal/cursor"
	"tweetwatch/internal/twitter"
)

// Source resolves the watched account and fetches its recent posts.
type Source interface {
	ResolveUser(ctx context.Context, handle string) (string, error)
	RecentOriginals(ctx context.Context, userID, sinceID string) ([]twitter.Post, error)
}

// Notifier delivers one message downstream.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// CursorStore loads and saves the last-seen post id.
type CursorStore interface {
	Load() (cursor.Cursor, error)
	Save(cursor.Cursor) error
}

// Runner runs the monitor once. The caller (an external scheduler) is
// responsible for re-invocation and for never overlapping two runs against
// the same cursor store.
type Runner struct {
	Handle   string
	Source   Source
	Notifier Notifier
	Cursors  CursorStore
}

// Run executes one watch run. A nil return covers both "delivered new posts"
// and "nothing to do" (including upstream rate limiting); errors are fatal
// for the run and the caller maps them to a non-zero exit.
func (r *Runner) Run(ctx context.Context) error {
	cur, err := r.Cursors.Load()
	if err != nil {
		// A lost or corrupt cursor re-initializes the baseline instead of
		// failing the job.
		log.WithError(err).Warn("Cursor unreadable, treating as first run")
		cur = cursor.Cursor{}
	}
	firstRun := cur.LastSeenID == ""

	userID, err := r.Source.ResolveUser(ctx, r.Handle)
	if errors.Is(err, twitter.ErrRateLimited) {
		log.WithFields(log.Fields{"handle": r.Handle}).Info("Rate limited resolving account, skipping run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve account @%s: %w", r.Handle, err)
	}

	posts, err := r.Source.RecentOriginals(ctx, userID, cur.LastSeenID)
	if err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}

	originals := lo.Filter(posts, func(p twitter.Post, _ int) bool {
		return twitter.IsOriginal(p)
	})
	// Delivery order is a correctness property: ascending id order matches
	// chronological order regardless of how the upstream pages results.
	slices.SortFunc(originals, func(a, b twitter.Post) int {
		return strings.Compare(a.ID, b.ID)
	})

	if firstRun {
		return r.initBaseline(ctx, userID, originals)
	}

	if len(originals) == 0 {
		log.WithFields(log.Fields{"handle": r.Handle}).Debug("No new posts")
		return nil
	}

	for _, p := range originals {
		if err := r.Notifier.Notify(ctx, r.message(p)); err != nil {
			// Best-effort per post: one failed delivery must not block the rest.
			log.WithError(err).WithFields(log.Fields{"post_id": p.ID}).Error("Delivery failed")
		}
	}

	newest := originals[len(originals)-1].ID
	if err := r.Cursors.Save(cursor.Cursor{LastSeenID: newest}); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}

	log.WithFields(log.Fields{
		"handle":    r.Handle,
		"delivered": len(originals),
		"cursor":    newest,
	}).Info("Run complete")
	return nil
}

// initBaseline establishes the cursor on the very first run without sending
// anything, so a fresh deployment does not flood the chat with backlog.
func (r *Runner) initBaseline(ctx context.Context, userID string, originals []twitter.Post) error {
	if len(originals) == 0 {
		// The since-filtered page can be empty even though the account has
		// history; catch up on the most recent originals to seed the cursor.
		fallback, err := r.Source.RecentOriginals(ctx, userID, "")
		if err != nil {
			return fmt.Errorf("fetch baseline posts: %w", err)
		}
		originals = lo.Filter(fallback, func(p twitter.Post, _ int) bool {
			return twitter.IsOriginal(p)
		})
	}
	if len(originals) == 0 {
		log.WithFields(log.Fields{"handle": r.Handle}).Info("First run, no posts to baseline")
		return nil
	}

	newest := lo.MaxBy(originals, func(a, b twitter.Post) bool {
		return strings.Compare(a.ID, b.ID) > 0
	})
	if err := r.Cursors.Save(cursor.Cursor{LastSeenID: newest.ID}); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}

	log.WithFields(log.Fields{"handle": r.Handle, "cursor": newest.ID}).Info("First run, baseline initialized")
	return nil
}

func (r *Runner) message(p twitter.Post) string {
	url := fmt.Sprintf("https://x.com/%s/status/%s", r.Handle, p.ID)
	return fmt.Sprintf("New post from @%s:\n\n%s\n\n%s", r.Handle, p.Text, url)
}
