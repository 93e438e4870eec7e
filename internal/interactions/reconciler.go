package interactions

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/opencircle-app/opencircle/backend/internal/monitoring"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

const reconcileLockKey = "opencircle:reconciler:sweep"

// Locker is an advisory lock used to keep concurrent reconciliation sweeps
// from running against the same data, typically backed by Redis.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Reconciler periodically recomputes every post and comment likes counter
// from the membership sets, repairing drift left behind by partial writes.
// The membership sets are the source of truth; the counters are the tally.
type Reconciler struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	locker   Locker
	interval time.Duration
}

// NewReconciler creates a new Reconciler sweeping at the given interval
func NewReconciler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, locker Locker, interval time.Duration) *Reconciler {
	return &Reconciler{
		users:    userRepo,
		posts:    postRepo,
		comments: commentRepo,
		locker:   locker,
		interval: interval,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
			repaired, err := r.Sweep(ctx)
			if err != nil {
				log.WithError(err).Error("reconciliation sweep failed")
				continue
			}
			if repaired > 0 {
				log.WithField("repaired", repaired).Warn("reconciliation repaired drifted counters")
			}
		}
	}
}

// Sweep recomputes all counters once and returns how many it repaired. The
// sweep is skipped without error when another instance holds the lock.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	acquired, err := r.locker.Acquire(ctx, reconcileLockKey, 2*r.interval)
	if err != nil {
		return 0, err
	}
	if !acquired {
		log.Debug("reconciliation skipped, sweep lock held elsewhere")
		return 0, nil
	}
	defer func() {
		if err := r.locker.Release(context.WithoutCancel(ctx), reconcileLockKey); err != nil {
			log.WithError(err).Warn("failed to release sweep lock")
		}
	}()

	repaired := 0

	postIDs, err := r.posts.ListPostIDs(ctx)
	if err != nil {
		return repaired, err
	}
	for _, id := range postIDs {
		likers, err := r.users.CountUsersLikingPost(ctx, id)
		if err != nil {
			return repaired, err
		}
		changed, err := r.posts.SetLikes(ctx, id, likers)
		if err != nil {
			return repaired, err
		}
		if changed {
			repaired++
			monitoring.ReconciliationRepairsTotal.WithLabelValues("post").Inc()
		}
	}

	commentIDs, err := r.comments.ListCommentIDs(ctx)
	if err != nil {
		return repaired, err
	}
	for _, id := range commentIDs {
		likers, err := r.users.CountUsersLikingComment(ctx, id)
		if err != nil {
			return repaired, err
		}
		changed, err := r.comments.SetLikes(ctx, id, likers)
		if err != nil {
			return repaired, err
		}
		if changed {
			repaired++
			monitoring.ReconciliationRepairsTotal.WithLabelValues("comment").Inc()
		}
	}

	return repaired, nil
}
