package interactions

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/monitoring"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// maxToggleAttempts bounds the retry loop when both conditional arms of a
// toggle lose to concurrent toggles of the same (actor, target) pair.
const maxToggleAttempts = 3

// ToggleEngine flips the like-state between one actor and one target while
// keeping the actor's membership set and the target's counter in lockstep.
//
// There is no cross-document transaction. Instead the actor document is the
// serialization point: the membership flip is a single conditional update
// ("add if absent" / "remove if present"), so exactly one of any set of
// racing toggles performs a given transition. Only the winner applies the
// counter delta to the target, in that order (actor first, target second).
// If the counter write fails the engine surfaces PartialWriteError rather
// than reporting success; the drift self-corrects on the next toggle of the
// pair or during a reconciliation sweep.
// Within one process, toggles of the same pair are additionally serialized by
// a striped advisory lock. The conditional updates alone keep each membership
// transition exact, but the counter delta lands in a second write, and a
// racing unlike could floor its decrement before the like's increment lands.
// Serializing the pair closes that window locally; drift from multi-instance
// races is the reconciler's job.
type ToggleEngine struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	pairs    pairLocks
}

// pairLocks is a fixed pool of mutexes striped by the (actor, target) pair.
type pairLocks struct {
	locks [64]sync.Mutex
}

func (p *pairLocks) of(actor, target primitive.ObjectID) *sync.Mutex {
	h := fnv.New32a()
	h.Write(actor[:])
	h.Write(target[:])
	return &p.locks[h.Sum32()%uint32(len(p.locks))]
}

// NewToggleEngine creates a new ToggleEngine
func NewToggleEngine(userRepo repositories.UserRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *ToggleEngine {
	return &ToggleEngine{
		users:    userRepo,
		posts:    postRepo,
		comments: commentRepo,
	}
}

// TogglePostLike flips the like-state between the user and the post and
// returns the post as it stands after the toggle.
func (e *ToggleEngine) TogglePostLike(ctx context.Context, userID, postID string) (*models.Post, error) {
	target := likeTarget{
		entity:    "Post",
		addMember: e.users.AddLikedPost,
		rmMember:  e.users.RemoveLikedPost,
		increment: e.posts.IncrementLikes,
		decrement: e.posts.DecrementLikes,
	}

	if err := e.toggle(ctx, userID, postID, target); err != nil {
		return nil, err
	}
	post, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleCommentLike flips the like-state between the user and the comment and
// returns the comment as it stands after the toggle.
func (e *ToggleEngine) ToggleCommentLike(ctx context.Context, userID, commentID string) (*models.Comment, error) {
	target := likeTarget{
		entity:    "Comment",
		addMember: e.users.AddLikedComment,
		rmMember:  e.users.RemoveLikedComment,
		increment: e.comments.IncrementLikes,
		decrement: e.comments.DecrementLikes,
	}

	if err := e.toggle(ctx, userID, commentID, target); err != nil {
		return nil, err
	}
	comment, err := e.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// likeTarget binds a toggle to one target kind: the membership mutators on
// the actor document and the counter mutators on the target document.
type likeTarget struct {
	entity    string
	addMember func(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	rmMember  func(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	increment func(ctx context.Context, targetID primitive.ObjectID) error
	decrement func(ctx context.Context, targetID primitive.ObjectID) error
}

func (e *ToggleEngine) toggle(ctx context.Context, userID, targetID string, target likeTarget) error {
	actorOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return &MalformedIDError{Entity: "User", ID: userID}
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return &MalformedIDError{Entity: target.entity, ID: targetID}
	}

	// Both participants must exist before anything mutates, and a miss must
	// name which entity was missing.
	if _, err := e.users.GetUserByID(ctx, userID); err != nil {
		return translateLookupErr(err, "User", userID)
	}
	if err := e.targetExists(ctx, target.entity, targetID); err != nil {
		return err
	}

	pair := e.pairs.of(actorOID, targetOID)
	pair.Lock()
	defer pair.Unlock()

	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		added, err := target.addMember(ctx, actorOID, targetOID)
		if err != nil {
			return err
		}
		if added {
			if err := target.increment(ctx, targetOID); err != nil {
				monitoring.PartialWritesTotal.WithLabelValues(kindLabel(target.entity)).Inc()
				return &PartialWriteError{Applied: "membership add", Failed: "counter increment", Err: err}
			}
			monitoring.TogglesTotal.WithLabelValues(kindLabel(target.entity), "like").Inc()
			return nil
		}

		removed, err := target.rmMember(ctx, actorOID, targetOID)
		if err != nil {
			return err
		}
		if removed {
			if err := target.decrement(ctx, targetOID); err != nil {
				monitoring.PartialWritesTotal.WithLabelValues(kindLabel(target.entity)).Inc()
				return &PartialWriteError{Applied: "membership remove", Failed: "counter decrement", Err: err}
			}
			monitoring.TogglesTotal.WithLabelValues(kindLabel(target.entity), "unlike").Inc()
			return nil
		}

		// Both conditional arms matched nothing: a concurrent toggle flipped
		// the membership between our two attempts. Retry from the top.
		log.WithFields(log.Fields{
			"user":    userID,
			"target":  targetID,
			"kind":    target.entity,
			"attempt": attempt,
		}).Warn("like toggle lost conditional update, retrying")
	}

	return &ContentionError{Attempts: maxToggleAttempts}
}

func (e *ToggleEngine) targetExists(ctx context.Context, entity, id string) error {
	var err error
	switch entity {
	case "Post":
		_, err = e.posts.GetPostByID(ctx, id)
	case "Comment":
		_, err = e.comments.GetCommentByID(ctx, id)
	}
	return translateLookupErr(err, entity, id)
}

func translateLookupErr(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return &NotFoundError{Entity: entity}
	case errors.Is(err, repositories.ErrMalformedID):
		return &MalformedIDError{Entity: entity, ID: id}
	default:
		return err
	}
}

func kindLabel(entity string) string {
	if entity == "Comment" {
		return "comment"
	}
	return "post"
}
