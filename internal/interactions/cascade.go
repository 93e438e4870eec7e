package interactions

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opencircle-app/opencircle/backend/internal/monitoring"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// CascadeGuard owns the deletion path for every entity. Before a document is
// removed, every reference to it held by other documents is retracted, and a
// retraction failure aborts the delete: the caller is never told a deletion
// succeeded while dangling references remain.
//
// Retraction runs before the target delete, so a crash mid-cascade leaves the
// target present with fewer references, which reads repair naturally, rather
// than absent with dangling references.
type CascadeGuard struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewCascadeGuard creates a new CascadeGuard
func NewCascadeGuard(userRepo repositories.UserRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *CascadeGuard {
	return &CascadeGuard{
		users:    userRepo,
		posts:    postRepo,
		comments: commentRepo,
	}
}

// DeletePost deletes a post, its comments, and every membership reference to
// either: the post id is pulled from all likedPosts sets and the child
// comment ids from all likedComments sets.
func (g *CascadeGuard) DeletePost(ctx context.Context, postID string) error {
	post, err := g.posts.GetPostByID(ctx, postID)
	if err != nil {
		return translateLookupErr(err, "Post", postID)
	}

	commentIDs, err := g.comments.ListCommentIDsByPostID(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("listing comments of post %s: %w", postID, err)
	}
	if _, err := g.users.PullLikedCommentsFromAll(ctx, commentIDs); err != nil {
		return fmt.Errorf("retracting comment likes of post %s: %w", postID, err)
	}
	if _, err := g.comments.DeleteCommentsByPostID(ctx, post.ID); err != nil {
		return fmt.Errorf("deleting comments of post %s: %w", postID, err)
	}

	pulled, err := g.users.PullLikedPostFromAll(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("retracting likes of post %s: %w", postID, err)
	}

	if err := g.posts.DeletePost(ctx, postID); err != nil {
		return translateLookupErr(err, "Post", postID)
	}

	monitoring.CascadesTotal.WithLabelValues("post").Inc()
	log.WithFields(log.Fields{
		"post":            postID,
		"comments":        len(commentIDs),
		"likers_retracted": pulled,
	}).Info("post deleted with cascade")
	return nil
}

// DeleteComment deletes a comment after pulling its id from all likedComments sets.
func (g *CascadeGuard) DeleteComment(ctx context.Context, commentID string) error {
	comment, err := g.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return translateLookupErr(err, "Comment", commentID)
	}

	pulled, err := g.users.PullLikedCommentsFromAll(ctx, []primitive.ObjectID{comment.ID})
	if err != nil {
		return fmt.Errorf("retracting likes of comment %s: %w", commentID, err)
	}

	if err := g.comments.DeleteComment(ctx, commentID); err != nil {
		return translateLookupErr(err, "Comment", commentID)
	}

	monitoring.CascadesTotal.WithLabelValues("comment").Inc()
	log.WithFields(log.Fields{
		"comment":          commentID,
		"likers_retracted": pulled,
	}).Info("comment deleted with cascade")
	return nil
}

// DeleteUser deletes a user after pulling their id from every other user's
// friends list. Posts and comments authored by the user are kept; reads that
// resolve authors render the missing user as an explicit tombstone.
func (g *CascadeGuard) DeleteUser(ctx context.Context, userID string) error {
	user, err := g.users.GetUserByID(ctx, userID)
	if err != nil {
		return translateLookupErr(err, "User", userID)
	}

	pulled, err := g.users.PullFriendFromAll(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("retracting friendships of user %s: %w", userID, err)
	}

	if err := g.users.DeleteUser(ctx, userID); err != nil {
		return translateLookupErr(err, "User", userID)
	}

	monitoring.CascadesTotal.WithLabelValues("user").Inc()
	log.WithFields(log.Fields{
		"user":              userID,
		"friends_retracted": pulled,
	}).Info("user deleted with cascade")
	return nil
}
