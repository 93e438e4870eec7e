package interactions

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// FriendEngine adds directed friend relationships. The relationship is
// intentionally unilateral: adding a friend writes only to the requester's
// friendsList, never to the target's. Callers of the friends listing assume
// one-sided semantics, so this must not be upgraded to a mutual model.
type FriendEngine struct {
	users repositories.UserRepository
}

// NewFriendEngine creates a new FriendEngine
func NewFriendEngine(userRepo repositories.UserRepository) *FriendEngine {
	return &FriendEngine{users: userRepo}
}

// AddFriend appends targetID to the requester's friends list if it is not
// already present, and returns the requester as it stands afterwards. Adding
// the same friend twice is a no-op. The target must exist: a dangling id is
// never stored.
func (e *FriendEngine) AddFriend(ctx context.Context, requesterID, targetID string) (*models.User, error) {
	requesterOID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return nil, &MalformedIDError{Entity: "Logged in user", ID: requesterID}
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, &MalformedIDError{Entity: "Requested user", ID: targetID}
	}

	if _, err := e.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, translateLookupErr(err, "Logged in user", requesterID)
	}
	if _, err := e.users.GetUserByID(ctx, targetID); err != nil {
		return nil, translateLookupErr(err, "Requested user", targetID)
	}

	if _, err := e.users.AddFriend(ctx, requesterOID, targetOID); err != nil {
		return nil, err
	}

	requester, err := e.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, translateLookupErr(err, "Logged in user", requesterID)
	}
	return requester, nil
}
