package interactions

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// Resolver turns cross-entity id references into documents for read
// enrichment. It has no consistency obligations: ids that no longer resolve
// are rendered as explicit tombstones, never silently dropped and never
// repaired here.
type Resolver struct {
	users repositories.UserRepository
}

// NewResolver creates a new Resolver
func NewResolver(userRepo repositories.UserRepository) *Resolver {
	return &Resolver{users: userRepo}
}

// FriendsOf returns the user with each friendsList entry resolved to a
// document. Entries whose user was deleted come back as tombstones.
func (r *Resolver) FriendsOf(ctx context.Context, userID string) (*models.UserWithFriends, error) {
	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, translateLookupErr(err, "User", userID)
	}

	friends, err := r.users.GetUsersByIDs(ctx, user.FriendsList)
	if err != nil {
		return nil, err
	}

	found := make(map[primitive.ObjectID]*models.User, len(friends))
	for i := range friends {
		found[friends[i].ID] = &friends[i]
	}

	views := make([]models.FriendView, 0, len(user.FriendsList))
	for _, id := range user.FriendsList {
		friend, ok := found[id]
		if !ok {
			views = append(views, models.FriendView{ID: id, Deleted: true})
			continue
		}
		views = append(views, models.FriendView{ID: friend.ID, Username: friend.Username})
	}

	return &models.UserWithFriends{User: *user, Friends: views}, nil
}
