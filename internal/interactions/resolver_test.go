package interactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolverFriendsOf(t *testing.T) {
	t.Parallel()

	t.Run("resolves friend ids to documents", func(t *testing.T) {
		t.Parallel()
		users := newMemUserRepo()
		resolver := NewResolver(users)
		owner := users.addUser("alice")
		friend := users.addUser("bob")
		ctx := context.Background()

		_, err := users.AddFriend(ctx, owner.ID, friend.ID)
		require.NoError(t, err)

		view, err := resolver.FriendsOf(ctx, owner.ID.Hex())
		require.NoError(t, err)
		require.Len(t, view.Friends, 1)
		require.Equal(t, friend.ID, view.Friends[0].ID)
		require.Equal(t, "bob", view.Friends[0].Username)
		require.False(t, view.Friends[0].Deleted)
	})

	t.Run("renders a dangling friend id as an explicit tombstone", func(t *testing.T) {
		t.Parallel()
		users := newMemUserRepo()
		resolver := NewResolver(users)
		owner := users.addUser("carol")
		ctx := context.Background()

		// A friend id whose document no longer exists, as left behind by a
		// deletion that bypassed the cascade guard.
		ghost := primitive.NewObjectID()
		_, err := users.AddFriend(ctx, owner.ID, ghost)
		require.NoError(t, err)

		view, err := resolver.FriendsOf(ctx, owner.ID.Hex())
		require.NoError(t, err)
		require.Len(t, view.Friends, 1)
		require.Equal(t, ghost, view.Friends[0].ID)
		require.True(t, view.Friends[0].Deleted)
		require.Empty(t, view.Friends[0].Username)
	})

	t.Run("missing user reports user not found", func(t *testing.T) {
		t.Parallel()
		resolver := NewResolver(newMemUserRepo())

		_, err := resolver.FriendsOf(context.Background(), primitive.NewObjectID().Hex())
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		require.EqualError(t, err, "User not found")
	})
}
