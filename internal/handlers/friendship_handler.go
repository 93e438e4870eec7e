package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendEngine *interactions.FriendEngine
	resolver     *interactions.Resolver
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendEngine *interactions.FriendEngine, resolver *interactions.Resolver) *FriendshipHandler {
	return &FriendshipHandler{
		friendEngine: friendEngine,
		resolver:     resolver,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(e *echo.Echo) {
	e.PUT("/friends/:logged_in_user/:user_id", h.AddFriend)
	e.GET("/users/:id/friends", h.GetFriends)
}

// AddFriend adds the target user to the requester's friends list. The
// relationship is one-directional and adding twice is a no-op.
func (h *FriendshipHandler) AddFriend(c echo.Context) error {
	user, err := h.friendEngine.AddFriend(c.Request().Context(), c.Param("logged_in_user"), c.Param("user_id"))
	if err != nil {
		return httpError(err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// GetFriends returns a user with their friend ids resolved to documents
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	view, err := h.resolver.FriendsOf(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "User")
	}
	return c.JSON(http.StatusOK, view)
}
