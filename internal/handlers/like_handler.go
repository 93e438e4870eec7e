package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
)

// LikeHandler handles HTTP requests that toggle like-state
type LikeHandler struct {
	toggleEngine *interactions.ToggleEngine
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(toggleEngine *interactions.ToggleEngine) *LikeHandler {
	return &LikeHandler{toggleEngine: toggleEngine}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.PUT("/users/:user_id/likes/:target_id", h.ToggleLike)
}

// ToggleLike flips the like-state between the user and the target. Posts and
// comments share the same path shape, so the target kind is selected with the
// `kind` query parameter and defaults to post.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID := c.Param("user_id")
	targetID := c.Param("target_id")
	ctx := c.Request().Context()

	switch kind := c.QueryParam("kind"); kind {
	case "", "post":
		post, err := h.toggleEngine.TogglePostLike(ctx, userID, targetID)
		if err != nil {
			return httpError(err, "Post")
		}
		return c.JSON(http.StatusOK, post)
	case "comment":
		comment, err := h.toggleEngine.ToggleCommentLike(ctx, userID, targetID)
		if err != nil {
			return httpError(err, "Comment")
		}
		return c.JSON(http.StatusOK, echo.Map{"comment": comment})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be post or comment")
	}
}
