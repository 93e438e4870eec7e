package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	cascadeGuard      *interactions.CascadeGuard
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, cascadeGuard *interactions.CascadeGuard) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		cascadeGuard:      cascadeGuard,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo) {
	e.GET("/comments/:id", h.GetComment)
	e.POST("/comments", h.CreateComment)
	e.PUT("/comments/:id", h.UpdateComment)
	e.DELETE("/comments/:id", h.DeleteComment)
	e.GET("/posts/:id/comments", h.GetPostComments)
}

// GetComment retrieves a comment by ID
func (h *CommentHandler) GetComment(c echo.Context) error {
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "Comment")
	}
	return c.JSON(http.StatusOK, comment)
}

// GetPostComments retrieves all comments for a post
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err, "Post")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByID(ctx, req.Author)
	if err != nil {
		return httpError(err, "User")
	}
	post, err := h.postRepository.GetPostByID(ctx, req.Post)
	if err != nil {
		return httpError(err, "Post")
	}

	comment := &models.Comment{
		Author:  author.ID,
		Post:    post.ID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates an existing comment's content
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err, "Comment")
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(ctx, c.Param("id"), comment); err != nil {
		return httpError(err, "Comment")
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment through the cascade guard so no membership
// set keeps a dangling reference to it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if err := h.cascadeGuard.DeleteComment(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, "Comment")
	}
	return c.String(http.StatusOK, "Comment deleted")
}
