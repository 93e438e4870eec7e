package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	cascadeGuard   *interactions.CascadeGuard
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, cascadeGuard *interactions.CascadeGuard) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		cascadeGuard:   cascadeGuard,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo) {
	e.GET("/posts", h.GetPosts)
	e.GET("/posts/:id", h.GetPost)
	e.POST("/posts", h.CreatePost)
	e.PUT("/posts/:id", h.UpdatePost)
	e.DELETE("/posts/:id", h.DeletePost)
	e.GET("/users/:id/posts", h.GetUserPosts)
}

// GetPosts retrieves all posts
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "Post")
	}
	return c.JSON(http.StatusOK, post)
}

// GetUserPosts retrieves all posts authored by a user
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err, "User")
	}

	posts, err := h.postRepository.GetPostsByAuthor(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
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

	post := &models.Post{
		Author:  author.ID,
		Content: req.Content,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post's content
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err, "Post")
	}

	post.Content = req.Content
	if err := h.postRepository.UpdatePost(ctx, c.Param("id"), post); err != nil {
		return httpError(err, "Post")
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post through the cascade guard so no membership set
// keeps a dangling reference to it or its comments.
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.cascadeGuard.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, "Post")
	}
	return c.String(http.StatusOK, "Post deleted")
}
