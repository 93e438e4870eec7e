package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	cascadeGuard   *interactions.CascadeGuard
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, cascadeGuard *interactions.CascadeGuard) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		cascadeGuard:   cascadeGuard,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(e *echo.Echo) {
	e.GET("/users", h.GetUsers)
	e.GET("/users/:id", h.GetUser)
	e.POST("/users", h.CreateUser)
	e.PUT("/users/:id", h.UpdateUser)
	e.DELETE("/users/:id", h.DeleteUser)
	e.GET("/users/usernames/:username", h.GetUserByUsername)
	e.GET("/users/usernames/:username/id", h.GetUserIDByUsername)
}

// GetUsers retrieves all users
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserByUsername retrieves a user by username, matched case-insensitively
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserIDByUsername resolves a username to its user id
func (h *UserHandler) GetUserIDByUsername(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(err, "User")
	}
	return c.JSON(http.StatusOK, echo.Map{"_id": user.ID})
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{Username: req.Username}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser updates an existing user's profile fields
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err, "User")
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if err := h.userRepository.UpdateUser(ctx, c.Param("id"), user); err != nil {
		return httpError(err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser deletes a user through the cascade guard so no friends list
// keeps a dangling reference to them.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.cascadeGuard.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, "User")
	}
	return c.String(http.StatusOK, "User deleted")
}
