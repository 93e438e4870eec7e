package router

import (
	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opencircle-app/opencircle/backend/internal/handlers"
	"github.com/opencircle-app/opencircle/backend/internal/interactions"
	"github.com/opencircle-app/opencircle/backend/internal/monitoring"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(monitoring.Middleware())
	log.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database) {
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)

	// --- Core engines ---
	toggleEngine := interactions.NewToggleEngine(userRepo, postRepo, commentRepo)
	friendEngine := interactions.NewFriendEngine(userRepo)
	cascadeGuard := interactions.NewCascadeGuard(userRepo, postRepo, commentRepo)
	resolver := interactions.NewResolver(userRepo)

	// User routes
	userHandler := handlers.NewUserHandler(userRepo, cascadeGuard)
	userHandler.RegisterUserRoutes(e)
	log.Info("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, cascadeGuard)
	postHandler.RegisterPostRoutes(e)
	log.Info("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, cascadeGuard)
	commentHandler.RegisterCommentRoutes(e)
	log.Info("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(toggleEngine)
	likeHandler.RegisterLikeRoutes(e.Group(""))
	log.Info("Like routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendEngine, resolver)
	friendshipHandler.RegisterFriendshipRoutes(e)
	log.Info("Friendship routes configured.")

	log.Info("All routes configured.")
}
