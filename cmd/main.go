package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/db"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/handlers"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/media"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/middleware"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/server"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/services"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaRoot := utils.GetEnv("MEDIA_ROOT", "./media", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	ingredientRepo := repos.NewIngredientRepo(thePG, log)
	recipeRepo := repos.NewRecipeRepo(thePG, log)
	recipeIngredientRepo := repos.NewRecipeIngredientRepo(thePG, log)
	userRecipeRepo := repos.NewUserRecipeRepo(thePG, log)
	followRepo := repos.NewFollowRepo(thePG, log)

	// Media
	mediaStore, err := media.NewLocalStore(mediaRoot, log)
	if err != nil {
		log.Error("Could not init media store", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, followRepo, recipeRepo)
	tagService := services.NewTagService(thePG, log, tagRepo)
	ingredientService := services.NewIngredientService(thePG, log, ingredientRepo)
	recipeService := services.NewRecipeService(thePG, log, recipeRepo, recipeIngredientRepo, tagRepo, ingredientRepo, userRepo, userRecipeRepo, followRepo)
	membershipService := services.NewMembershipService(thePG, log, userRecipeRepo, recipeRepo)
	shoppingListService := services.NewShoppingListService(thePG, log, userRecipeRepo, recipeIngredientRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(log, recipeService, membershipService, shoppingListService, mediaStore)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
