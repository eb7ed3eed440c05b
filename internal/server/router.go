package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/handlers"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	TagHandler        *handlers.TagHandler
	IngredientHandler *handlers.IngredientHandler
	RecipeHandler     *handlers.RecipeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Reads carry viewer flags when a token is present, so they run
	// behind optional auth rather than in the public group.
	public := router.Group("/api")
	public.Use(cfg.AuthMiddleware.OptionalAuth())
	public.GET("/tags", cfg.TagHandler.List)
	public.GET("/tags/:id", cfg.TagHandler.GetByID)
	public.GET("/ingredients", cfg.IngredientHandler.List)
	public.GET("/ingredients/:id", cfg.IngredientHandler.GetByID)
	public.GET("/recipes", cfg.RecipeHandler.List)
	public.GET("/recipes/:id", cfg.RecipeHandler.GetByID)
	public.GET("/users/:id", cfg.UserHandler.GetByID)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.POST("/users/set_password", cfg.AuthHandler.SetPassword)
	// User
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.GET("/users/subscriptions", cfg.UserHandler.Subscriptions)
	protected.POST("/users/:id/subscribe", cfg.UserHandler.Subscribe)
	protected.DELETE("/users/:id/subscribe", cfg.UserHandler.Unsubscribe)
	// Recipe
	protected.POST("/recipes", cfg.RecipeHandler.Create)
	protected.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
	protected.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)
	protected.POST("/recipes/:id/favorite", cfg.RecipeHandler.AddFavorite)
	protected.DELETE("/recipes/:id/favorite", cfg.RecipeHandler.RemoveFavorite)
	protected.POST("/recipes/:id/shopping_cart", cfg.RecipeHandler.AddToCart)
	protected.DELETE("/recipes/:id/shopping_cart", cfg.RecipeHandler.RemoveFromCart)
	protected.GET("/recipes/download_shopping_cart", cfg.RecipeHandler.DownloadShoppingCart)

	return router
}
