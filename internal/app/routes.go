package app

import (
	"time"

	"Weblog/internal/auth"
	"Weblog/internal/cache"
	"Weblog/internal/config"
	"Weblog/internal/facts"
	"Weblog/internal/handlers"
	"Weblog/internal/repo"
	"Weblog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	sessionStore := auth.NewStore(rdb, 24*time.Hour)
	// Every visitor gets a server-side session record; login upgrades it.
	r.Use(auth.Sessions(sessionStore))

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)

	postRepo := repo.NewPGPostRepo(db)
	postCache := cache.NewPostCache(rdb, cfg.Redis.DefaultTTL.Duration())
	postSvc := service.NewPostService(postRepo, postCache)
	factsClient := facts.NewClient(cfg.Facts.URL)
	postHandler := handlers.NewPostHandler(postSvc, factsClient)

	Routes(r, authHandler, postHandler)
}

// Routes wires the page and API handlers. Split from Setup so tests can
// mount the same routing over in-memory backends.
func Routes(r *gin.Engine, ah *handlers.AuthHandler, ph *handlers.PostHandler) {
	r.GET("/", ph.Home)
	r.GET("/about", ph.About)
	r.GET("/search", ph.Search)
	r.GET("/api/posts", ph.ListPosts)

	r.GET("/register", ah.ShowRegister)
	r.POST("/register", ah.Register)
	r.GET("/login", ah.ShowLogin)
	r.POST("/login", ah.Login)
	r.GET("/logout", ah.Logout)

	protected := r.Group("", auth.RequireLogin())
	protected.GET("/add-post", ph.ShowAddPost)
	protected.POST("/add-post", ph.AddPost)
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
