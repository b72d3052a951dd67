package main

import (
	"log/slog"
	"os"
	"time"

	"web3builder/config"
	"web3builder/database"
	routes "web3builder/internal/app/http"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/cache"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()

	level := slog.LevelDebug
	if config.IsProduction() {
		level = slog.LevelInfo
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	database.InitDB()

	// the site cache is optional; without Redis every page is rendered
	if config.REDIS_ADDR != "" {
		client, err := cache.Connect(config.REDIS_ADDR, config.REDIS_PASSWORD)
		if err != nil {
			slog.Warn("site cache disabled", "error", err)
		} else {
			cache.Sites = cache.NewSiteCache(client, config.SITE_CACHE_TTL)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	slog.Info("listening", "port", config.PORT, "env", config.APP_ENV)
	if err := r.Run(":" + config.PORT); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
