package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/config"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/database"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/handlers"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/services"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/store"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	st := store.NewGormStore(db)
	hub := ws.NewHub()

	sessionService := services.NewSessionService(st, hub)
	wordService := services.NewWordService(st)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	userHandler := handlers.NewUserHandler(sessionService, wordService)
	answerHandler := handlers.NewAnswerHandler(sessionService)
	wsHandler := handlers.NewWSHandler(hub, sessionService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.StartReaper(ctx, seconds(cfg.HeartbeatSweep, 15), seconds(cfg.HeartbeatTimeout, 45))

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		api.POST("/login", userHandler.Login)

		users := api.Group("/users")
		{
			users.POST("", userHandler.RegisterUser)
			users.POST("/:id/word", userHandler.AssignWord)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/advance", sessionHandler.Advance)
			sessions.GET("/:id/leaderboard", sessionHandler.GetLeaderboard)
		}

		api.POST("/answers", answerHandler.SubmitAnswer)
		api.POST("/scores", answerHandler.RecordScore)
		api.GET("/words/termo", userHandler.PickTermoWord)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func seconds(raw string, fallback int) time.Duration {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
