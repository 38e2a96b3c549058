package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quizcraft/internal/auth"
	"quizcraft/internal/export"
	"quizcraft/internal/generator"
	"quizcraft/internal/models"
	"quizcraft/internal/quiz"
	"quizcraft/pkg/cache"
	"quizcraft/pkg/database"
	"quizcraft/pkg/llm"
	"quizcraft/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.ArchivedQuiz{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))
	if err := redisCache.Ping(); err != nil {
		log.Printf("Warning: redis unreachable: %v", err)
	}

	// External generation provider. The credential is the only
	// environment surface the capability needs; without it every quiz
	// comes from the fallback generator.
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4.1-mini"
	}
	provider := llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
	genService := generator.NewService(provider, model)

	// Initialize repositories and services
	authRepo := auth.NewRepository(db)
	quizRepo := quiz.NewRepository(db)

	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret)
	quizService := quiz.NewService(genService, quizRepo, redisCache)

	// WebSocket hub for live quiz sessions
	wsHub := websocket.NewHub(quizService)
	go wsHub.Run()

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	quizHandler := quiz.NewHandler(quizService, export.NewExporter())

	// Setup router
	router := mux.NewRouter()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000"
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Quiz generation works anonymously; a valid token attributes the
	// archived quiz to the caller.
	optionalAuth := auth.OptionalJWT(jwtSecret)
	router.Handle("/api/generate-quiz", optionalAuth(http.HandlerFunc(quizHandler.GenerateQuiz))).Methods("POST", "OPTIONS")

	// History requires a JWT
	requireAuth := auth.JWTMiddleware(jwtSecret)
	router.Handle("/api/quiz/my-quizzes", requireAuth(http.HandlerFunc(quizHandler.GetMyQuizzes))).Methods("GET")

	router.HandleFunc("/api/quiz/{quizID}", quizHandler.GetQuiz).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizID}/export", quizHandler.ExportQuiz).Methods("GET", "OPTIONS")

	// WebSocket endpoint for live quiz-taking
	router.HandleFunc("/ws/quiz/{quizID}", wsHub.HandleSession)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
