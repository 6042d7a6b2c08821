package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Dionlucil/health-assistant/internal/api"
	"github.com/Dionlucil/health-assistant/internal/api/middleware"
	"github.com/Dionlucil/health-assistant/internal/catalog"
	"github.com/Dionlucil/health-assistant/internal/circuitbreaker"
	"github.com/Dionlucil/health-assistant/internal/db"
	"github.com/Dionlucil/health-assistant/internal/doctor"
	"github.com/Dionlucil/health-assistant/internal/memory"
	"github.com/Dionlucil/health-assistant/internal/payment"
	"github.com/Dionlucil/health-assistant/internal/symptoms"
	"github.com/Dionlucil/health-assistant/internal/ws"
	"github.com/Dionlucil/health-assistant/pkg/huggingface"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	port := getEnv("PORT", "8080")
	databaseURL := getEnv("DATABASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "")
	huggingfaceAPIKey := getEnv("HUGGINGFACE_API_KEY", "")
	huggingfaceModel := getEnv("HUGGINGFACE_MODEL", "")

	// Comma-separated frontend origins; empty means echo any origin, which
	// suits local development.
	var allowedOrigins []string
	if raw := getEnv("ALLOWED_ORIGINS", ""); raw != "" {
		allowedOrigins = strings.Split(raw, ",")
	}

	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize database
	database, err := db.NewFromURL(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("✅ Database connected")

	// The catalog references lexicon entries; a mismatch is a programming
	// error and the server refuses to start.
	lexicon := symptoms.NewLexicon()
	conditionCatalog, err := catalog.New(lexicon)
	if err != nil {
		log.Fatalf("Invalid condition catalog: %v", err)
	}

	doc := doctor.New(lexicon, conditionCatalog)

	// Optional model-backed detection; keyword detection remains the
	// fallback on any model failure.
	if huggingfaceAPIKey != "" {
		// Candidate labels are the lexicon's display names, so every label
		// the model can return resolves to a canonical symptom.
		var candidateLabels []string
		for _, entry := range lexicon.Entries() {
			candidateLabels = append(candidateLabels, symptoms.Display(entry.ID))
		}
		hfClient := huggingface.NewHTTPClient(huggingface.Config{
			APIKey:          huggingfaceAPIKey,
			Model:           huggingfaceModel,
			CandidateLabels: candidateLabels,
		})
		detector := symptoms.NewDetector(lexicon)
		breaker := circuitbreaker.New(3, 30*time.Second)
		doc = doc.WithStrategy(doctor.NewModelStrategy(
			hfClient,
			lexicon,
			doctor.NewKeywordStrategy(detector),
			breaker,
		))
		log.Println("✅ Model-backed symptom detection enabled")
	}

	payments := payment.NewManager(database)
	memoryManager := memory.NewManager(10, 30*time.Minute)

	// Evict idle chat sessions from memory
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := memoryManager.Sweep(); n > 0 {
				log.Printf("Evicted %d idle chat sessions", n)
			}
		}
	}()

	// Initialize handlers
	authHandler := api.NewAuthHandler(database, jwtSecret)
	consultationHandler := api.NewConsultationHandler(database, doc, payments)
	chatHandler := api.NewChatHandler(database, doc, payments)
	paymentHandler := api.NewPaymentHandler(payments)
	wsHandler := ws.NewChatHandler(doc, memoryManager, payments, database, jwtSecret)

	// Setup Gin router
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.PerIP(100.0/60.0, 200)) // ~100 req/min per IP

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWTAuth(jwtSecret), authHandler.Me)
		auth.PUT("/me", middleware.JWTAuth(jwtSecret), authHandler.UpdateMe)
	}

	// Consultation routes (protected + per-user rate limiting)
	consultations := router.Group("/api/consultations")
	consultations.Use(middleware.JWTAuth(jwtSecret))
	consultations.Use(middleware.PerUser(500.0/3600.0, 100)) // 500/hour per user
	{
		consultations.POST("/analyze",
			middleware.RequireConsultationCredit(payments),
			consultationHandler.Analyze)
		consultations.GET("", consultationHandler.List)
		consultations.GET("/:id", consultationHandler.Get)
		consultations.GET("/:id/report", consultationHandler.Report)
	}

	// Chat routes (protected)
	chat := router.Group("/api/chat")
	chat.Use(middleware.JWTAuth(jwtSecret))
	chat.Use(middleware.PerUser(500.0/3600.0, 100))
	{
		chat.POST("/message", chatHandler.Message)
		chat.GET("/history", chatHandler.History)
		chat.GET("/sessions", chatHandler.Sessions)
		chat.GET("/sessions/:id/messages", chatHandler.Messages)
	}

	// Payment routes (protected)
	paymentsGroup := router.Group("/api/payments")
	paymentsGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		paymentsGroup.GET("/plans", paymentHandler.Plans)
		paymentsGroup.POST("", paymentHandler.Create)
		paymentsGroup.POST("/:id/complete", paymentHandler.Complete)
		paymentsGroup.GET("", paymentHandler.History)
	}

	// WebSocket chat route (protected via query param/header)
	router.GET("/ws/chat", wsHandler.HandleChat)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		log.Printf("📝 API endpoints:")
		log.Printf("   POST   /api/auth/register")
		log.Printf("   POST   /api/auth/login")
		log.Printf("   GET    /api/auth/me")
		log.Printf("   POST   /api/consultations/analyze")
		log.Printf("   GET    /api/consultations")
		log.Printf("   GET    /api/consultations/:id")
		log.Printf("   GET    /api/consultations/:id/report")
		log.Printf("   PUT    /api/auth/me")
		log.Printf("   POST   /api/chat/message")
		log.Printf("   GET    /api/chat/history")
		log.Printf("   GET    /api/chat/sessions")
		log.Printf("   GET    /api/chat/sessions/:id/messages")
		log.Printf("   GET    /api/payments/plans")
		log.Printf("   POST   /api/payments")
		log.Printf("   POST   /api/payments/:id/complete")
		log.Printf("   GET    /api/payments")
		log.Printf("   WS     /ws/chat")
		log.Printf("")
		log.Printf("Press Ctrl+C to stop")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
