package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speechcoach/internal/audio"
	"speechcoach/internal/config"
	"speechcoach/internal/database"
	"speechcoach/internal/handlers"
	"speechcoach/internal/repository"
	"speechcoach/internal/security"
	"speechcoach/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certRepo := repository.NewCertificateRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTLifetime)
	authService := service.NewAuthService(userRepo, tokens, cfg.SessionDuration)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailSender, "SpeechCoach", cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	ttsService := audio.NewTTSService(cfg.AudioCachePath)
	courseService := service.NewCourseService(courseRepo, lessonRepo)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)
	certService := service.NewCertificateService(certRepo, userRepo, emailService)
	progressService := service.NewProgressService(progressRepo, lessonRepo, courseRepo, certService)

	csrfSecret := cfg.JWTSecret
	if csrfSecret == "" {
		csrfSecret = security.GenerateSessionID()
	}
	csrf := security.NewCSRFGenerator(csrfSecret)

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, csrf)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf, googleOAuth, cfg.BaseURL)
	courseHandler := handlers.NewCourseHandler(courseService)
	lessonHandler := handlers.NewLessonHandler(lessonService, ttsService)
	progressHandler := handlers.NewProgressHandler(progressService)
	practiceHandler := handlers.NewPracticeHandler(lessonService, progressService, ttsService)
	certHandler := handlers.NewCertificateHandler(certService)
	adminHandler := handlers.NewAdminHandler(authService)

	// Setup routes
	mux := http.NewServeMux()

	// Static files (cached TTS clips and feedback sounds included)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Auth routes
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.OAuthCallback)
	mux.HandleFunc("POST /password-reset/request", middleware.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /password-reset/confirm", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/tokens", middleware.RequireAuth(authHandler.IssueToken))

	// Course catalog
	mux.HandleFunc("GET /api/courses", courseHandler.ListCourses)
	mux.HandleFunc("GET /api/courses/{id}", courseHandler.GetCourse)
	mux.HandleFunc("POST /api/courses", middleware.RequireAuthor(courseHandler.CreateCourse))
	mux.HandleFunc("PUT /api/courses/{id}", middleware.RequireAuthor(courseHandler.UpdateCourse))
	mux.HandleFunc("DELETE /api/courses/{id}", middleware.RequireAuthor(courseHandler.DeleteCourse))
	mux.HandleFunc("POST /api/courses/{id}/rating", middleware.RequireAuth(courseHandler.RateCourse))

	// Lessons
	mux.HandleFunc("GET /api/courses/{id}/lessons", lessonHandler.ListLessons)
	mux.HandleFunc("GET /api/lessons/{id}", lessonHandler.GetLesson)
	mux.HandleFunc("GET /api/lessons/{id}/audio", lessonHandler.AudioManifest)
	mux.HandleFunc("POST /api/lessons", middleware.RequireAuthor(lessonHandler.CreateLesson))
	mux.HandleFunc("PUT /api/lessons/{id}", middleware.RequireAuthor(lessonHandler.UpdateLesson))
	mux.HandleFunc("DELETE /api/lessons/{id}", middleware.RequireAuthor(lessonHandler.DeleteLesson))

	// Progress
	mux.HandleFunc("GET /api/lessons/{id}/progress", middleware.RequireAuth(progressHandler.LessonProgress))
	mux.HandleFunc("GET /api/courses/{id}/progress", middleware.RequireAuth(progressHandler.CourseProgress))
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progressHandler.AllProgress))

	// Practice sessions
	mux.HandleFunc("POST /api/practice/start/{lessonId}", middleware.RequireAuth(practiceHandler.StartPractice))
	mux.HandleFunc("GET /api/practice/{sid}", middleware.RequireAuth(practiceHandler.GetState))
	mux.HandleFunc("POST /api/practice/{sid}/record", middleware.RequireAuth(practiceHandler.Record))
	mux.HandleFunc("POST /api/practice/{sid}/transcript", middleware.RequireAuth(practiceHandler.Transcript))
	mux.HandleFunc("POST /api/practice/{sid}/playback-ended", middleware.RequireAuth(practiceHandler.PlaybackEnded))
	mux.HandleFunc("POST /api/practice/{sid}/play", middleware.RequireAuth(practiceHandler.PlayContent))
	mux.HandleFunc("POST /api/practice/{sid}/voice", middleware.RequireAuth(practiceHandler.SwitchVoice))
	mux.HandleFunc("POST /api/practice/{sid}/next", middleware.RequireAuth(practiceHandler.Next))
	mux.HandleFunc("POST /api/practice/{sid}/back", middleware.RequireAuth(practiceHandler.Back))
	mux.HandleFunc("POST /api/practice/{sid}/reset", middleware.RequireAuth(practiceHandler.Reset))
	mux.HandleFunc("POST /api/practice/{sid}/exit", middleware.RequireAuth(practiceHandler.Exit))

	// Certificates
	mux.HandleFunc("GET /api/certificates", middleware.RequireAuth(certHandler.ListCertificates))
	mux.HandleFunc("GET /api/certificates/{serial}", certHandler.GetCertificate)

	// Admin
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", middleware.RequireAdmin(adminHandler.UpdateUserRole))
	mux.HandleFunc("DELETE /api/admin/users/{id}", middleware.RequireAdmin(adminHandler.DeleteUser))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupExpiredSessions periodically removes expired sessions and stale
// password reset tokens
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
		if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		}
	}
}
