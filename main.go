package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kultivateAPI/handlers"
	"kultivateAPI/middleware"
	"kultivateAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	authService         *services.AuthService
	userService         *services.UserService
	habitService        *services.HabitService
	categoryService     *services.CategoryService
	moodService         *services.MoodService
	goalService         *services.GoalService
	achievementService  *services.AchievementService
	notificationService *services.NotificationService
	analyticsService    *services.AnalyticsService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	tokenTTL := 30 * time.Minute
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Fatal("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
		}
		tokenTTL = time.Duration(minutes) * time.Minute
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	authService = services.NewAuthService(dbPool, jwtSecret, tokenTTL)
	userService = services.NewUserService(dbPool)
	notificationService = services.NewNotificationService(dbPool)
	achievementService = services.NewAchievementService(dbPool, notificationService)
	habitService = services.NewHabitService(dbPool, achievementService)
	categoryService = services.NewCategoryService(dbPool)
	moodService = services.NewMoodService(dbPool)
	goalService = services.NewGoalService(dbPool, notificationService)
	analyticsService = services.NewAnalyticsService(dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	habitHandler := handlers.NewHabitHandler(habitService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	moodHandler := handlers.NewMoodHandler(moodService)
	goalHandler := handlers.NewGoalHandler(goalService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "kultivate-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT")
	protected.HandleFunc("/users/me", userHandler.DeleteMe).Methods("DELETE")

	protected.HandleFunc("/habits", habitHandler.GetHabits).Methods("GET")
	protected.HandleFunc("/habits", habitHandler.CreateHabit).Methods("POST")
	protected.HandleFunc("/habits/{habitId}", habitHandler.GetHabit).Methods("GET")
	protected.HandleFunc("/habits/{habitId}", habitHandler.UpdateHabit).Methods("PUT")
	protected.HandleFunc("/habits/{habitId}", habitHandler.DeleteHabit).Methods("DELETE")
	protected.HandleFunc("/habits/{habitId}/logs", habitHandler.GetHabitLogs).Methods("GET")
	protected.HandleFunc("/habits/{habitId}/logs", habitHandler.LogCompletion).Methods("POST")
	protected.HandleFunc("/habits/{habitId}/streak", habitHandler.GetStreak).Methods("GET")

	protected.HandleFunc("/categories", categoryHandler.GetCategories).Methods("GET")
	protected.HandleFunc("/categories", categoryHandler.CreateCategory).Methods("POST")
	protected.HandleFunc("/categories/{categoryId}", categoryHandler.UpdateCategory).Methods("PUT")
	protected.HandleFunc("/categories/{categoryId}", categoryHandler.DeleteCategory).Methods("DELETE")

	protected.HandleFunc("/moods", moodHandler.GetMoodEntries).Methods("GET")
	protected.HandleFunc("/moods", moodHandler.CreateMoodEntry).Methods("POST")

	protected.HandleFunc("/goals", goalHandler.GetGoals).Methods("GET")
	protected.HandleFunc("/goals", goalHandler.CreateGoal).Methods("POST")
	protected.HandleFunc("/goals/{goalId}", goalHandler.GetGoal).Methods("GET")
	protected.HandleFunc("/goals/{goalId}", goalHandler.UpdateGoal).Methods("PUT")
	protected.HandleFunc("/goals/{goalId}", goalHandler.DeleteGoal).Methods("DELETE")

	protected.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/{notificationId}", notificationHandler.DeleteNotification).Methods("DELETE")

	protected.HandleFunc("/analytics/dashboard", analyticsHandler.GetDashboard).Methods("GET")
	protected.HandleFunc("/analytics/habits/performance", analyticsHandler.GetHabitsPerformance).Methods("GET")
	protected.HandleFunc("/analytics/mood/trends", analyticsHandler.GetMoodTrends).Methods("GET")
	protected.HandleFunc("/analytics/streaks/leaderboard", analyticsHandler.GetStreakLeaderboard).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
