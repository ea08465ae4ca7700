package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adeyemio/schoolbase/internal/academic"
	"github.com/adeyemio/schoolbase/internal/config"
	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/handler"
	"github.com/adeyemio/schoolbase/internal/middleware"
	"github.com/adeyemio/schoolbase/internal/repository"
	"github.com/adeyemio/schoolbase/internal/service"
	"github.com/adeyemio/schoolbase/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	db, err := initDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	calendar, err := buildCalendar(cfg)
	if err != nil {
		logrus.Fatalf("Failed to build school calendar: %v", err)
	}

	// Repositories
	feeRepo := repository.NewFeeRepository(db)
	bookRepo := repository.NewBookRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	// Services
	feeService := service.NewFeeService(feeRepo, calendar)
	libraryService := service.NewLibraryService(bookRepo, calendar)
	timetableService := service.NewTimetableService(timetableRepo, calendar)

	// Handlers
	feeHandler := handler.NewFeeHandler(feeService)
	libraryHandler := handler.NewLibraryHandler(libraryService)
	timetableHandler := handler.NewTimetableHandler(timetableService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	apiKeyGuard := middleware.NewAPIKeyGuard(apiKeyRepo, redisClient, cfg.Auth.APIKeyTTL)

	router := setupRoutes(cfg, userRepo, apiKeyGuard, feeHandler, libraryHandler, timetableHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func buildCalendar(cfg *config.Config) (academic.Calendar, error) {
	holidayWeeks, err := cfg.HolidayWeeks()
	if err != nil {
		return academic.Calendar{}, err
	}

	publicHolidays, err := cfg.PublicHolidays()
	if err != nil {
		return academic.Calendar{}, err
	}

	return academic.Calendar{
		ScheduleStart:  cfg.ScheduleStart(),
		TermWeeks:      cfg.Calendar.TermWeeks,
		HolidayWeeks:   [3]int{holidayWeeks[0], holidayWeeks[1], holidayWeeks[2]},
		PublicHolidays: publicHolidays,
	}, nil
}

func setupRoutes(
	cfg *config.Config,
	userRepo repository.UserRepository,
	apiKeyGuard *middleware.APIKeyGuard,
	feeHandler *handler.FeeHandler,
	libraryHandler *handler.LibraryHandler,
	timetableHandler *handler.TimetableHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware)

	// Health checks, unauthenticated
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Internal-service routes behind the api-key guard
	internal := router.PathPrefix("/internal").Subrouter()
	internal.Use(apiKeyGuard.Require)
	internal.HandleFunc("/fees/sweep", feeHandler.Sweep).Methods("POST")

	authenticate := middleware.Authenticate(cfg.Auth.JWTSecret)
	requireActive := middleware.RequireActive(userRepo)

	guarded := func(roles ...string) func(http.HandlerFunc) http.Handler {
		guard := middleware.RequireRoles(roles...)
		return func(h http.HandlerFunc) http.Handler {
			return authenticate(requireActive(guard(h)))
		}
	}

	feeWrite := guarded(domain.RoleAdmin, domain.RoleProprietor)
	feeRead := guarded(domain.RoleAdmin, domain.RoleProprietor, domain.RoleParent, domain.RoleStudent, domain.RoleTeacher)

	router.Handle("/fees", feeWrite(feeHandler.Create)).Methods("POST")
	router.Handle("/fees", feeRead(feeHandler.List)).Methods("GET")
	router.Handle("/fees/{id}", feeRead(feeHandler.Get)).Methods("GET")
	router.Handle("/fees/{id}/installment", feeWrite(feeHandler.RecordInstallment)).Methods("PATCH")
	router.Handle("/fees/{id}", feeWrite(feeHandler.Update)).Methods("PATCH")
	router.Handle("/fees/{id}", feeWrite(feeHandler.Delete)).Methods("DELETE")

	libraryWrite := guarded(domain.RoleAdmin, domain.RoleStaff)
	libraryRead := guarded(domain.RoleAdmin, domain.RoleStaff, domain.RoleStudent)
	libraryDelete := guarded(domain.RoleAdmin)

	router.Handle("/library", libraryWrite(libraryHandler.Create)).Methods("POST")
	router.Handle("/library", libraryRead(libraryHandler.List)).Methods("GET")
	router.Handle("/library/{id}", libraryRead(libraryHandler.Get)).Methods("GET")
	router.Handle("/library/{id}", libraryWrite(libraryHandler.Update)).Methods("PATCH")
	router.Handle("/library/{id}", libraryDelete(libraryHandler.Delete)).Methods("DELETE")

	timetableWrite := guarded(domain.RoleAdmin, domain.RoleProprietor)
	timetableRead := guarded(domain.RoleAdmin, domain.RoleProprietor, domain.RoleTeacher, domain.RoleParent, domain.RoleStudent)

	router.Handle("/timetable/week", timetableWrite(timetableHandler.Create)).Methods("POST")
	router.Handle("/timetable/week", timetableRead(timetableHandler.Find)).Methods("GET")
	router.Handle("/timetable/week/{id}", timetableRead(timetableHandler.Get)).Methods("GET")
	router.Handle("/timetable/week/{id}", timetableWrite(timetableHandler.Update)).Methods("PATCH")
	router.Handle("/timetable/week/{id}", timetableWrite(timetableHandler.Delete)).Methods("DELETE")

	return router
}
