package main

import (
	"alcyxob/training-planner/internal/api"
	"alcyxob/training-planner/internal/config"
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/logging"
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/repository"
	"alcyxob/training-planner/internal/repository/mongo"
	"alcyxob/training-planner/internal/service"
	"alcyxob/training-planner/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	logrus.Info("starting training planner server")

	location, err := cfg.Planner.Location()
	if err != nil {
		logrus.Fatalf("invalid planner config: %v", err)
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logrus.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		logrus.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logrus.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logrus.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	// Synchronous: the feedback trigger relies on the unique form response index.
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), time.Minute)
	err = mongo.EnsureIndexes(indexCtx, appDB)
	cancelIndexes()
	if err != nil {
		logrus.Fatalf("could not ensure MongoDB indexes: %v", err)
	}

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logrus.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		logrus.Warn("s3.bucket_name not set, plan export disabled")
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, "server", registry)

	// --- Initialize Repositories ---
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	sessionExerciseRepo := mongo.NewMongoSessionExerciseRepository(appDB)
	weeklyPlanRepo := mongo.NewMongoWeeklyPlanRepository(appDB)
	formResponses := mongo.NewMongoFormResponseStore(appDB)
	catalogRepos := map[domain.CatalogKind]repository.CatalogRepository{
		domain.CatalogGoals:        mongo.NewMongoCatalogRepository(appDB, mongo.GoalCollectionName),
		domain.CatalogMuscleGroups: mongo.NewMongoCatalogRepository(appDB, mongo.MuscleGroupCollectionName),
		domain.CatalogEquipment:    mongo.NewMongoCatalogRepository(appDB, mongo.EquipmentCollectionName),
	}

	refs := service.NewReferenceValidator(map[domain.RefKind]repository.OwnershipLookup{
		domain.RefSession:         sessionRepo,
		domain.RefSessionExercise: sessionExerciseRepo,
		domain.RefExercise:        mongo.NewOwnershipLookup(appDB, mongo.ExerciseCollectionName),
		domain.RefClient:          mongo.NewOwnershipLookup(appDB, mongo.ClientCollectionName),
		domain.RefEmployee:        mongo.NewOwnershipLookup(appDB, mongo.EmployeeCollectionName),
		domain.RefFormTemplate:    mongo.NewActiveOwnershipLookup(appDB, mongo.FormTemplateCollectionName),
		domain.RefGoal:            catalogRepos[domain.CatalogGoals],
		domain.RefMuscleGroup:     catalogRepos[domain.CatalogMuscleGroups],
	})

	// --- Initialize Services ---
	services := api.Services{
		Sessions:         service.NewSessionService(sessionRepo, sessionExerciseRepo, refs, time.Now),
		SessionExercises: service.NewSessionExerciseService(sessionRepo, sessionExerciseRepo, refs),
		WeeklyPlans: service.NewWeeklyPlanService(weeklyPlanRepo, sessionRepo, refs, fileStorage, metricsManager, service.PlannerOptions{
			Location:        location,
			ExportURLExpiry: cfg.Planner.ExportURLExpiry,
			Clock:           time.Now,
		}),
		Completion: service.NewCompletionTracker(weeklyPlanRepo, formResponses, refs, metricsManager, time.Now),
		Catalogs:   service.NewCatalogService(catalogRepos, time.Now),
	}

	// --- Initialize Gin Engine ---
	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services, metricsManager, registry)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}
	logrus.Info("server exiting")
}
