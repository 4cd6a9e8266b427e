package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/udesh117/hackathon-system/config"
	"github.com/udesh117/hackathon-system/db"
	"github.com/udesh117/hackathon-system/handlers"
	"github.com/udesh117/hackathon-system/realtime"
	"github.com/udesh117/hackathon-system/repositories"
	"github.com/udesh117/hackathon-system/routes"
	"github.com/udesh117/hackathon-system/services"
	"github.com/udesh117/hackathon-system/storage"
)

const (
	dbConnectTimeout    = 10 * time.Second
	announcementsEvery  = 30 * time.Second
	shutdownGracePeriod = 15 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(database)
	teamRepo := repositories.NewPostgresTeamRepository(database)
	submissionRepo := repositories.NewPostgresSubmissionRepository(database)
	assignmentRepo := repositories.NewPostgresAssignmentRepository(database)
	evaluationRepo := repositories.NewPostgresEvaluationRepository(database)
	scoreRepo := repositories.NewPostgresScoreRepository(database)
	settingsRepo := repositories.NewPostgresSettingsRepository(database)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(database)

	mailer := services.NewEmailService(cfg)

	authService := services.NewAuthService(userRepo)
	judgeService := services.NewJudgeService(userRepo, mailer, logger)
	teamService := services.NewTeamService(teamRepo, uploader)
	submissionService := services.NewSubmissionService(submissionRepo, teamRepo, uploader)
	scoreService := services.NewScoreService(scoreRepo, settingsRepo, evaluationRepo, hub)
	evaluationService := services.NewEvaluationService(evaluationRepo, assignmentRepo, submissionRepo, scoreService, logger)
	assignmentService := services.NewAssignmentService(database, assignmentRepo, evaluationRepo, userRepo, teamRepo)
	announcementService := services.NewAnnouncementService(announcementRepo, userRepo, mailer, hub, logger)
	dashboardService := services.NewDashboardService(userRepo, teamRepo, submissionRepo, assignmentRepo, evaluationRepo)

	jwtSecret := []byte(cfg.JWTSecretKey)

	router := routes.InitRoutes(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, jwtSecret),
		Judge:        handlers.NewJudgeHandler(judgeService),
		Team:         handlers.NewTeamHandler(teamService),
		Submission:   handlers.NewSubmissionHandler(submissionService),
		Assignment:   handlers.NewAssignmentHandler(assignmentService),
		Evaluation:   handlers.NewEvaluationHandler(evaluationService),
		Leaderboard:  handlers.NewLeaderboardHandler(scoreService),
		Announcement: handlers.NewAnnouncementHandler(announcementService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Websocket:    handlers.NewWebsocketHandler(hub),
	}, jwtSecret)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go runAnnouncementScheduler(schedulerCtx, announcementService, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		logger.Info("shutting down server", slog.String("signal", s.String()))
		stopScheduler()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.String("addr", server.Addr))
	err = server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// runAnnouncementScheduler periodically publishes scheduled announcements.
func runAnnouncementScheduler(ctx context.Context, svc services.AnnouncementService, logger *slog.Logger) {
	ticker := time.NewTicker(announcementsEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PublishDue(ctx)
			if err != nil {
				logger.Error("announcement publish pass failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Info("published scheduled announcements", slog.Int("count", n))
			}
		}
	}
}
