package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/config"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/audit"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/scheduling"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/surgery"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/platform/db"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/platform/middleware"
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "or-scheduler",
		Short: "Emergency OR scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Notification dispatcher
	sender := notification.NewLogSender(logger)
	dispatcher := notification.NewDispatcher(sender, sender, cfg.NotifyQueueSize, logger)
	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	dispatcher.Start(dispatchCtx)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")

	// Resource directories
	roomRepo := surgery.NewOperatingRoomRepoPG(pool)
	surgeonRepo := surgery.NewSurgeonRepoPG(pool)
	patientRepo := surgery.NewPatientRepoPG(pool)
	typeRepo := surgery.NewSurgeryTypeRepoPG(pool)
	surgeryRepo := surgery.NewSurgeryRepoPG(pool)

	surgerySvc := surgery.NewService(roomRepo, surgeonRepo, patientRepo, typeRepo, surgeryRepo)
	surgery.NewHandler(surgerySvc).RegisterRoutes(apiV1)

	// Audit trail
	auditSvc := audit.NewService(audit.NewEventRepoPG(pool), logger)
	audit.NewHandler(auditSvc).RegisterRoutes(apiV1)

	// Emergency insertion engine
	schedSvc := scheduling.NewService(scheduling.Deps{
		Assignments: scheduling.NewAssignmentRepoPG(pool),
		Surgeries:   surgeryRepo,
		Patients:    patientRepo,
		Types:       typeRepo,
		Surgeons:    surgeonRepo,
		Rooms:       roomRepo,
		Tx:          &db.PoolTxRunner{Pool: pool},
		Policy: scheduling.Policy{
			DayEndMins:           cfg.DayEndMins(),
			OvertimeCutoffMins:   cfg.OvertimeCutoffMins(),
			OvertimeBufferMins:   cfg.OvertimeBufferMins,
			StrictSLAEnforcement: cfg.StrictSLAEnforcement,
		},
		Notifier:  dispatcher,
		Templates: notification.NewTemplateEngine(),
		Audit:     auditSvc,
		Log:       logger,
	})
	scheduling.NewHandler(schedSvc).RegisterRoutes(apiV1)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	stopDispatch()
	if err := dispatcher.Drain(5 * time.Second); err != nil {
		logger.Warn().Err(err).Msg("notification dispatcher drain timed out")
	}

	logger.Info().Msg("server stopped")
	return nil
}
