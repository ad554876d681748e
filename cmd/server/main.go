// Command server runs the post office simulation and serves the control API
// next to it.  The process lives exactly as long as the simulated run: it
// exits 0 after the last day closes and 1 when the office explodes under
// the backlog of waiting customers.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/post-office-sim/internal/auth"
	"github.com/iliyamo/post-office-sim/internal/config"
	"github.com/iliyamo/post-office-sim/internal/database"
	"github.com/iliyamo/post-office-sim/internal/handler"
	"github.com/iliyamo/post-office-sim/internal/model"
	"github.com/iliyamo/post-office-sim/internal/queue"
	"github.com/iliyamo/post-office-sim/internal/repository"
	"github.com/iliyamo/post-office-sim/internal/router"
	queue_publisher "github.com/iliyamo/post-office-sim/internal/service"
	"github.com/iliyamo/post-office-sim/internal/sim"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	simulation, err := sim.New(cfg.SimConfig())
	if err != nil {
		log.Fatalf("invalid simulation config: %v", err)
	}

	runID := time.Now().UTC().Format("20060102T150405")
	log.Printf("run %s: %d operators, %d customers, %d seats, %d days",
		runID, cfg.Operators, cfg.Customers, cfg.Seats, cfg.Days)

	var archive handler.ReportArchive
	if repo := wireArchive(cfg, runID, simulation); repo != nil {
		archive = repo
	}
	wireEvents(cfg, runID, simulation)

	if cfg.ConsumeEvents {
		go func() {
			if err := queue.StartDayConsumer(); err != nil {
				log.Printf("day consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	rdb := config.NewRedisClient()
	simHandler := handler.NewSimHandler(simulation, archive, runID)
	router.RegisterRoutes(e, simHandler, rdb)

	if cfg.AdminEnabled() {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		authHandler := handler.NewAuthHandler(cfg.JWTSecret, hash, cfg.AccessTTLMin)
		router.RegisterAdmin(e, authHandler, simHandler, cfg.JWTSecret)
	} else {
		log.Printf("admin API disabled (set JWT_SECRET and ADMIN_PASSWORD to enable)")
	}

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := simulation.Run(ctx)
	stop()

	publishEnded(cfg, runID, runErr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = e.Shutdown(shutdownCtx)

	switch {
	case runErr == nil:
		log.Printf("run %s: completed %d days", runID, cfg.Days)
	case errors.Is(runErr, sim.ErrExploded):
		log.Printf("run %s: aborted, office exploded", runID)
		os.Exit(1)
	case errors.Is(runErr, context.Canceled):
		log.Printf("run %s: interrupted", runID)
	default:
		log.Printf("run %s: failed: %v", runID, runErr)
		os.Exit(1)
	}
}

// wireArchive connects the MySQL archive when configured and subscribes it
// to the day reports.  The returned repo serves the read path of the daily
// stats endpoint; a broken archive is logged and skipped (nil return) so
// the simulation still runs.
func wireArchive(cfg config.Config, runID string, s *sim.Simulation) *repository.ReportRepo {
	if !cfg.ArchiveEnabled() {
		return nil
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Printf("report archive disabled, DB unreachable: %v", err)
		return nil
	}
	repo := repository.NewReportRepo(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("report archive disabled, schema setup failed: %v", err)
		return nil
	}
	s.OnDayReport(func(rep model.DayReport) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := repo.Insert(ctx, runID, rep); err != nil {
				log.Printf("archive day %d failed: %v", rep.Day, err)
			}
		}()
	})
	return repo
}

// wireEvents subscribes the AMQP publisher to the day reports.
func wireEvents(cfg config.Config, runID string, s *sim.Simulation) {
	if !cfg.PublishEvents {
		return
	}
	s.OnDayReport(func(rep model.DayReport) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = queue_publisher.PublishDayClosed(ctx, queue.DayClosedEvent{
				Run:      runID,
				Day:      rep.Day,
				Report:   rep,
				ClosedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}()
	})
}

func publishEnded(cfg config.Config, runID string, runErr error) {
	if !cfg.PublishEvents {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue_publisher.PublishSimulationEnded(ctx, queue.SimulationEndedEvent{
		Run:      runID,
		Days:     cfg.Days,
		Exploded: errors.Is(runErr, sim.ErrExploded),
		EndedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
