package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/andrescamacho/railbot-go/internal/adapters/events"
	daemongrpc "github.com/andrescamacho/railbot-go/internal/adapters/grpc"
	"github.com/andrescamacho/railbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/railbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/railbot-go/internal/adapters/pathfinding"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/setup"
	"github.com/andrescamacho/railbot-go/internal/application/turns"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/database"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/pidfile"
)

func main() {
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Railbot Daemon")
	fmt.Println("==============")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	err := pf.Acquire()
	if err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := common.NewConsoleLogger(cfg.Logging.Level)
	clock := shared.NewRealClock()

	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Static world data (map grid, load cities, demand deck)
	fmt.Printf("Loading world data from %s...\n", cfg.Data.Dir)
	world, err := mapdata.Load(cfg.Data.Dir, cfg.Data.GridFile, cfg.Data.LoadsFile, cfg.Data.DemandFile)
	if err != nil {
		return fmt.Errorf("failed to load world data: %w", err)
	}
	pathfinder := pathfinding.NewGridPathfinder(world.Topology())
	fmt.Println("World data loaded")

	// 3. Repositories and unit of work
	gameRepo := persistence.NewGormGameRepository(db)
	playerRepo := persistence.NewGormPlayerRepository(db)
	trackRepo := persistence.NewGormTrackRepository(db)
	auditRepo := persistence.NewGormAuditRepository(db, clock)
	uow := persistence.NewGormUnitOfWork(db)

	// 4. In-process event bus (gateway-facing side of the daemon)
	bus := events.NewBus()

	// 5. Metrics
	var turnCollector *metrics.TurnMetricsCollector
	var commandCollector *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		turnCollector = metrics.NewTurnMetricsCollector()
		if err := turnCollector.Register(); err != nil {
			return fmt.Errorf("failed to register turn metrics: %w", err)
		}
		commandCollector = metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		fmt.Println("Metrics enabled")
	}

	// 6. Mediator with the full pipeline registered
	registry := setup.NewHandlerRegistry(
		gameRepo, playerRepo, trackRepo, uow, world, pathfinder, auditRepo, bus, clock,
	)
	med, err := registry.CreateConfiguredMediator(
		common.RecoveryMiddleware(),
		common.LoggingMiddleware(),
		metrics.PrometheusMiddleware(commandCollector),
	)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}

	// 7. Bot turn scheduler
	var schedulerMetrics turns.SchedulerMetrics
	if turnCollector != nil {
		schedulerMetrics = turnCollector
	}
	scheduler := turns.NewBotTurnScheduler(med, playerRepo, bus, logger, clock, turns.SchedulerConfig{
		TurnDelay:      cfg.Bot.TurnDelay,
		TurnDeadline:   cfg.Bot.TurnDeadline,
		TurnsPerSecond: cfg.Bot.TurnsPerSecond,
		Burst:          cfg.Bot.Burst,
	}, schedulerMetrics)
	scheduler.Start()
	defer scheduler.Stop()
	fmt.Println("Bot turn scheduler started")

	// 8. Prometheus scrape endpoint
	metricsErrCh := make(chan error, 1)
	metricsServer := metrics.NewHTTPServer(&cfg.Metrics)
	metricsServer.Start(metricsErrCh)
	if metricsServer != nil {
		fmt.Printf("Metrics endpoint on http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				log.Printf("Warning: metrics server shutdown: %v", err)
			}
		}()
	}

	// 9. gRPC control surface on the Unix socket
	fmt.Printf("Starting daemon server on: %s\n", cfg.Daemon.SocketPath)
	daemonServer, err := daemongrpc.NewDaemonServer(cfg.Daemon.SocketPath, cfg.Daemon.ShutdownTimeout, bus, logger)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	fmt.Println("\n✓ Daemon is ready")
	fmt.Println("Press Ctrl+C to stop")

	// Blocks until shutdown
	if err := daemonServer.Start(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}

	select {
	case err := <-metricsErrCh:
		return err
	default:
	}

	fmt.Println("\nDaemon stopped")
	return nil
}
