package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/otspawn/internal/config"
	"github.com/udisondev/otspawn/internal/data"
	"github.com/udisondev/otspawn/internal/db"
	"github.com/udisondev/otspawn/internal/dispatcher"
	"github.com/udisondev/otspawn/internal/kv"
	"github.com/udisondev/otspawn/internal/spawn"
	"github.com/udisondev/otspawn/internal/stats"
	"github.com/udisondev/otspawn/internal/world"
	"github.com/udisondev/otspawn/internal/zone"
)

const ConfigPath = "config/spawnd.yaml"

func main() {
	importXML := flag.Bool("import-xml", false, "copy spawn.file into the database and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *importXML); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, importXML bool) error {
	cfgPath := ConfigPath
	if p := os.Getenv("OTSPAWN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSpawnd(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("config loaded",
		"path", cfgPath,
		"source", cfg.Spawn.Source,
		"rate", cfg.Spawn.Rate,
		"schedulePercent", cfg.Spawn.SchedulePercent)

	// Database is only needed for the db source, its stats and the import.
	var database *db.DB
	if cfg.Spawn.Source == config.SourceDB || importXML {
		database, err = db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database ready")
	}

	if importXML {
		return importSpawns(ctx, cfg, database)
	}

	clock := world.NewClock()

	monsters, err := data.LoadMonsters(cfg.MonstersFile, clock)
	if err != nil {
		return fmt.Errorf("loading monsters: %w", err)
	}

	zones, err := zone.Load(cfg.ZonesFile)
	if err != nil {
		return fmt.Errorf("loading zones: %w", err)
	}

	worldOpts := world.DefaultOptions()
	worldOpts.ObserverRangeX = cfg.World.ObserverRangeX
	worldOpts.ObserverRangeY = cfg.World.ObserverRangeY
	w := world.New(worldOpts, world.LogNotifier{})

	disp := dispatcher.New(cfg.Dispatcher.TickInterval)

	var backend kv.Backend = kv.NewMemoryBackend()
	if database != nil {
		backend = db.NewKVRepository(database.Pool())
	}
	recorder := stats.NewRecorder(kv.NewStore(backend), cfg.Stats.FlushInterval)

	registry := spawn.NewRegistry(spawn.Deps{
		Types:     monsters,
		World:     w,
		Scheduler: disp,
		Zones:     zones,
		Options:   cfg.SpawnOptions(),
	})
	registry.Subscribe(recorder)

	var src spawn.Source
	switch cfg.Spawn.Source {
	case config.SourceDB:
		src = db.NewSpawnRepository(database.Pool())
	default:
		src = data.NewXMLSource(cfg.Spawn.File)
	}

	if err := registry.Load(ctx, src); err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}
	registry.Startup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return disp.Run(gctx)
	})

	g.Go(func() error {
		return recorder.Start(gctx)
	})

	err = g.Wait()

	// The dispatcher loop has exited; tearing down from this goroutine is safe.
	registry.Clear()
	disp.Stop()

	slog.Info("spawnd stopped", "spawned", recorder.Total())

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// importSpawns replaces the database spawn tables with the configured XML file.
func importSpawns(ctx context.Context, cfg config.Spawnd, database *db.DB) error {
	src := data.NewXMLSource(cfg.Spawn.File)
	areas, err := src.LoadAreas(ctx)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src.Name(), err)
	}

	if err := db.NewSpawnRepository(database.Pool()).ReplaceAreas(ctx, areas); err != nil {
		return fmt.Errorf("importing spawns: %w", err)
	}

	slog.Info("spawns imported", "file", cfg.Spawn.File, "areas", len(areas))
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
