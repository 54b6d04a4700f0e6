package main

import (
	"board-lab/domain"
	"board-lab/internal"
	"board-lab/repositories"
	"board-lab/runtime"
	"board-lab/services"
	"board-lab/sink"
	"board-lab/storage"
	"board-lab/transport/lan"
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Board terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and drives the console until /quit or a signal.
// Deferred closes run before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, _ := internal.CharacterRune(config.CharReplacement)
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB) and full-text index (Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, BoardMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Identity
	profiles := repositories.NewProfileRepository(db)
	me, err := profiles.LoadOrCreate(config.Nickname)
	if err != nil {
		return exitRuntime, fmt.Errorf("profile: %w", err)
	}

	// 4. Transport & Orchestration
	files := storage.NewFileStore(db)
	photos := repositories.NewPhotoRepository(db, logger)
	transport := lan.New(lan.Config{
		ID:             me.ID,
		Name:           me.Nickname,
		ListenAddr:     config.ListenAddr,
		AdvertiseHost:  config.AdvertiseHost,
		BeaconAddr:     config.BeaconAddr,
		BeaconPort:     config.BeaconPort,
		BeaconInterval: config.BeaconInterval,
		PeerTTL:        config.PeerTTL,
		SendQueue:      config.SendQueue,
		BufferSize:     config.BufferSize,
		AnswerTimeout:  config.AnswerTimeout,
	}, files, logger)

	orchestrator, err := runtime.NewOrchestrator(logger, me, transport, files, photos, runtime.Options{
		BufferSize:           config.BufferSize,
		SinkTimeout:          config.SinkTimeout,
		SendTimeout:          config.SendTimeout,
		RestartInterval:      config.RestartInterval,
		MetricInterval:       config.MetricInterval,
		LowCapacityThreshold: config.LowCapacityThreshold,
		EnableModeration:     config.EnableModeration,
		CharReplacement:      charReplacement,
		Accept:               runtime.AcceptAll,
	})
	if err != nil {
		return exitRuntime, fmt.Errorf("orchestrator: %w", err)
	}

	messages := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	index := repositories.NewMessageIndex(blugeWriter, logger)
	searchSink := sink.NewSearchSink(index, logger, config.SearchBatchSize, config.SearchFlushTimeout)
	activity := sink.NewActivitySink(config.ActivitySize)
	orchestrator.Add(sink.NewHistorySink(messages, logger), searchSink, activity)
	orchestrator.Supervise(transport)

	done := make(chan struct{})
	go func() {
		defer close(done)
		orchestrator.Start(ctx)
	}()

	// 5. Console
	board := services.NewWhiteboardService(orchestrator.Engine, photos, orchestrator.Broadcaster(),
		domain.Size{Width: config.TextWidth, Height: config.TextHeight})
	if moderator, ok := orchestrator.Moderator(); ok {
		board.WithCensor(moderator)
	}
	c := newConsole(os.Stdout, orchestrator, services.NewChatService(orchestrator, messages, index), board, activity)
	c.subscribe()
	c.banner()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || c.exec(ctx, line) {
				break loop
			}
		}
	}

	// 6. Final Cleanup
	logger.Info("Shutting down gracefully...")
	orchestrator.Stop()
	stop()
	<-done
	if err := searchSink.Flush(); err != nil {
		logger.Warn("Search index flush incomplete", "error", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// BoardMapper labels the inspector rows with the kind of record a key holds.
func BoardMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	prefix, _, _ := strings.Cut(key, ":")
	row.Type = strings.ToUpper(prefix)
	return row
}
