// Package main provides the maze server binary: a shared maze served to many
// players over gRPC and, optionally, WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/mazeio/internal/config"
	"github.com/cory-johannsen/mazeio/internal/frontend/ws"
	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/gameserver"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
	"github.com/cory-johannsen/mazeio/internal/observability"
	"github.com/cory-johannsen/mazeio/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and MAZEIO_ environment")
	envFile := flag.String("env-file", ".env", "optional file of MAZEIO_ environment overrides")
	flag.Parse()

	envLoaded, err := config.LoadDotEnv(*envFile)
	if err != nil {
		log.Fatalf("loading env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting maze server",
		zap.String("grpc_addr", cfg.Server.Addr()),
		zap.Bool("websocket", cfg.WebSocket.Enabled),
		zap.Bool("env_file", envLoaded),
	)

	mazeStart := time.Now()
	m, err := buildMaze(cfg.Maze)
	if err != nil {
		logger.Fatal("building maze", zap.Error(err))
	}
	logger.Info("maze ready",
		zap.Uint32("width", m.Width()),
		zap.Uint32("height", m.Height()),
		zap.Int("open_cells", m.OpenCount()),
		zap.Duration("elapsed", time.Since(mazeStart)),
	)

	policy := gameserver.Policy{
		WriteTimeout:     cfg.Session.WriteTimeout,
		ReadPollInterval: cfg.Session.ReadPollInterval,
		MaxWriteFailures: cfg.Session.MaxWriteFailures,
	}
	svc, err := gameserver.NewService(m, cfg.Session.HubCapacity, policy, logger)
	if err != nil {
		logger.Fatal("creating session service", zap.Error(err))
	}

	tracker := gameserver.NewConnTracker(svc.Disconnect, logger)
	grpcServer := grpc.NewServer(grpc.StatsHandler(tracker))
	mazev1.RegisterGameServer(grpcServer, gameserver.NewGameServiceServer(svc, tracker, logger))

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.Server.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Server.Addr(), err)
			}
			logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			// Streams never end on their own; closing the service ends them so
			// GracefulStop can drain.
			svc.Close()
			grpcServer.GracefulStop()
		},
	})

	if cfg.WebSocket.Enabled {
		acceptor := ws.NewAcceptor(cfg.WebSocket, ws.NewHandler(svc, cfg.Session.WriteTimeout, logger), logger)
		lifecycle.Add("websocket", &server.FuncService{
			StartFn: acceptor.ListenAndServe,
			StopFn:  acceptor.Stop,
		})
	}

	logger.Info("maze server initialized",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// buildMaze loads the configured layout file or generates a fresh maze.
func buildMaze(cfg config.MazeConfig) (*maze.Maze, error) {
	if cfg.LayoutFile != "" {
		return maze.LoadLayoutFromFile(cfg.LayoutFile)
	}
	src := maze.NewCryptoSource()
	if cfg.Seed != 0 {
		src = maze.NewSeededSource(cfg.Seed)
	}
	return maze.Generate(cfg.OpenCellsX, cfg.OpenCellsY, src)
}
