// Package main provides a load generator that connects many bot players to a
// maze server, each sending a random direction at a fixed interval.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazeio/internal/client"
	"github.com/cory-johannsen/mazeio/internal/config"
	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/observability"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:50051", "maze server gRPC address")
	bots := flag.Int("bots", 100, "number of bot players")
	interval := flag.Duration("interval", 25*time.Millisecond, "delay between moves of one bot")
	duration := flag.Duration("duration", 0, "stop after this long; zero runs until interrupted")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	logger.Info("starting bots",
		zap.String("addr", *addr),
		zap.Int("bots", *bots),
		zap.Duration("interval", *interval),
	)

	var wg sync.WaitGroup
	for i := 0; i < *bots; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := bot{addr: *addr, interval: *interval, src: maze.NewCryptoSource(), logger: logger}
			if err := b.run(ctx); err != nil {
				logger.Warn("bot stopped", zap.Error(err))
			}
		}()
	}
	wg.Wait()
	logger.Info("all bots stopped")
}

type bot struct {
	addr     string
	interval time.Duration
	src      maze.Source
	logger   *zap.Logger
}

// run joins one bot and plays until ctx ends or the server drops it.
func (b bot) run(ctx context.Context) error {
	key := uuid.NewString()
	c, err := client.Dial(b.addr, b.logger, client.WithSessionKey(key))
	if err != nil {
		return err
	}
	defer c.Close()

	state, err := c.Join(ctx, "bot-"+key[:8])
	if err != nil {
		return err
	}

	moves := make(chan maze.Direction)
	go b.drive(ctx, moves)
	return c.Play(ctx, state, moves)
}

// drive sends a random direction every interval and closes moves when ctx ends.
func (b bot) drive(ctx context.Context, moves chan<- maze.Direction) {
	defer close(moves)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d := maze.AllDirections[b.src.Intn(len(maze.AllDirections))]
			select {
			case moves <- d:
			case <-ctx.Done():
				return
			}
		}
	}
}
