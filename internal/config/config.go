package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Config holds server settings.
type Config struct {
	Addr            string
	GameTTL         time.Duration
	PruneInterval   time.Duration
	Heartbeat       time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the built-in settings. PORT in the environment sets the
// listen port.
func Default() Config {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return Config{
		Addr:            addr,
		GameTTL:         2 * time.Hour,
		PruneInterval:   5 * time.Minute,
		Heartbeat:       15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load parses command line args over Default.
func Load(args []string, stderr io.Writer) (Config, error) {
	c := Default()
	fs := flag.NewFlagSet("reversi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.Addr, "addr", c.Addr, "Address to listen on")
	fs.DurationVar(&c.GameTTL, "game-ttl", c.GameTTL, "Games idle longer than this are dropped")
	fs.DurationVar(&c.PruneInterval, "prune-interval", c.PruneInterval, "How often idle games are swept")
	fs.DurationVar(&c.Heartbeat, "heartbeat", c.Heartbeat, "Idle interval for SSE comments and websocket pings")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Grace period for in-flight requests on shutdown")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.GameTTL <= 0 {
		errs = append(errs, errors.New("game-ttl must be positive"))
	}
	if c.PruneInterval <= 0 {
		errs = append(errs, errors.New("prune-interval must be positive"))
	}
	if c.Heartbeat <= 0 {
		errs = append(errs, errors.New("heartbeat must be positive"))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown-timeout must not be negative"))
	}
	return errors.Join(errs...)
}
