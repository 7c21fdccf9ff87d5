// Package main provides a standalone health probe for container health checks
// and monitoring scripts
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/pkg/logger"
	"go.uber.org/zap"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL        string
	ConfigPath string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Verbose    bool
}

type healthBody struct {
	Status string `json:"status"`
	Checks []struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"checks"`
}

func (b *healthBody) failing() []string {
	var failing []string
	for _, c := range b.Checks {
		if c.Status != "healthy" {
			failing = append(failing, c.Name+": "+c.Message)
		}
	}
	return failing
}

func main() {
	os.Exit(run(parseFlags()))
}

func parseFlags() Options {
	var opts Options
	flag.StringVar(&opts.URL, "url", "", "health endpoint URL (default derived from configuration)")
	flag.StringVar(&opts.ConfigPath, "config", os.Getenv("PANTRY_CONFIG"), "path to the configuration file")
	flag.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "request timeout")
	flag.IntVar(&opts.Retries, "retries", 0, "additional attempts after a failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "delay between attempts")
	flag.BoolVar(&opts.Verbose, "verbose", false, "log every attempt")
	flag.Parse()
	return opts
}

func run(opts Options) int {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return exitCodeError
	}
	defer func() { _ = log.Sync() }()

	url := opts.URL
	if url == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			log.Error("Failed to load configuration", zap.Error(err))
			return exitCodeError
		}
		url = fmt.Sprintf("http://127.0.0.1:%d%s", cfg.Server.Port, cfg.Monitoring.HealthCheckPath)
	}

	client := &http.Client{Timeout: opts.Timeout}

	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}

		body, err := probe(context.Background(), client, url)
		if err == nil {
			log.Debug("Service healthy", zap.String("url", url), zap.Strings("failing", body.failing()))
			fmt.Println(body.Status)
			return exitCodeSuccess
		}
		log.Warn("Health check failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	fmt.Println("unhealthy")
	return exitCodeFailure
}

func probe(ctx context.Context, client *http.Client, url string) (*healthBody, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body healthBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &body, fmt.Errorf("status %d: %v", resp.StatusCode, body.failing())
	}
	return &body, nil
}
