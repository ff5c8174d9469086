package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theCampel/lightspeed/internal/backend"
	"github.com/theCampel/lightspeed/internal/capture"
	"github.com/theCampel/lightspeed/internal/feed"
	"github.com/theCampel/lightspeed/internal/model"
	"github.com/theCampel/lightspeed/internal/query"
	"github.com/theCampel/lightspeed/internal/questions"
	"github.com/theCampel/lightspeed/internal/session"
	"github.com/theCampel/lightspeed/internal/stream"
	"github.com/theCampel/lightspeed/internal/tui"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/lightspeed/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Lightspeed - Advisor Dashboard\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runDashboard(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDashboard(cfg cliConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := backend.NewClient(cfg.BackendURL)

	prober := stream.NewProber(client.Health, model.DefaultHealthInterval)
	go prober.Run(ctx)

	manager := stream.NewManager(cfg.StreamURL)
	if err := manager.Connect(ctx); err != nil {
		return fmt.Errorf("cannot connect to backend stream at %s: %w\nIs the daemon running? Start it with: lightspeedd", cfg.StreamURL, err)
	}
	defer manager.Close()

	profile, err := client.FetchProfile(ctx)
	if err != nil {
		log.Printf("main: profile fetch failed, showing an empty header: %v", err)
	}

	var recorder session.Recorder
	if cfg.CaptureEnabled {
		rec, err := capture.Open(cfg.CapturePath)
		if err != nil {
			log.Printf("main: capture disabled: %v", err)
		} else {
			defer rec.Close()
			recorder = rec
		}
	}

	sctx := session.NewSessionContext()
	store := feed.NewStore()
	sched := questions.NewScheduler(model.DefaultQuestionPool(), nil)
	orch := query.NewOrchestrator(store, sctx, client, prober.Liveness)
	sess := session.NewSession(sctx, manager, store, sched, orch, client, recorder)
	defer sess.Close()

	go func() {
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("main: session loop exited: %v", err)
		}
	}()

	dashboard := tui.NewDashboard(store, sched, sess, prober.Liveness, manager.State, profile)
	dashboard.SetUpdateInterval(cfg.UpdateInterval)
	app := tui.NewApp(dashboard)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "lightspeed")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "lightspeed.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
