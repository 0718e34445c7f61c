// cmd/mediflow/main.go
//
// This is the entry point for the MediFlow ward dashboard.
// Run `mediflow` from any directory and it will create a .mediflow/
// folder there, load the census, and start the TUI.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaiSmaran29/MediFlow/internal/bridge"
	"github.com/SaiSmaran29/MediFlow/internal/clinical/ward"
	"github.com/SaiSmaran29/MediFlow/internal/config"
	"github.com/SaiSmaran29/MediFlow/internal/logbook"
	"github.com/SaiSmaran29/MediFlow/internal/logging"
	"github.com/SaiSmaran29/MediFlow/internal/summary"
	"github.com/SaiSmaran29/MediFlow/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitMediflowDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .mediflow directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	book, err := logbook.New(cfg.ActivityLogPath())
	if err != nil {
		logger.Error().Err(err).Msg("open activity feed")
		fmt.Fprintf(os.Stderr, "Error opening activity feed: %v\n", err)
		os.Exit(1)
	}

	router := bridge.NewRouter(bridge.RouterWithLogger(logger))

	store, err := buildStore(cfg, router)
	if err != nil {
		logger.Error().Err(err).Msg("load census")
		fmt.Fprintf(os.Stderr, "Error loading census: %v\n", err)
		os.Exit(1)
	}

	summarizer := buildSummarizer(cfg, logger)

	app, err := tui.NewApp(cwd,
		tui.WithStore(store),
		tui.WithRouter(router),
		tui.WithLogbook(book),
		tui.WithSummarizer(summarizer),
	)
	if err != nil {
		logger.Error().Err(err).Msg("build dashboard")
		fmt.Fprintf(os.Stderr, "Error starting dashboard: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	logger.Info().Str("role", string(cfg.DefaultRole())).Msg("dashboard starting")

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("dashboard exited")
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

func buildStore(cfg *config.Config, router *bridge.Router) (*ward.Store, error) {
	patients := ward.Seed()
	if path := cfg.SeedFile(); path != "" {
		loaded, err := ward.LoadSeedFile(path)
		if err != nil {
			return nil, err
		}
		patients = loaded
	}
	return ward.New(patients, ward.WithPublisher(router))
}

// buildSummarizer picks the handover collaborator. Gemini needs a key;
// without one we quietly fall back to the local renderer so the
// dashboard never depends on the network.
func buildSummarizer(cfg *config.Config, logger *logging.Logger) summary.Summarizer {
	settings := cfg.Summarizer()
	if settings.Provider != "gemini" {
		return summary.StaticSummarizer{}
	}
	key := cfg.APIKey()
	if key == "" {
		logger.Warn().Str("env", settings.APIKeyEnv).Msg("gemini selected but no API key; using static summaries")
		return summary.StaticSummarizer{}
	}
	opts := []summary.GeminiOption{}
	if settings.Model != "" {
		opts = append(opts, summary.WithModel(settings.Model))
	}
	if settings.Endpoint != "" {
		opts = append(opts, summary.WithEndpoint(settings.Endpoint))
	}
	if settings.TimeoutSeconds > 0 {
		opts = append(opts, summary.WithHTTPClient(&http.Client{
			Timeout: time.Duration(settings.TimeoutSeconds) * time.Second,
		}))
	}
	gemini, err := summary.NewGeminiSummarizer(key, opts...)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini unavailable; using static summaries")
		return summary.StaticSummarizer{}
	}
	return gemini
}
