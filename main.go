// AppScaffold - A terminal editor for hierarchical application settings
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/appscaffold/appscaffold/internal/app"
	"github.com/appscaffold/appscaffold/internal/config"
	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/i18n"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/appscaffold/appscaffold/internal/tui"
	"github.com/appscaffold/appscaffold/internal/version"
	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
)

func main() {
	configFile := flag.StringP("config", "c", "", "configuration file")
	settingsFile := flag.StringP("file", "f", "", "settings file to edit")
	format := flag.String("format", "", "settings file format (ini, json, yaml, toml)")
	showVersion := flag.BoolP("version", "v", false, "print version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().Detailed())
		return
	}

	// Initialize configuration manager
	configManager := config.NewManager()
	if *configFile != "" {
		if err := configManager.LoadFromFile(*configFile); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	} else if err := configManager.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	overrides := make(map[string]interface{})
	if *settingsFile != "" {
		overrides["settings.file"] = *settingsFile
	}
	if *format != "" {
		overrides["settings.format"] = *format
	}
	if len(overrides) > 0 {
		if err := configManager.SetMultiple(overrides); err != nil {
			log.Fatalf("Invalid command line options: %v", err)
		}
	}

	cfg := configManager.GetConfig()

	logger, closeLog := newLogger(cfg.Logging)
	defer closeLog()

	translator := i18n.New(i18n.WithLogger(logger))
	translator.Load(cfg.UI.Language)

	session, err := app.NewSession(cfg.Settings, app.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to open settings: %v", err)
	}
	session.BindTranslator(translator, cfg.UI.Language)

	themeManager := tui.NewThemeManager()
	if !themeManager.SetTheme(cfg.UI.Theme) {
		logger.Warn("Unknown theme, using default", "theme", cfg.UI.Theme)
	}

	view := tui.NewSettingsView(session.Model(), session, translator,
		tui.WithTheme(themeManager.GetTheme()),
		tui.WithShowHelp(cfg.UI.ShowHelp),
		tui.WithLogger(logger),
	)

	// Create Bubble Tea program
	program := tea.NewProgram(view, tea.WithAltScreen())

	if cfg.Settings.Watch {
		err := session.Watch(func() {
			program.Send(tui.FileChangedMsg{Path: session.Path()})
		})
		if err != nil {
			logger.Warn("File watching disabled", "error", err)
		}
	}

	// Start the TUI
	_, runErr := program.Run()
	if err := session.Close(); err != nil {
		logger.Error("Failed to save settings on exit", "error", err)
	}
	if runErr != nil {
		log.Printf("Error running TUI: %v", runErr)
		os.Exit(1)
	}
}

// newLogger builds the application logger. Console output is discarded while
// the alternate screen is active, so only a configured log file sees messages.
func newLogger(cfg domain.LoggingConfig) (*logging.Logger, func()) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = logging.LevelInfo
	}

	logger := logging.New(level, logging.NewConsoleAppender(io.Discard, logging.NewSimpleFormatter(false)))
	if cfg.File == "" {
		return logger, func() {}
	}

	file := logging.NewFileAppender(cfg.File, logging.NewSimpleFormatter(cfg.Color))
	logger.AddAppender(file)
	return logger, func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
		}
	}
}
