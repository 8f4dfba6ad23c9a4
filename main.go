package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartbar/autocomplete"
	"smartbar/config"
	"smartbar/model"
	"smartbar/pagetext"
	"smartbar/provider"
	"smartbar/session"
	"smartbar/storage"
	"smartbar/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

var rootCmd = &cobra.Command{
	Use:     "smartbar [url...]",
	Short:   "Ask, search, or navigate from one input bar",
	Long:    "smartbar runs an input bar that classifies what you type, merges history suggestions with AI quick prompts, and keeps a conversation per set of open tabs.",
	Version: Version,
	RunE:    runTUI,
}

func init() {
	rootCmd.Flags().Bool("private", false, "keep conversations in memory only")
}

func main() {
	rootCmd.AddCommand(classifyCmd, suggestCmd, pingCmd)
	err := rootCmd.Execute()
	config.SyncLog()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig loads settings and starts the debug log.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.InitDebugLog(cfg.DataDir())
	return cfg, nil
}

// openAI returns the configured AI engine, or nil and the reason when it
// cannot be created. Quick prompts and chat report the missing engine inline.
func openAI(cfg *config.Config) (model.Provider, error) {
	p, err := provider.FromConfig(cfg)
	if err != nil {
		config.Log.Warn("AI provider unavailable, continuing without quick prompts",
			zap.String("provider", cfg.Provider.ID),
			zap.Error(err))
		return nil, err
	}
	return p, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dataDir := cfg.DataDir()

	locked, pid, err := storage.CheckInstanceLock(dataDir)
	if err != nil {
		return fmt.Errorf("failed to check instance lock: %w", err)
	}
	if locked {
		msg := fmt.Sprintf("Another smartbar instance is already running (PID %d).\n\n"+
			"Close it before starting a new one.", pid)
		_, err := tea.NewProgram(ui.NewErrorModal("smartbar already running", msg), tea.WithAltScreen()).Run()
		return err
	}
	if err := storage.LockInstance(dataDir); err != nil {
		return fmt.Errorf("failed to lock instance: %w", err)
	}
	defer func() {
		if err := storage.UnlockInstance(dataDir); err != nil {
			config.Log.Warn("failed to unlock instance", zap.Error(err))
		}
	}()

	db, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	history := autocomplete.NewHistory(db)
	var backend storage.Backend = storage.NewSQLiteBackend(db)
	if private, _ := cmd.Flags().GetBool("private"); private {
		backend = storage.NewMemoryBackend()
	}
	store := storage.NewChatStore(backend)
	bridge := ui.NewBridge()
	defer bridge.Close()

	ai, aiErr := openAI(cfg)
	ctrl := session.New(session.Deps{
		Config:       cfg,
		Autocomplete: history,
		Searches:     history,
		AI:           ai,
		Reader:       pagetext.NewHTTPReader(cfg.Context.PageTextLimit),
		Store:        store,
		Host:         bridge,
	})
	defer ctrl.Close()

	app := ui.NewApp(ctrl, bridge, history, ui.NewTabs(args...), cfg.Keys)
	if aiErr != nil {
		app = app.WithStatus("AI unavailable: " + aiErr.Error())
	}
	_, runErr := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctrl.Flush(ctx); err != nil {
		config.Log.Warn("failed to save transcript on exit", zap.Error(err))
	}
	return runErr
}

// openHistory opens the history database for the headless commands.
func openHistory(cfg *config.Config) (*sql.DB, *autocomplete.History, error) {
	db, err := storage.Open(cfg.DataDir())
	if err != nil {
		return nil, nil, err
	}
	return db, autocomplete.NewHistory(db), nil
}
