package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/novaterra/estatecrm/internal/app"
	"github.com/novaterra/estatecrm/internal/config"
	"github.com/novaterra/estatecrm/internal/history"
	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/searches"
	"github.com/novaterra/estatecrm/internal/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	configDir, err := config.GetConfigPath()
	if err != nil {
		log.Printf("Warning: Could not resolve config dir: %v\n", err)
		configDir = "."
	}

	connCfg := models.ConnectionConfig{
		Host:     cfg.Backend.Host,
		Port:     cfg.Backend.Port,
		Database: cfg.Backend.Database,
		User:     cfg.Backend.User,
		SSLMode:  cfg.Backend.SSLMode,
	}

	secretStore, err := secrets.NewStore(configDir)
	if err != nil {
		log.Printf("Warning: Keyring unavailable: %v\n", err)
	} else if secretStore.IsUsingFallback() {
		log.Printf("Warning: No OS keyring found, passwords go to an encrypted file\n")
	}
	connCfg.Password = resolvePassword(secretStore, connCfg)

	searchMgr, err := searches.NewManager(configDir)
	if err != nil {
		log.Printf("Warning: Saved searches unavailable: %v\n", err)
	}

	var histStore *history.Store
	if cfg.History.Enabled {
		histStore, err = history.NewStore(filepath.Join(configDir, "history.db"), cfg.History.MaxEntries)
		if err != nil {
			log.Printf("Warning: Search history unavailable: %v\n", err)
		}
	}

	zone.NewGlobal()

	application := app.New(cfg, connCfg, searchMgr, histStore, secretStore)
	defer application.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(application, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// resolvePassword prefers the environment, then the keyring
func resolvePassword(store *secrets.Store, connCfg models.ConnectionConfig) string {
	if pw := os.Getenv("ESTATECRM_DB_PASSWORD"); pw != "" {
		return pw
	}
	if store == nil {
		return ""
	}

	pw, err := store.Get(connCfg.Host, connCfg.Port, connCfg.Database, connCfg.User)
	if err != nil {
		return ""
	}
	return pw
}
