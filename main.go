package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"waveportal-tui/config"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- MAIN --------------------

func main() {
	homeDir, _ := os.UserHomeDir()
	configPath := flag.String("config", filepath.Join(homeDir, ".waveportal-config.json"), "path to the config file")
	rpcURL := flag.String("rpc", "", "wallet RPC endpoint (overrides config and environment)")
	flag.Parse()

	cfg := config.LoadOrCreate(*configPath).ApplyEnv()
	if *rpcURL != "" {
		cfg.RPCURL = *rpcURL
	}

	if err := run(cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

// run drives the program until it quits, then releases the live feed and
// the connection whatever the exit path.
func run(cfg config.Config) error {
	var logOut io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newModel(ctx, cfg, logOut)
	defer m.close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
