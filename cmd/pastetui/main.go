// Command pastetui opens a terminal paste box with live delimiter
// detection and prints the parsed rows tab-separated on submit.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/PasteImport/internal/application"
	"github.com/JonMunkholm/PasteImport/internal/config"
	"github.com/JonMunkholm/PasteImport/internal/core"
	"github.com/JonMunkholm/PasteImport/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration:", err)
		os.Exit(1)
	}

	// The terminal belongs to the paste box, so only errors go to stderr.
	slog.SetDefault(logging.New(os.Stderr, "error", cfg.Logging.Format))

	service := core.NewService(nil, cfg.Import)

	final, err := tea.NewProgram(application.NewModel(service), tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pastetui:", err)
		os.Exit(1)
	}

	m, ok := final.(application.Model)
	if !ok || !m.Submitted() {
		os.Exit(1)
	}
	if err := application.WriteRows(os.Stdout, m.Rows()); err != nil {
		fmt.Fprintln(os.Stderr, "write rows:", err)
		os.Exit(1)
	}
}
