package main

import (
	"fmt"
	"os"

	"charm-dblog-tui/config"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- MAIN --------------------

func main() {
	configPath := config.DefaultPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	m := newModel(cfg, configPath)
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	m.shutdown()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
