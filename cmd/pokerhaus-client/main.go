package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/pokerhaus/pokerhaus/internal/client"
	"github.com/pokerhaus/pokerhaus/internal/tui"
)

var CLI struct {
	Server   string `short:"s" long:"server" default:"http://localhost:8080" help:"Server URL to connect to"`
	Room     string `short:"r" long:"room" default:"main" help:"Room to join"`
	Name     string `short:"n" long:"name" help:"Player name"`
	LogLevel string `short:"l" long:"log-level" default:"info" help:"Log level"`
	LogFile  string `long:"log-file" default:"pokerhaus-client.log" help:"Log file path"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := os.OpenFile(CLI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("Failed to open log file: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	logger := log.New(logFile)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("starting pokerhaus client",
		"server", CLI.Server,
		"room", CLI.Room,
		"name", CLI.Name)

	wsClient := client.NewClient(CLI.Server, logger)
	if err := wsClient.Connect(); err != nil {
		fmt.Printf("Failed to connect to server: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = wsClient.Disconnect() }()

	if err := wsClient.Join(CLI.Room, CLI.Name); err != nil {
		fmt.Printf("Failed to join room: %v\n", err)
		kctx.Exit(1)
	}

	model := tui.NewModel(wsClient, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		for msg := range wsClient.Messages() {
			program.Send(tui.ServerMsg{Message: msg})
		}
		program.Send(tui.DisconnectMsg{})
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		kctx.Exit(1)
	}
}
