// Package main provides the parley CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/parley/cli"
	"github.com/richinex/parley/config"
)

var (
	// Global flags
	backend  string
	modelArg string
	userName string
	logLevel string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "parley",
		Short: "Provider-agnostic chat completions",
		Long: `Chat with LLM backends behind one interface.

Backends: openai, azure, gemini, anthropic. Credentials come from the
environment (or a .env file); see config for the variable names.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := config.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			config.InitLogging(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "openai", "chat backend (openai, azure, gemini, anthropic)")
	rootCmd.PersistentFlags().StringVarP(&modelArg, "model", "m", "", "model name (backend default when empty)")
	rootCmd.PersistentFlags().StringVarP(&userName, "name", "n", "", "speaker name attached to user messages")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{Backend: backend, Model: modelArg, UserName: userName}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Send a single question and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], options())
		},
	}
}

func chatCmd() *cobra.Command {
	var sessionID string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

History is kept per session and trimmed to the model's context window
before each send. With --db, history persists across runs in SQLite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), sessionID, dbPath, options())
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session ID (generated when empty)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path for persistent history")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the supported models for a backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Models(options())
		},
	}
}
