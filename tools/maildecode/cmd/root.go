// Package cmd holds the commands of the maildecode tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	email "github.com/zostay/go-maildecode"
	"github.com/zostay/go-maildecode/internal/config"
)

// NewRoot builds the maildecode command with all of its subcommands.
func NewRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "maildecode",
		Short:        "Tools for pulling the text and attachments out of raw email",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newHeadersCmd())
	rootCmd.AddCommand(newBodyCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newPartsCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func Execute() error {
	return NewRoot().Execute()
}

// readMessage reads the message from the file named in args or, when there is
// none, from standard input.
func readMessage(cmd *cobra.Command, args []string) (*email.Message, error) {
	if len(args) == 0 {
		return email.ReadMessage(cmd.InOrStdin())
	}

	msgFile, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("unable to open message: %w", err)
	}
	defer func() { _ = msgFile.Close() }()

	return email.ReadMessage(msgFile)
}

// loadConfig loads the named config file, or just the environment when no
// file is named.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}
