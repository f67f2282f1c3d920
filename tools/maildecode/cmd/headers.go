package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-maildecode/message/header"
)

func newHeadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers [message]",
		Short: "Print the header fields of a message with encoded words decoded",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunHeaders,
	}
}

func RunHeaders(cmd *cobra.Command, args []string) error {
	m, err := readMessage(cmd, args)
	if err != nil {
		return err
	}

	if bs := m.BadStart(); len(bs) > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d lines before the header\n", len(bs))
	}

	h := m.GetHeader()
	for _, name := range h.Names() {
		for _, v := range h.GetAll(name) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, header.DecodeWords(v))
		}
	}

	return nil
}
