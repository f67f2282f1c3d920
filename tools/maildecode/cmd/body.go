package cmd

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cobra"
)

func newBodyCmd() *cobra.Command {
	bodyCmd := &cobra.Command{
		Use:   "body [message]",
		Short: "Print the plain text or HTML body of a message",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunBody,
	}

	bodyCmd.Flags().Bool("html", false, "print the HTML body instead of the plain text body")
	bodyCmd.Flags().Bool("sanitize", false, "strip scripts and other unsafe markup from the HTML body")

	return bodyCmd
}

func RunBody(cmd *cobra.Command, args []string) error {
	html, err := cmd.Flags().GetBool("html")
	if err != nil {
		return err
	}

	sanitize, err := cmd.Flags().GetBool("sanitize")
	if err != nil {
		return err
	}

	m, err := readMessage(cmd, args)
	if err != nil {
		return err
	}

	body := m.PlainResult()
	if html {
		body = m.HTMLResult()
	}

	if body.Degraded {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: body could not be decoded without loss")
	}

	text := body.Text
	if html && sanitize {
		text = bluemonday.UGCPolicy().Sanitize(text)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
