package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-maildecode/message"
	"github.com/zostay/go-maildecode/message/content"
	"github.com/zostay/go-maildecode/message/walker"
)

func newPartsCmd() *cobra.Command {
	partsCmd := &cobra.Command{
		Use:   "parts [message]",
		Short: "Show the tree of MIME parts in a message",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunParts,
	}

	partsCmd.Flags().Int("max-depth", message.DefaultMaxMultipartDepth, "how deeply to split nested multipart parts, -1 for no limit")

	return partsCmd
}

func RunParts(cmd *cobra.Command, args []string) error {
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return err
	}

	m, err := readMessage(cmd, args)
	if err != nil {
		return err
	}

	tree := m.Tree(message.WithMaxDepth(maxDepth))

	var show walker.Parts = func(depth, i int, part message.Part) error {
		h := part.GetHeader()
		indent := strings.Repeat("  ", depth)

		if part.IsMultipart() {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s%d %s (%d parts)\n",
				indent, i, h.GetContentType().MediaType(), len(part.GetParts()))
			return err
		}

		line := fmt.Sprintf("%s%d %s %d bytes", indent, i, h.GetContentType().MediaType(), len(part.GetContent()))
		if disp := h.GetPresentation(); disp != "" {
			line += " " + disp + " " + content.Filename(h)
		}
		if op, ok := part.(*message.Opaque); ok && op.Degraded {
			line += " degraded"
		}

		_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
		return err
	}

	return show.Walk(tree)
}
