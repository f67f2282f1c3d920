package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	email "github.com/zostay/go-maildecode"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [message]",
		Short: "Decode the bodies and attachments of a message",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunDecode,
	}

	decodeCmd.Flags().String("config", "", "YAML configuration file")
	decodeCmd.Flags().String("dir", "", "save attachments into this directory")
	decodeCmd.Flags().String("db", "", "save attachments into this SQLite database")
	decodeCmd.Flags().Bool("json", false, "print the result as JSON")

	return decodeCmd
}

func RunDecode(cmd *cobra.Command, args []string) error {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	if dir != "" {
		cfg.Attachments.Directory = dir
		cfg.Attachments.Save = true
	}
	if dbPath != "" {
		cfg.Attachments.Database = dbPath
		cfg.Attachments.Save = true
	}

	logger := cfg.Logger(cmd.ErrOrStderr())

	m, err := readMessage(cmd, args)
	if err != nil {
		return err
	}

	sink, closer, err := cfg.Sink(logger)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	d, err := m.Decode(
		email.WithLogger(logger),
		email.WithPolicy(cfg.Policy()),
		email.WithSink(sink),
	)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	return printDecoded(cmd.OutOrStdout(), d)
}

func printDecoded(w io.Writer, d *email.Decoded) error {
	_, _ = fmt.Fprintln(w, "--- plain ---")
	_, _ = fmt.Fprint(w, d.Plain)
	_, _ = fmt.Fprintln(w, "--- html ---")
	_, _ = fmt.Fprint(w, d.HTML)
	_, _ = fmt.Fprintln(w, "--- attachments ---")

	for _, a := range d.Attachments {
		where := a.Path
		if where == "" {
			where = "(memory)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, a.MimeType, a.HumanSize, where)
	}

	if d.Degraded {
		_, _ = fmt.Fprintln(w, "--- degraded ---")
	}

	return nil
}
