package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func init() {
	rootCmd.AddCommand(newLsCmd(nil))
}

func newLsCmd(lister fsapi.Lister) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "ls [PATH]",
		Aliases: []string{"list"},
		Short:   "List a directory on the server",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := lister
			if l == nil {
				client, _, err := newClient(cmd)
				if err != nil {
					return err
				}
				l = client
			}
			cmd.SilenceUsage = true

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runLs(cmd.Context(), cmd.OutOrStdout(), l, path, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	return cmd
}

func runLs(ctx context.Context, out io.Writer, lister fsapi.Lister, path, output string) error {
	switch output {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	entries, err := lister.List(ctx, path)
	if err != nil {
		return err
	}

	switch output {
	case outputJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err

	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()

	default:
		return writeEntriesTable(out, entries)
	}
}

func writeEntriesTable(out io.Writer, entries []fsapi.DirectoryEntry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED\tTYPE")
	for _, e := range entries {
		name, size, kind := e.Name, humanize.Bytes(uint64(e.Size)), e.MimeType
		if e.IsDirectory {
			name += "/"
			size = "-"
			kind = "directory"
		}
		modified := "-"
		if !e.ModifiedAt.IsZero() {
			modified = humanize.Time(e.ModifiedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, size, modified, kind)
	}
	return tw.Flush()
}
