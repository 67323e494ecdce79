package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/syncflow"
	"github.com/spf13/cobra"
)

var errSyncDeclined = errors.New("sync cancelled")

func init() {
	rootCmd.AddCommand(newSyncCmd(nil))
}

// newSyncCmd builds the sync command. syncer overrides the server client
// in tests.
func newSyncCmd(syncer fsapi.Syncer) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "sync SOURCE DESTINATION",
		Short: "Sync SOURCE into DESTINATION on the server",
		Long: "Copies new and changed files from SOURCE into DESTINATION. Paths are relative to the server root.\n" +
			"A pair that was never synced before asks for confirmation unless --yes is given.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := syncer
			if s == nil {
				client, _, err := newClient(cmd)
				if err != nil {
					return err
				}
				s = client
			}
			cmd.SilenceUsage = true

			var confirmer syncflow.Confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirmer = syncflow.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
			}

			return runSync(cmd.Context(), cmd.OutOrStdout(), s, args[0], args[1], confirmer)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Create a new sync pair without asking")
	return cmd
}

func runSync(ctx context.Context, out io.Writer, syncer fsapi.Syncer, source, destination string, confirmer syncflow.Confirmer) error {
	// the controller never lists here, the browser is unused
	ctrl := syncflow.New(nil, syncer)
	if err := ctrl.SetPath(syncflow.RoleSource, source); err != nil {
		return err
	}
	if err := ctrl.SetPath(syncflow.RoleDestination, destination); err != nil {
		return err
	}

	outcome, err := ctrl.Run(ctx, confirmer)
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case syncflow.OutcomeSuccess:
		printReport(out, outcome.Report)
		return nil
	case syncflow.OutcomeDeclined:
		fmt.Fprintln(out, yellow.Render("Sync cancelled, no pair was created."))
		return errSyncDeclined
	default:
		return outcome.Err
	}
}

func printReport(out io.Writer, report *fsapi.SyncReport) {
	if report == nil {
		fmt.Fprintln(out, green.Render("Sync completed"))
		return
	}

	if report.PairCreated {
		fmt.Fprintf(out, "Created sync pair #%d\n", report.Pair.ID)
	}
	fmt.Fprintf(out, "%s %s → %s: %d file(s) copied\n",
		green.Render("Synced"),
		cyan.Render(report.Pair.Source),
		cyan.Render(report.Pair.Destination),
		len(report.Copied),
	)
	for _, p := range report.Copied {
		fmt.Fprintf(out, "  %s\n", lightGray.Render(p))
	}
}

// promptConfirmer asks on out and reads a y/n answer from in. Anything
// other than y or yes is a no.
func promptConfirmer(in io.Reader, out io.Writer) syncflow.Confirmer {
	reader := bufio.NewReader(in)
	return syncflow.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", message)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
