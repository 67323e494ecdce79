package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/spf13/cobra"
)

func init() {
	pairsCmd := newPairsCmd()
	pairsCmd.AddCommand(newPairsJobsCmd())
	rootCmd.AddCommand(pairsCmd)
}

func newPairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "List linked source/destination pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			pairs, err := client.Pairs(cmd.Context())
			if err != nil {
				return err
			}
			return writePairsTable(cmd.OutOrStdout(), pairs)
		},
	}
}

func newPairsJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs PAIR_ID",
		Short: "List recent sync jobs of a pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pair id %q", args[0])
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			jobs, err := client.Jobs(cmd.Context(), pairID)
			if err != nil {
				return err
			}
			return writeJobsTable(cmd.OutOrStdout(), jobs)
		},
	}
}

func writePairsTable(out io.Writer, pairs []fsapi.SyncPair) error {
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(out, "No sync pairs yet")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tDESTINATION\tCREATED")
	for _, p := range pairs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Source, p.Destination, humanize.Time(p.CreatedAt))
	}
	return tw.Flush()
}

func writeJobsTable(out io.Writer, jobs []fsapi.SyncJob) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tFILES\tSTARTED\tDURATION\tERROR")
	for _, j := range jobs {
		duration := "-"
		if j.CompletedAt != nil {
			duration = j.CompletedAt.Sub(j.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n", j.ID, j.Status, j.FilesCopied, humanize.Time(j.StartedAt), duration, j.Error)
	}
	return tw.Flush()
}
