package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"excheck/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List the discovered exercises without running them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.New(exerciseRoot(args), logger)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EXERCISE\tLANGUAGE\tCHECK")
		count := 0
		for {
			ex, err := reg.Next(cmd.Context())
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ex.ID, ex.Language, ex.Check.Kind)
			count++
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d exercise(s)", count)
		if skipped := reg.Skipped(); skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d malformed file(s) skipped", skipped)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}
