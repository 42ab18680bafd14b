package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/mapcase/internal/pipeline"
	"github.com/spf13/cobra"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets FILE",
	Short: "List the sheets of a mind map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		wb, err := pipeline.ReadWorkbook(data, args[0])
		if err != nil {
			return err
		}
		for _, sh := range wb.Sheets {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d topics\n", sh.Title, sh.Root.Count())
		}
		return nil
	},
}
