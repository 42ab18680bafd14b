package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/mapcase/internal/pipeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Print the test cases of a mind map without writing a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		res, sh, err := pipeline.Preview(data, args[0], p)
		if err != nil {
			return err
		}
		log.Debug("previewed", "sheet", sh.Title, "records", res.Len(), "groups", len(res.Groups))

		out := cmd.OutOrStdout()
		if previewJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(res)
	},
}

func init() {
	addProfileFlags(previewCmd)
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print JSON instead of YAML")
}
