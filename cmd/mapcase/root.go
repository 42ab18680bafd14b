package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dgallion1/mapcase/internal/profile"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = slog.Default()

	// Profile flags, shared by convert and preview.
	profilePath string
	sheetName   string
	rootLabel   string
	classify    bool
	preset      string
)

var rootCmd = &cobra.Command{
	Use:          "mapcase",
	Short:        "Convert mind maps into test-case workbooks",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = newLogger(verbose)
		slog.SetDefault(log)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(convertCmd, previewCmd, sheetsCmd)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		NoColor:    runtime.GOOS == "windows",
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to a YAML conversion profile")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Mind-map sheet to convert (default first sheet)")
	cmd.Flags().StringVar(&rootLabel, "root", "", "Root label prefixed to every path (default central topic)")
	cmd.Flags().BoolVarP(&classify, "classify", "c", false, "Also write one sheet per module")
	cmd.Flags().StringVar(&preset, "preset", profile.PresetFull, "Tag preset: full or flat")
}

// loadProfile reads --profile when given and lets explicitly set flags
// override it.
func loadProfile(cmd *cobra.Command) (*profile.Profile, error) {
	p := profile.Default()
	if profilePath != "" {
		var err error
		if p, err = profile.LoadFile(profilePath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("sheet") {
		p.Sheet = sheetName
	}
	if flags.Changed("root") {
		p.Root = rootLabel
	}
	if flags.Changed("classify") {
		p.Classify = classify
	}
	if flags.Changed("preset") {
		if err := p.SetPreset(preset); err != nil {
			return nil, fmt.Errorf("--preset: %w", err)
		}
	}
	return p, nil
}
