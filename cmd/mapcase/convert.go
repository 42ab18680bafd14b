package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dgallion1/mapcase/internal/parser"
	"github.com/dgallion1/mapcase/internal/pipeline"
	"github.com/dgallion1/mapcase/internal/profile"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var (
	templatePath string
	outputDir    string
	maxJobs      int
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert mind maps into .xlsx test-case workbooks",
	Long: `Convert one or more mind maps into test-case workbooks.

FILE may be a glob such as "maps/**/*.xmind". Each input produces
OUT/[YYYY-MM-DD_HH.MM.SS]<name>.xlsx. Inputs sharing a name are told
apart by their parent directories, e.g. a_x.xlsx and b_x.xlsx.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("template") {
			p.Template = templatePath
		}

		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		return convertAll(cmd, files, p)
	},
}

func init() {
	addProfileFlags(convertCmd)
	convertCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Workbook template to copy for each output")
	convertCmd.Flags().StringVarP(&outputDir, "out", "o", "output", "Output directory")
	convertCmd.Flags().IntVarP(&maxJobs, "jobs", "j", 4, "Conversions to run in parallel")
}

// expandInputs resolves globs to supported files, keeping literal paths
// as given and dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			if !parser.IsSupportedExtension(m) {
				log.Debug("skipping unsupported file", "path", m)
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no supported mind maps among the inputs")
	}
	return files, nil
}

// outputNames picks the name each input's workbook is named after.
// Workbooks drop the extension, so inputs sharing a base name are told
// apart by their extension (x_md.md, x_txt.txt) when that differs, and
// otherwise take on parent directories joined with "_" until the names
// differ: maps/a/x.xmind and maps/b/x.xmind become a_x.xmind and b_x.xmind.
func outputNames(files []string) map[string]string {
	parts := make(map[string][]string, len(files))
	keep := make(map[string]int, len(files))
	names := make(map[string]string, len(files))
	for _, f := range files {
		parts[f] = strings.Split(filepath.ToSlash(filepath.Clean(f)), "/")
		keep[f] = 1
		names[f] = tailName(parts[f], 1)
	}

	for {
		clashes := make(map[string][]string)
		for _, f := range files {
			key := strings.ToLower(strings.TrimSuffix(names[f], filepath.Ext(names[f])))
			clashes[key] = append(clashes[key], f)
		}

		changed := false
		for _, group := range clashes {
			if len(group) < 2 {
				continue
			}
			if distinctExts(group) {
				for _, f := range group {
					ext := filepath.Ext(f)
					names[f] = strings.TrimSuffix(names[f], ext) + "_" + strings.TrimPrefix(ext, ".") + ext
				}
				changed = true
				continue
			}
			for _, f := range group {
				if keep[f] < len(parts[f]) {
					keep[f]++
					names[f] = tailName(parts[f], keep[f])
					changed = true
				}
			}
		}
		// Paths differing only in case cannot be told apart.
		if !changed {
			return names
		}
	}
}

func distinctExts(files []string) bool {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		if seen[ext] {
			return false
		}
		seen[ext] = true
	}
	return true
}

// tailName joins the last keep elements of parts with "_".
func tailName(parts []string, keep int) string {
	tail := make([]string, 0, keep)
	for _, p := range parts[len(parts)-min(keep, len(parts)):] {
		tail = append(tail, strings.ReplaceAll(p, "..", "_"))
	}
	return strings.Join(tail, "_")
}

type convertResult struct {
	file    string
	outcome *pipeline.Outcome
	err     error
}

func convertAll(cmd *cobra.Command, files []string, p *profile.Profile) error {
	conv := pipeline.NewConverter(outputDir, log)
	stats := pipeline.NewConversionStats(time.Hour)
	names := outputNames(files)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workers := pool.New().WithMaxGoroutines(max(maxJobs, 1))
	results := make(chan convertResult, len(files))
	for _, file := range files {
		workers.Go(func() {
			data, err := os.ReadFile(file)
			if err != nil {
				results <- convertResult{file: file, err: err}
				return
			}
			out, err := conv.ConvertAs(ctx, file, names[file], data, p)
			if err == nil {
				stats.Record(out.Sample)
			}
			results <- convertResult{file: file, outcome: out, err: err}
		})
	}
	workers.Wait()
	close(results)

	collected := make([]convertResult, 0, len(files))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].file < collected[j].file })

	failed := 0
	w := cmd.OutOrStdout()
	for _, r := range collected {
		if r.err != nil {
			failed++
			log.Error("conversion failed", "file", r.file, "error", r.err)
			continue
		}
		res := r.outcome.Result
		fmt.Fprintf(w, "%s -> %s (%d cases", r.file, filepath.Base(r.outcome.Path), res.Len())
		if p.Classify {
			fmt.Fprintf(w, ", %d modules", len(res.Groups))
		}
		fmt.Fprintln(w, ")")
	}

	snap := stats.Snapshot()
	log.Debug("conversion stats", "count", snap.Count, "records", snap.Records,
		"p50_ms", snap.Total.P50Ms, "max_ms", snap.Total.MaxMs)
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(files))
	}
	return nil
}
