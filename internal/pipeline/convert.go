package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/mapcase/internal/outline"
	"github.com/dgallion1/mapcase/internal/parser"
	"github.com/dgallion1/mapcase/internal/profile"
	"github.com/dgallion1/mapcase/internal/sheet"
	"github.com/dgallion1/mapcase/internal/topic"
)

// Outcome describes one finished conversion.
type Outcome struct {
	Path   string        // Written workbook
	Sheet  string        // Mind-map sheet that was converted
	Result *topic.Result // Aggregated records
	Sample Sample        // Phase timings and counts
}

// ReadWorkbook parses an uploaded mind map, choosing the parser by the
// file extension.
func ReadWorkbook(data []byte, filename string) (*outline.Workbook, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	wb, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return wb, nil
}

// ReadSheet parses data and selects the sheet called name, or the first
// sheet when name is empty.
func ReadSheet(data []byte, filename, name string) (*outline.Sheet, error) {
	wb, err := ReadWorkbook(data, filename)
	if err != nil {
		return nil, err
	}
	return wb.FindSheet(name)
}

// Aggregate runs the topic aggregation of sh under p. The central topic
// is never lexed or validated: it only names the root, unless p sets an
// explicit root label, and aggregation covers its subtopics.
func Aggregate(sh *outline.Sheet, p *profile.Profile) (*topic.Result, error) {
	opts := p.Options()
	if sh.Root == nil {
		return topic.Aggregate(nil, opts)
	}
	if opts.RootLabel == "" {
		opts.RootLabel = sh.Root.Title
	}
	return topic.Aggregate(&outline.Node{Children: sh.Root.Children}, opts)
}

// Preview reads and aggregates a mind map without writing anything.
func Preview(data []byte, filename string, p *profile.Profile) (*topic.Result, *outline.Sheet, error) {
	sh, err := ReadSheet(data, filename, p.Sheet)
	if err != nil {
		return nil, nil, err
	}
	res, err := Aggregate(sh, p)
	if err != nil {
		return nil, sh, err
	}
	return res, sh, nil
}

// Converter stages output workbooks and writes aggregated records into them.
type Converter struct {
	outputDir string
	log       *slog.Logger
	now       func() time.Time
}

func NewConverter(outputDir string, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{outputDir: outputDir, log: log, now: time.Now}
}

// Write stages a workbook named after filename and fills it: every record goes
// to the cases sheet, and with classification each module also gets a
// sheet of its own. A failed write removes the staged file.
func (c *Converter) Write(filename string, res *topic.Result, p *profile.Profile) (string, error) {
	path, err := sheet.Stage(p.Template, c.outputDir, filename, c.now())
	if err != nil {
		return "", err
	}

	w := sheet.NewWriter(sheet.Layout{TemplateSheet: p.TemplateSheet, CaseType: p.CaseType}, c.log)
	if err := w.WriteRecords(path, p.CasesSheet, res.Records); err != nil {
		c.discard(path)
		return "", fmt.Errorf("write cases: %w", err)
	}
	if p.Classify {
		if err := w.WriteGroups(path, res.Groups); err != nil {
			c.discard(path)
			return "", fmt.Errorf("write modules: %w", err)
		}
	}
	return path, nil
}

// Convert runs a whole conversion: read, aggregate, stage and write.
func (c *Converter) Convert(ctx context.Context, filename string, data []byte, p *profile.Profile) (*Outcome, error) {
	return c.ConvertAs(ctx, filename, filename, data, p)
}

// ConvertAs is Convert with the output workbook named after name instead
// of filename.
func (c *Converter) ConvertAs(ctx context.Context, filename, name string, data []byte, p *profile.Profile) (*Outcome, error) {
	var sample Sample

	start := time.Now()
	sh, err := ReadSheet(data, filename, p.Sheet)
	if err != nil {
		return nil, err
	}
	sample.Observe(PhaseParse, start)

	start = time.Now()
	res, err := Aggregate(sh, p)
	if err != nil {
		return nil, err
	}
	sample.Observe(PhaseAggregate, start)
	sample.Records, sample.Groups = res.Len(), len(res.Groups)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	path, err := c.Write(name, res, p)
	if err != nil {
		return nil, err
	}
	sample.Observe(PhaseWrite, start)

	c.log.Info("converted", "filename", filename, "sheet", sh.Title, "records", res.Len(), "groups", len(res.Groups), "output", path)
	return &Outcome{Path: path, Sheet: sh.Title, Result: res, Sample: sample}, nil
}

func (c *Converter) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log.Warn("failed to remove partial output", "path", path, "error", err)
	}
}
