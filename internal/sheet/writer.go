package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/mapcase/internal/topic"
	"github.com/xuri/excelize/v2"
)

// Layout controls how records are laid out in a workbook.
type Layout struct {
	TemplateSheet string // Sheet copied once per module
	CaseType      string // Value of column A for every record
}

// Writer renders records into .xlsx workbooks.
type Writer struct {
	layout Layout
	log    *slog.Logger
}

func NewWriter(layout Layout, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{layout: layout, log: log}
}

// WriteRecords writes records into sheet of the workbook at path. An
// existing workbook (usually a staged template) is updated in place;
// otherwise a new one is created.
func (w *Writer) WriteRecords(path, sheet string, records []topic.Record) error {
	f, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet = sheetName(sheet)
	if err := w.ensureSheet(f, sheet, false); err != nil {
		return err
	}
	if err := w.fill(f, sheet, "", records); err != nil {
		return err
	}
	return save(f, path, sheet)
}

// WriteGroups writes one sheet per group, each a copy of the template
// sheet, then drops the template sheet.
func (w *Writer) WriteGroups(path string, groups []topic.Group) error {
	f, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tmpl := w.layout.TemplateSheet
	if idx, _ := f.GetSheetIndex(tmpl); idx < 0 {
		if err := w.newTemplate(f, tmpl, true); err != nil {
			return err
		}
	}

	// Sheet names compare case-insensitively, so a module must not reuse
	// the name of any sheet already in the workbook.
	used := map[string]int{}
	for _, name := range f.GetSheetList() {
		used[strings.ToLower(name)] = 1
	}
	var first string
	for _, g := range groups {
		name := uniqueName(sheetName(g.Module), used)
		if err := copySheet(f, tmpl, name); err != nil {
			return err
		}
		if err := removeColumns(f, name, terminalsFor(g.Module)); err != nil {
			return err
		}
		if err := w.fill(f, name, g.Module, g.Records); err != nil {
			return err
		}
		if first == "" {
			first = name
		}
	}

	if len(groups) > 0 {
		if err := f.DeleteSheet(tmpl); err != nil {
			return fmt.Errorf("delete template sheet: %w", err)
		}
	}
	return save(f, path, first)
}

// fill writes the rows, borders the used range and sizes the columns.
func (w *Writer) fill(f *excelize.File, sheet, module string, records []topic.Record) error {
	for i, rec := range records {
		row := firstDataRow + i
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{w.layout.CaseType, rec.Path, rec.Func, rec.Title, rec.Pre, rec.Step, rec.Exp}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
		}
		w.log.Debug("wrote case", "sheet", sheet, "module", module, "row", row, "title", rec.Title)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read back %s: %w", sheet, err)
	}
	if err := border(f, sheet, rows); err != nil {
		return err
	}
	return autofit(f, sheet, rows)
}

// ensureSheet makes sure sheet exists, copying the template sheet when
// the workbook has one and creating a headed sheet otherwise.
func (w *Writer) ensureSheet(f *excelize.File, sheet string, terminals bool) error {
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			return writeHeader(f, sheet, terminals)
		}
		return nil
	}
	if idx, _ := f.GetSheetIndex(w.layout.TemplateSheet); idx >= 0 {
		return copySheet(f, w.layout.TemplateSheet, sheet)
	}
	return w.newTemplate(f, sheet, terminals)
}

// newTemplate creates a sheet holding only the header row.
func (w *Writer) newTemplate(f *excelize.File, sheet string, terminals bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return writeHeader(f, sheet, terminals)
}

func writeHeader(f *excelize.File, sheet string, terminals bool) error {
	header := make([]any, 0, colH5)
	for _, h := range recordHeader {
		header = append(header, h)
	}
	header = append(header, resultHeader[colDefault])
	if terminals {
		header = append(header, resultHeader[colAndroid], resultHeader[colIOS], resultHeader[colH5])
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", sheet, err)
	}
	return nil
}

func copySheet(f *excelize.File, from, to string) error {
	src, err := f.GetSheetIndex(from)
	if err != nil || src < 0 {
		return fmt.Errorf("template sheet %s not found", from)
	}
	dst, err := f.NewSheet(to)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", to, err)
	}
	if err := f.CopySheet(src, dst); err != nil {
		return fmt.Errorf("copy %s to %s: %w", from, to, err)
	}
	return nil
}

// removeColumns deletes the actual-result columns a module does not need.
func removeColumns(f *excelize.File, sheet string, t terminals) error {
	for _, col := range t.unusedColumns() {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.RemoveCol(sheet, name); err != nil {
			return fmt.Errorf("remove column %s of %s: %w", name, sheet, err)
		}
	}
	return nil
}

func border(f *excelize.File, sheet string, rows [][]string) error {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if len(rows) == 0 || width == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("create border style: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(width, len(rows))
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func autofit(f *excelize.File, sheet string, rows [][]string) error {
	var widths []int
	for _, r := range rows {
		for i, v := range r {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], displayWidth(v))
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(min(max(w+2, minColWidth), maxColWidth))
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("size column %s of %s: %w", col, sheet, err)
		}
	}
	return nil
}

// uniqueName returns name, or name with a " (n)" suffix when used already
// holds it. Keys of used are lower case.
func uniqueName(name string, used map[string]int) string {
	key := strings.ToLower(name)
	used[key]++
	if used[key] == 1 {
		return name
	}
	suffix := fmt.Sprintf(" (%d)", used[key])
	runes := []rune(name)
	if len(runes)+len(suffix) > 31 {
		runes = runes[:31-len(suffix)]
	}
	return uniqueName(string(runes)+suffix, used)
}

func activate(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return nil
}

// openOrCreate opens the workbook at path, or starts a new one whose
// default sheet is removed once another sheet exists.
func openOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
		return f, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return excelize.NewFile(), nil
}

const defaultSheet = "Sheet1"

// save writes the workbook to path with active as the selected sheet.
func save(f *excelize.File, path, active string) error {
	// Drop the placeholder sheet of a new workbook if it stayed empty.
	if f.Path == "" && active != defaultSheet && len(f.GetSheetList()) > 1 {
		if rows, err := f.GetRows(defaultSheet); err == nil && len(rows) == 0 {
			if err := f.DeleteSheet(defaultSheet); err != nil {
				return err
			}
		}
	}
	if active != "" {
		if err := activate(f, active); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
