package sheet

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MissingTemplateError is returned when the template to stage is not a
// regular file.
type MissingTemplateError struct {
	Path string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("template %s is not a file", e.Path)
}

// DuplicateOutputError is returned when the staged output already exists.
type DuplicateOutputError struct {
	Path string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("output %s already exists", e.Path)
}

// OutputName builds the timestamped workbook name for name, e.g.
// "[2021-11-08_14.06.05]cases.xlsx".
func OutputName(name string, now time.Time) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return now.Format("[2006-01-02_15.04.05]") + base + ".xlsx"
}

// Stage prepares the output workbook path in outputDir. With a template
// the template is copied there; without one only the path is reserved
// and the writer creates a fresh workbook.
func Stage(templatePath, outputDir, name string, now time.Time) (string, error) {
	if templatePath != "" {
		info, err := os.Stat(templatePath)
		if err != nil || !info.Mode().IsRegular() {
			return "", &MissingTemplateError{Path: templatePath}
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(outputDir, OutputName(name, now))

	if templatePath == "" {
		if _, err := os.Stat(target); err == nil {
			return "", &DuplicateOutputError{Path: target}
		}
		return target, nil
	}

	if err := copyFile(templatePath, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", &DuplicateOutputError{Path: target}
		}
		return "", err
	}
	return target, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy template: %w", err)
	}
	return out.Close()
}
