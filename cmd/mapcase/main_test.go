package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mapcase/internal/topic"
	"github.com/spf13/cobra"
)

const suiteOutline = `Suite
	module:APP Login
		title:Can log in
			exp:sees dashboard
	module:Pay
		title:Pay ok
			exp:paid
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), suiteOutline)
	writeFile(t, filepath.Join(dir, "nested", "deep", "b.md"), "# Suite\n")
	writeFile(t, filepath.Join(dir, "notes.pptx"), "x")

	files, err := expandInputs([]string{filepath.Join(dir, "**", "*"), filepath.Join(dir, "a.txt")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "nested", "deep", "b.md")}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d: expected %q, got %q", i, want[i], files[i])
		}
	}

	if _, err := expandInputs([]string{filepath.Join(dir, "missing.xmind")}); err == nil {
		t.Error("expected error for unmatched input")
	}
	if _, err := expandInputs([]string{filepath.Join(dir, "*.pptx")}); err == nil {
		t.Error("expected error when nothing is supported")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "login.txt"), suiteOutline)
	writeFile(t, filepath.Join(dir, "maps", "sub", "pay.txt"), suiteOutline)
	out := filepath.Join(dir, "out")

	stdout, err := run(t, "convert", filepath.Join(dir, "maps", "**", "*.txt"), "--out", out, "--classify", "--jobs", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(stdout, "(2 cases, 2 modules)"); n != 2 {
		t.Errorf("expected a summary line per file, got %q", stdout)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 workbooks, got %d", len(entries))
	}
}

func TestOutputNames(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  map[string]string
	}{
		{
			"unique",
			[]string{"maps/x.xmind", "maps/y.xmind"},
			map[string]string{"maps/x.xmind": "x.xmind", "maps/y.xmind": "y.xmind"},
		},
		{
			"same base",
			[]string{"maps/a/x.xmind", "maps/b/x.xmind", "maps/y.xmind"},
			map[string]string{"maps/a/x.xmind": "a_x.xmind", "maps/b/x.xmind": "b_x.xmind", "maps/y.xmind": "y.xmind"},
		},
		{
			"same parent name",
			[]string{"p/c/x.txt", "q/c/x.txt"},
			map[string]string{"p/c/x.txt": "p_c_x.txt", "q/c/x.txt": "q_c_x.txt"},
		},
		{
			"extension only",
			[]string{"maps/x.md", "maps/x.txt"},
			map[string]string{"maps/x.md": "x_md.md", "maps/x.txt": "x_txt.txt"},
		},
		{
			"case only",
			[]string{"a/Login.txt", "b/login.txt"},
			map[string]string{"a/Login.txt": "a_Login.txt", "b/login.txt": "b_login.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []string
			for _, f := range tt.files {
				files = append(files, filepath.FromSlash(f))
			}
			got := outputNames(files)
			for f, want := range tt.want {
				if got[filepath.FromSlash(f)] != want {
					t.Errorf("%s: expected %q, got %q", f, want, got[filepath.FromSlash(f)])
				}
			}
		})
	}
}

func TestConvertCommand_SameBaseName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "a", "x.txt"), suiteOutline)
	writeFile(t, filepath.Join(dir, "maps", "b", "x.txt"), suiteOutline)
	out := filepath.Join(dir, "out")

	stdout, err := run(t, "convert", filepath.Join(dir, "maps", "**", "x.txt"), "--out", out)
	if err != nil {
		t.Fatalf("unexpected error: %v (%s)", err, stdout)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, e := range entries {
		_, name, _ := strings.Cut(e.Name(), "]")
		found[name] = true
	}
	if len(entries) != 2 || !found["a_x.xlsx"] || !found["b_x.xlsx"] {
		t.Errorf("expected a_x and b_x workbooks, got %v", entries)
	}
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "suite.txt")
	writeFile(t, file, suiteOutline)

	stdout, err := run(t, "preview", file, "--json", "--root", "R", "--classify=false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res topic.Result
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(res.Records) != 2 || res.Records[0].Path != "R-APP Login-" {
		t.Errorf("unexpected records %+v", res.Records)
	}
}

func TestPreviewCommand_Malformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.txt")
	writeFile(t, file, "Suite\n\ttitle no colon\n")
	if _, err := run(t, "preview", file, "--json"); err == nil {
		t.Fatal("expected malformed topic error")
	}
}

func TestSheetsCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plan.md")
	writeFile(t, file, "# Login\n- title:a\n# Pay\n- title:b\n")
	stdout, err := run(t, "sheets", file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Login\t") || !strings.HasPrefix(lines[1], "Pay\t") {
		t.Errorf("unexpected sheets output %q", stdout)
	}
}

func TestLoadProfile_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	writeFile(t, path, "preset: flat\nroot: FromFile\nclassify: true\n")

	cmd := &cobra.Command{Use: "flags"}
	addProfileFlags(cmd)
	if err := cmd.Flags().Set("profile", path); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("root", "FromFlag"); err != nil {
		t.Fatal(err)
	}

	p, err := loadProfile(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Root != "FromFlag" {
		t.Errorf("expected flag to win, got root %q", p.Root)
	}
	if p.TagSet() != topic.FlatTags || !p.Classify {
		t.Errorf("expected file settings to remain, got %+v", p)
	}
}
