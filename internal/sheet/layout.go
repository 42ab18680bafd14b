package sheet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Column layout of a test-case sheet. Row 1 is the header; records start
// on row 2.
const (
	firstDataRow = 2
	recordCols   = 7 // A-G

	// Actual-result columns as laid out in the template.
	colDefault = 8  // H
	colAndroid = 9  // I
	colIOS     = 10 // J
	colH5      = 11 // K

	minColWidth = 8
	maxColWidth = 80
)

var recordHeader = []string{"用例类型", "目录", "功能点", "用例名称", "前置条件", "用例步骤", "预期结果"}

var resultHeader = map[int]string{
	colDefault: "实际结果",
	colAndroid: "Android实际结果",
	colIOS:     "iOS实际结果",
	colH5:      "H5实际结果",
}

// terminals reports which per-platform result columns a module sheet
// keeps. "APP" in the module name means Android and iOS; "H5" means H5.
type terminals struct {
	android bool
	ios     bool
	h5      bool
}

func terminalsFor(module string) terminals {
	var t terminals
	if strings.Contains(module, "APP") {
		t.android = true
		t.ios = true
	}
	if strings.Contains(module, "H5") {
		t.h5 = true
	}
	return t
}

func (t terminals) count() int {
	n := 0
	for _, on := range []bool{t.android, t.ios, t.h5} {
		if on {
			n++
		}
	}
	return n
}

// unusedColumns lists the result columns to delete, rightmost first so
// that earlier indexes stay valid while deleting.
func (t terminals) unusedColumns() []int {
	var cols []int
	if !t.h5 {
		cols = append(cols, colH5)
	}
	if !t.ios {
		cols = append(cols, colIOS)
	}
	if !t.android {
		cols = append(cols, colAndroid)
	}
	if t.count() > 0 {
		cols = append(cols, colDefault)
	}
	return cols
}

// displayWidth estimates the column width a value needs: the longest
// line, with wide (CJK) runes counted twice.
func displayWidth(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		w := 0
		for _, r := range line {
			if isWide(r) {
				w += 2
			} else {
				w++
			}
		}
		widest = max(widest, w)
	}
	return widest
}

func isWide(r rune) bool {
	return utf8.RuneLen(r) > 2 && (unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		(r >= 0xFF00 && r <= 0xFFEF))
}

// sheetName makes s a legal worksheet name: at most 31 characters and
// none of : \ / ? * [ ].
func sheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, "'")
	if s == "" {
		s = "未分类"
	}
	if utf8.RuneCountInString(s) > 31 {
		s = string([]rune(s)[:31])
	}
	return s
}
