package topic

import "testing"

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		label string
		tags  TagSet
		want  Lexeme
	}{
		{"plain tag", "title:Can log in", FullTags, Lexeme{true, TagTitle, "Can log in"}},
		{"full-width colon", "step：enter creds", FullTags, Lexeme{true, TagStep, "enter creds"}},
		{"trims both sides", "  exp :  sees dashboard  ", FullTags, Lexeme{true, TagExp, "sees dashboard"}},
		{"keeps later colons", "pre:url: http://x:8080", FullTags, Lexeme{true, TagPre, "url: http://x:8080"}},
		{"empty value", "func:", FullTags, Lexeme{true, TagFunc, ""}},
		{"no colon", "just a note", FullTags, Lexeme{}},
		{"unknown tag", "note: remember", FullTags, Lexeme{}},
		{"case sensitive", "Title: x", FullTags, Lexeme{}},
		{"module outside flat set", "module:Login", FlatTags, Lexeme{}},
		{"module in full set", "module:Login", FullTags, Lexeme{true, TagModule, "Login"}},
		{"leading colon", ":orphan", FullTags, Lexeme{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Lex(tc.label, tc.tags)
			if got != tc.want {
				t.Errorf("Lex(%q) = %+v, want %+v", tc.label, got, tc.want)
			}
		})
	}
}

func TestTagSet(t *testing.T) {
	if len(FullTags.Tags()) != 7 {
		t.Errorf("expected 7 full tags, got %d", len(FullTags.Tags()))
	}
	if len(FlatTags.Tags()) != 6 {
		t.Errorf("expected 6 flat tags, got %d", len(FlatTags.Tags()))
	}
	if FlatTags.Has(TagModule) {
		t.Error("flat set must not contain module")
	}

	s, err := NewTagSet("title", " exp ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Has(TagTitle) || !s.Has(TagExp) || s.Has(TagStep) {
		t.Errorf("unexpected membership for %v", s.Names())
	}

	if _, err := NewTagSet("title", "bogus"); err == nil {
		t.Error("expected error for unknown tag")
	}
}

func TestTagString(t *testing.T) {
	for _, name := range []string{"module", "path", "func", "title", "pre", "step", "exp"} {
		tag, ok := ParseTag(name)
		if !ok {
			t.Fatalf("ParseTag(%q) failed", name)
		}
		if tag.String() != name {
			t.Errorf("round trip: %q became %q", name, tag.String())
		}
	}
	if Tag(42).String() != "Tag(42)" {
		t.Errorf("unexpected out-of-range string %q", Tag(42).String())
	}
}
