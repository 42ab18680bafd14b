package topic

import (
	"errors"
	"testing"

	"github.com/dgallion1/mapcase/internal/outline"
)

func TestValidate_WellFormed(t *testing.T) {
	root := tree("Suite",
		tree("module:Login",
			tree("notes for reviewers",
				tree("title:Can log in",
					tree("exp:sees dashboard")))))
	if err := Validate(root, FullTags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingColon(t *testing.T) {
	root := tree("Suite",
		tree("title:ok", tree("exp:fine")),
		tree("title:second", tree("step without colon")),
	)
	err := Validate(root, FullTags)
	var mt *MalformedTopicError
	if !errors.As(err, &mt) {
		t.Fatalf("expected MalformedTopicError, got %v", err)
	}
	if mt.Label != "step without colon" {
		t.Errorf("expected label %q, got %q", "step without colon", mt.Label)
	}
}

func TestValidate_FirstOffenderInPreOrder(t *testing.T) {
	root := tree("Suite",
		tree("a", tree("exp first")),
		tree("title second"),
	)
	var mt *MalformedTopicError
	if !errors.As(Validate(root, FullTags), &mt) {
		t.Fatal("expected MalformedTopicError")
	}
	if mt.Label != "exp first" {
		t.Errorf("expected first offender %q, got %q", "exp first", mt.Label)
	}
}

func TestValidate_PrefixIsCaseAndSpaceSensitive(t *testing.T) {
	for _, label := range []string{"Step one", " step one", "Title", "an exp"} {
		if err := Validate(tree(label), FullTags); err != nil {
			t.Errorf("label %q: unexpected error %v", label, err)
		}
	}
}

func TestValidate_FullWidthColonAccepted(t *testing.T) {
	if err := Validate(tree("title：x"), FullTags); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ModuleOnlyReservedInFullSet(t *testing.T) {
	if err := Validate(tree("module Login"), FlatTags); err != nil {
		t.Errorf("flat set: unexpected error %v", err)
	}
	if err := Validate(tree("module Login"), FullTags); err == nil {
		t.Error("full set: expected error")
	}
}

func TestValidate_UntaggedContainers(t *testing.T) {
	root := tree("Suite", tree("group", tree("leaf note")))
	if err := Validate(root, FullTags); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_NilRoot(t *testing.T) {
	var root *outline.Node
	if err := Validate(root, FullTags); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
