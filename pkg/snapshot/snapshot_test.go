package snapshot

import (
	"context"
	"strings"
	"testing"
)

func TestCategoriesOrder(t *testing.T) {
	got := Categories()
	want := []IssueCategory{CategoryBug, CategoryFeatureRequest, CategoryUnclassified}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Callers must not be able to reorder the package-level slice.
	got[0] = CategoryUnclassified
	if Categories()[0] != CategoryBug {
		t.Error("Categories() returned shared backing array")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("FEATURE_REQUEST"); err != nil || c != CategoryFeatureRequest {
		t.Errorf("ParseCategory(FEATURE_REQUEST) = %v, %v", c, err)
	}
	if _, err := ParseCategory("bug"); err == nil {
		t.Error("ParseCategory(bug) should be case sensitive")
	}
}

func TestValidateWarnsOnDanglingReferences(t *testing.T) {
	s := New()
	s.Components["api"] = Component{ID: "api"}
	s.Interfaces["rest"] = Interface{ID: "rest", OfferedByID: "ghost", ConsumedBy: map[string]struct{}{"api": {}, "nobody": {}}}
	s.Related[FolderKey{LocationID: "api", Category: CategoryBug}] = []FolderKey{{LocationID: "void", Category: CategoryBug}}

	warnings := s.Validate()
	if len(warnings) != 3 {
		t.Fatalf("Validate() = %v, want 3 warnings", warnings)
	}
	joined := strings.Join(warnings, "\n")
	for _, want := range []string{`"ghost"`, `"nobody"`, `"void"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %s: %v", want, warnings)
		}
	}
}

func TestCountsForUnknownLocation(t *testing.T) {
	s := New()
	if got := s.Counts("nowhere").Total(); got != 0 {
		t.Errorf("Counts(nowhere).Total() = %d, want 0", got)
	}
}

func TestLocalResolver(t *testing.T) {
	s := New()
	s.Issues["api"] = []Issue{{ID: "i1", Category: CategoryBug, LocationID: "api"}}
	l := Local{Snapshot: s}

	issues, err := l.ResolveComponentDetail(context.Background(), "api")
	if err != nil || len(issues) != 1 || issues[0].ID != "i1" {
		t.Errorf("ResolveComponentDetail() = %v, %v", issues, err)
	}
	issues, err = l.ResolveInterfaceDetail(context.Background(), "unknown")
	if err != nil || len(issues) != 0 {
		t.Errorf("ResolveInterfaceDetail(unknown) = %v, %v", issues, err)
	}
}
