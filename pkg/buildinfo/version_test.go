package buildinfo

import (
	"strings"
	"testing"
)

func TestGetUsesStampedValues(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)
	Version, Commit = "v1.2.3", "0123456789abcdef"

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "0123456789abcdef" {
		t.Errorf("Get() = %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
	if got := info.ShortCommit(); got != "0123456789ab" {
		t.Errorf("ShortCommit() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} ") || !strings.Contains(tmpl, "commit: ") {
		t.Errorf("Template() = %q", tmpl)
	}
}
