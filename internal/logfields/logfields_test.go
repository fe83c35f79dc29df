package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Label", KeyLabel, "1.0.0", Label("1.0.0")},
		{"Operation", KeyOperation, "cut", Operation("cut")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Source", KeySource, "docs", Source("docs")},
		{"Dest", KeyDest, "versioned_docs", Dest("versioned_docs")},
		{"Commit", KeyCommit, "abc123", Commit("abc123")},
		{"Tag", KeyTag, "docs-v1.0.0", Tag("docs-v1.0.0")},
		{"File", KeyFile, "index.md", File("index.md")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Pages(3); a.Key != KeyPages || a.Value.Int64() != 3 {
		t.Fatalf("unexpected pages attr: %v", a)
	}
	if a := Bytes(1024); a.Key != KeyBytes || a.Value.Int64() != 1024 {
		t.Fatalf("unexpected bytes attr: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("expected empty string for nil error, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
