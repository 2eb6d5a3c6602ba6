package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/tref"
)

// render serializes f so tests can compare whole trees as text.
func render(t *testing.T, f *forest.Forest[string]) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := tref.Serialize(f, &buf); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return buf.String()
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"doc.tref", "*importer.TrefImporter"},
		{"notes.TXT", "*importer.TextImporter"},
		{"readme.md", "*importer.MarkdownImporter"},
		{"readme.markdown", "*importer.MarkdownImporter"},
		{"rows.csv", "*importer.CSVImporter"},
		{"page.htm", "*importer.HTMLImporter"},
		{"report.pdf", "*importer.PDFImporter"},
		{"memo.docx", "*importer.DOCXImporter"},
	}
	for _, tt := range tests {
		imp, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", tt.filename, err)
			continue
		}
		if got := typeName(imp); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}

	if _, err := ForFile("image.png"); err == nil {
		t.Error("expected error for .png")
	}
	if IsSupportedExtension("image.png") {
		t.Error(".png reported as supported")
	}
	if !IsSupportedExtension("forest.TREF") {
		t.Error(".TREF reported as unsupported")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TrefImporter:
		return "*importer.TrefImporter"
	case *TextImporter:
		return "*importer.TextImporter"
	case *MarkdownImporter:
		return "*importer.MarkdownImporter"
	case *CSVImporter:
		return "*importer.CSVImporter"
	case *HTMLImporter:
		return "*importer.HTMLImporter"
	case *PDFImporter:
		return "*importer.PDFImporter"
	case *DOCXImporter:
		return "*importer.DOCXImporter"
	}
	return "unknown"
}

func TestTreeID(t *testing.T) {
	tests := map[string]string{
		"notes.txt":         "notes",
		"/tmp/a/report.pdf": "report",
		"weird[name].md":    "weirdname",
		"archive.tar.gz":    "archive.tar",
		"[].md":             "document",
		"":                  "document",
		"+ .md":             "document",
	}
	for in, want := range tests {
		if got := TreeID(in); got != want {
			t.Errorf("TreeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  spaced   out  ": "spaced out",
		"two\nlines":       "two lines",
		"+ + marker":       "marker",
		"+1 vote":          "1 vote",
		"++ ok":            "ok",
		"   ":              "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrefImporter(t *testing.T) {
	imp, _ := ForFile("forest.tref")
	f, err := imp.Import(strings.NewReader("[a]\n+ root\n+ + child\n"), "forest.tref")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := render(t, f); got != "[a]\n+ root\n+ + child\n" {
		t.Errorf("unexpected forest:\n%s", got)
	}

	if _, err := imp.Import(strings.NewReader("+ orphan\n"), "x.tref"); err == nil {
		t.Error("expected parse error for header-less document")
	}
}

func TestPagesForest(t *testing.T) {
	f, err := pagesForest("report.pdf", []string{"Intro\n\nFirst line", "  ", "Second page"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[report]\n+ report\n+ + Page 1\n+ + + Intro\n+ + + First line\n+ + Page 3\n+ + + Second page\n"
	if got := render(t, f); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
