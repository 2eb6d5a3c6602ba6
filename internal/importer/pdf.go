package importer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/tref/internal/forest"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFImporter adds one "Page N" node per non-empty page with the page's
// non-empty lines below it. It tries the Go library first, then falls back
// to pdftotext if enabled.
type PDFImporter struct {
	FallbackPdftotext bool
}

func (p *PDFImporter) Import(r io.Reader, filename string) (*forest.Forest[string], error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "tref-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return pagesForest(filename, strings.Split(text, "\f"))
}

// pagesForest builds the page tree from already extracted page texts.
func pagesForest(filename string, pages []string) (*forest.Forest[string], error) {
	f := forest.NewSimple()
	out, err := newOutline(f, filename, TreeID(filename))
	if err != nil {
		return nil, err
	}
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		if _, _, err := out.add(1, fmt.Sprintf("Page %d", i+1)); err != nil {
			return nil, err
		}
		for _, line := range strings.Split(page, "\n") {
			if _, _, err := out.add(2, line); err != nil {
				return nil, fmt.Errorf("page %d: %w", i+1, err)
			}
		}
	}
	return f, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
