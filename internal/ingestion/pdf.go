package ingestion

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/fefe-learning/curriculum-ai/internal/document"
)

// ExtractPDF pulls the plain text and file metadata out of a PDF on disk.
// Page markers are kept in the text so downstream extraction can reference
// page positions the same way the rest of the pipeline expects.
func ExtractPDF(path string) (string, document.Metadata, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", document.Metadata{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	meta := document.Metadata{
		Title:  "Unknown",
		Author: "Unknown",
		Pages:  reader.NumPage(),
	}

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		if title := info.Key("Title"); !title.IsNull() && title.Text() != "" {
			meta.Title = title.Text()
		}
		if author := info.Key("Author"); !author.IsNull() && author.Text() != "" {
			meta.Author = author.Text()
		}
	}

	var buf strings.Builder
	extracted := false
	for i := 1; i <= meta.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fmt.Fprintf(&buf, "\n--- Page %d ---\n", i)
		buf.WriteString(text)
		extracted = true
	}

	if !extracted {
		return "", document.Metadata{}, fmt.Errorf("no extractable text in %s", path)
	}

	text := buf.String()
	meta.WordCount = len(strings.Fields(text))

	return text, meta, nil
}
