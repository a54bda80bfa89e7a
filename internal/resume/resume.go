// Package resume checks résumé files before upload and extracts their text
// for a local preview.
package resume

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	ErrNotPDF      = errors.New("only PDF resumes can be analyzed")
	ErrTooLarge    = errors.New("resume is too large")
	ErrEmptyFile   = errors.New("resume file is empty")
	ErrUnsupported = errors.New("unsupported resume format")
)

// Validate checks that path is a non-empty PDF no larger than maxBytes.
func Validate(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return ErrEmptyFile
	}
	if info.Size() > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, info.Size(), maxBytes)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ErrNotPDF
	}

	mime, err := sniff(path)
	if err != nil {
		return err
	}
	if mime != "application/pdf" {
		return fmt.Errorf("%w: content looks like %s", ErrNotPDF, mime)
	}
	return nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}

// ExtractText returns the plain text of a PDF or DOCX résumé.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDocx(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
	}
	return strings.TrimSpace(sb.String()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

func extractDocx(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripXML(doc.Editable().GetContent()), nil
}

// stripXML turns WordprocessingML into plain text, one line per paragraph.
func stripXML(s string) string {
	s = paragraphEnd.ReplaceAllString(s, "\n")
	s = xmlTag.ReplaceAllString(s, "")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
