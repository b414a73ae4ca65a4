package resume

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrNoText means the PDF opened fine but contained no extractable text
// (scanned image pages, empty document).
var ErrNoText = errors.New("no text could be extracted from the PDF")

// ExtractText pulls plain text out of an uploaded PDF. The caller has
// already checked the size limit and content type; this fails loudly rather
// than letting an empty resume produce an empty prompt.
func ExtractText(pdfBytes []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		return "", ErrNoText
	}
	return result, nil
}

// Summary is the synthesized job description stored for resume-based
// interviews, referencing the first part of the extracted text.
func Summary(resumeText string) string {
	const maxLen = 100
	snippet := resumeText
	if r := []rune(snippet); len(r) > maxLen {
		snippet = string(r[:maxLen])
	}
	return fmt.Sprintf("Interview based on resume: %s...", snippet)
}
