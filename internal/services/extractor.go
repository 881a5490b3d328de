package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/sira-labs/voice-assessment/internal/models"
)

type ExtractorService interface {
	ExtractText(filePath, originalName string) (string, error)
}

type extractorService struct{}

func NewExtractorService() ExtractorService {
	return &extractorService{}
}

// ExtractText pulls plain text out of an uploaded CV. The extension of the
// original filename picks the parsing strategy. Empty output is a
// ValidationError: a session is never created from an unreadable CV.
func (e *extractorService) ExtractText(filePath, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))

	var text string
	var err error

	switch ext {
	case ".pdf":
		text, err = e.extractPDF(filePath)
	case ".doc", ".docx":
		text, err = e.extractWord(filePath, ext)
	default:
		return "", fmt.Errorf("%w: unsupported file format %s", models.ErrValidation, ext)
	}

	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text content found in CV", models.ErrValidation)
	}

	return text, nil
}

func (e *extractorService) extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func (e *extractorService) extractWord(filePath, ext string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	mimeType := "application/msword"
	if ext == ".docx" {
		mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	res, err := docconv.Convert(f, mimeType, false)
	if err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}

	return res.Body, nil
}

// CleanText normalizes extracted text: trims every line and drops empties.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
