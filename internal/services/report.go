package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sira-labs/voice-assessment/internal/models"
)

// ReportRenderer turns the accumulated session data into a paginated
// document artifact at outputPath.
type ReportRenderer interface {
	Render(analysis *models.CVAnalysis, history []models.QARecord, summary, outputPath string) error
}

type pdfReportRenderer struct{}

func NewPDFReportRenderer() ReportRenderer {
	return &pdfReportRenderer{}
}

const (
	bodyLineHeight = 5.5
	maxSkillsShown = 10
)

// Render implements ReportRenderer. The summary text may carry lightweight
// markup: ## and ### headings, "* " bullets, **bold** and *italic* emphasis,
// and "---" rules (skipped).
func (r *pdfReportRenderer) Render(analysis *models.CVAnalysis, history []models.QARecord, summary, outputPath string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(46, 134, 171)
		pdf.CellFormat(0, 6, tr("SIRA - Professional Assessment Report"), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(80, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, time.Now().Format("2 January 2006"), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(46, 134, 171)
	pdf.MultiCell(0, 10, tr("Professional Assessment Report"), "", "C", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10.5)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, bodyLineHeight, tr(fmt.Sprintf("Generated on: %s", time.Now().Format("2 January 2006"))), "", "C", false)
	pdf.Ln(8)

	r.writeAnalysisOverview(pdf, tr, analysis)

	if strings.TrimSpace(summary) != "" {
		r.writeHeading(pdf, tr, "Professional Assessment Summary")
		r.writeMarkup(pdf, tr, summary)
		pdf.Ln(6)
	}

	r.writeTranscript(pdf, tr, history)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func (r *pdfReportRenderer) writeAnalysisOverview(pdf *fpdf.Fpdf, tr func(string) string, analysis *models.CVAnalysis) {
	r.writeHeading(pdf, tr, "CV Analysis Overview")

	if analysis.Summary != "" {
		r.writeLabeled(pdf, tr, "Professional Summary", analysis.Summary)
	}
	if analysis.CareerStage != "" {
		r.writeLabeled(pdf, tr, "Career Stage", analysis.CareerStage)
	}
	if analysis.ExperienceYears > 0 {
		r.writeLabeled(pdf, tr, "Years of Experience", fmt.Sprintf("%d", analysis.ExperienceYears))
	}
	if len(analysis.KeySkills) > 0 {
		skills := analysis.KeySkills
		if len(skills) > maxSkillsShown {
			skills = skills[:maxSkillsShown]
		}
		r.writeLabeled(pdf, tr, "Key Skills", strings.Join(skills, ", "))
	}

	pdf.Ln(6)
}

func (r *pdfReportRenderer) writeTranscript(pdf *fpdf.Fpdf, tr func(string) string, history []models.QARecord) {
	r.writeHeading(pdf, tr, "Interview Questions and Answers")

	for i, qa := range history {
		r.writeLabeled(pdf, tr, fmt.Sprintf("Question %d", i+1), qa.Question)
		r.writeLabeled(pdf, tr, "Answer", qa.Answer)
		pdf.Ln(4)
	}
}

func (r *pdfReportRenderer) writeHeading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(46, 134, 171)
	pdf.MultiCell(0, 7, tr(text), "", "L", false)
	pdf.Ln(2)
	pdf.SetTextColor(0, 0, 0)
}

func (r *pdfReportRenderer) writeSubheading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(46, 134, 171)
	pdf.MultiCell(0, 6, tr(text), "", "L", false)
	pdf.Ln(1)
	pdf.SetTextColor(0, 0, 0)
}

// writeLabeled writes a "Label: value" paragraph with a bold label.
func (r *pdfReportRenderer) writeLabeled(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 10.5)
	pdf.Write(bodyLineHeight, tr(label+": "))
	r.writeInline(pdf, tr, value, 10.5)
	pdf.Ln(bodyLineHeight + 2)
}

// writeMarkup walks the summary line by line, mapping the lightweight markup
// onto document elements. Consecutive bullets form one list.
func (r *pdfReportRenderer) writeMarkup(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		if clean == "" {
			pdf.Ln(2)
			continue
		}

		switch {
		case strings.HasPrefix(clean, "###"):
			r.writeSubheading(pdf, tr, strings.TrimSpace(clean[3:]))
		case strings.HasPrefix(clean, "##"):
			pdf.Ln(3)
			r.writeHeading(pdf, tr, strings.TrimSpace(clean[2:]))
		case strings.HasPrefix(clean, "* "):
			pdf.SetFont("Helvetica", "", 10.5)
			pdf.Write(bodyLineHeight, tr("  • "))
			r.writeInline(pdf, tr, strings.TrimPrefix(clean, "* "), 10.5)
			pdf.Ln(bodyLineHeight)
		case strings.HasPrefix(clean, "---"):
			continue
		default:
			r.writeInline(pdf, tr, clean, 10.5)
			pdf.Ln(bodyLineHeight + 2)
		}
	}
}

// writeInline renders a text fragment honoring **bold** and *italic* markers.
func (r *pdfReportRenderer) writeInline(pdf *fpdf.Fpdf, tr func(string) string, text string, size float64) {
	for _, run := range parseInline(text) {
		pdf.SetFont("Helvetica", run.style, size)
		pdf.Write(bodyLineHeight, tr(run.text))
	}
}

type inlineRun struct {
	text  string
	style string
}

// parseInline splits a fragment into styled runs. "**" toggles bold, a
// single "*" toggles italic. Unbalanced markers style the rest of the line.
func parseInline(text string) []inlineRun {
	var runs []inlineRun
	var current strings.Builder
	bold, italic := false, false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		style := ""
		if bold {
			style += "B"
		}
		if italic {
			style += "I"
		}
		runs = append(runs, inlineRun{text: current.String(), style: style})
		current.Reset()
	}

	for i := 0; i < len(text); i++ {
		if text[i] == '*' {
			if i+1 < len(text) && text[i+1] == '*' {
				flush()
				bold = !bold
				i++
				continue
			}
			flush()
			italic = !italic
			continue
		}
		current.WriteByte(text[i])
	}
	flush()

	if len(runs) == 0 {
		runs = append(runs, inlineRun{text: text})
	}

	return runs
}
