// Package report renders an evaluation session into a downloadable PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	ContentType = "application/pdf"

	pageMargin = 18.0
	lineHeight = 5.2
	indentStep = 6.0
	fontBody   = "Helvetica"
	fontCode   = "Courier"
)

// ErrNoResume is returned when the document has no résumé section.
var ErrNoResume = errors.New("report requires a resume evaluation")

// Document is the frozen input of a report.
type Document struct {
	CandidateName string
	SessionID     string
	GeneratedAt   time.Time
	Resume        *Section
	Profile       *Section
	Verdict       *VerdictSection
}

// Section is one evaluated level.
type Section struct {
	Score     float64
	Threshold float64
	Passed    bool
	Narrative string
	// Subject names what was evaluated, such as a profile URL.
	Subject string
}

type VerdictSection struct {
	Decision   string
	Confidence string
	Composite  float64
	Gate       float64
	Narrative  string
}

// Render produces the PDF bytes for doc.
func Render(doc Document) ([]byte, error) {
	if doc.Resume == nil {
		return nil, ErrNoResume
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}
	name := strings.TrimSpace(doc.CandidateName)
	if name == "" {
		name = "Candidate"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Candidate Evaluation Report", true)
	pdf.SetCreator("hiring-backend", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.AliasNbPages("")

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontBody, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	w.title("Candidate Evaluation Report")
	w.keyValue("Candidate", name)
	w.keyValue("Date", doc.GeneratedAt.Format("January 2, 2006"))
	if doc.SessionID != "" {
		w.keyValue("Session", doc.SessionID)
	}
	pdf.Ln(4)

	w.section("Executive Summary")
	w.summaryTable(doc)
	if doc.Verdict != nil {
		w.keyValue("Decision", fmt.Sprintf("%s (confidence %s)", doc.Verdict.Decision, doc.Verdict.Confidence))
	}
	pdf.Ln(3)

	w.section("Level 1 - Resume Evaluation")
	w.levelHeader(*doc.Resume)
	w.markdown(doc.Resume.Narrative)

	w.section("Level 2 - GitHub Profile Analysis")
	if doc.Profile == nil {
		w.paragraph([]Span{{Text: "Skipped: no GitHub profile was analyzed for this candidate.", Italic: true}}, 0)
	} else {
		if doc.Profile.Subject != "" {
			w.keyValue("Profile", doc.Profile.Subject)
		}
		w.levelHeader(*doc.Profile)
		w.markdown(doc.Profile.Narrative)
	}

	w.section("Final Verdict")
	if doc.Verdict == nil {
		w.paragraph([]Span{{Text: "Verdict not generated yet.", Italic: true}}, 0)
	} else {
		w.markdown(doc.Verdict.Narrative)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) text(s string) string {
	return w.tr(toLatin1(s))
}

func (w *writer) title(s string) {
	w.pdf.SetFont(fontBody, "B", 20)
	w.pdf.SetTextColor(30, 64, 175)
	w.pdf.CellFormat(0, 12, w.text(s), "", 1, "C", false, 0, "")
	w.pdf.Ln(2)
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) section(s string) {
	w.pdf.Ln(3)
	w.pdf.SetFont(fontBody, "B", 14)
	w.pdf.SetTextColor(30, 64, 175)
	w.pdf.CellFormat(0, 8, w.text(s), "B", 1, "L", false, 0, "")
	w.pdf.Ln(2)
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) keyValue(key, value string) {
	w.pdf.SetFont(fontBody, "B", 10)
	w.pdf.Write(lineHeight, w.text(key+": "))
	w.pdf.SetFont(fontBody, "", 10)
	w.pdf.Write(lineHeight, w.text(value))
	w.pdf.Ln(lineHeight + 0.8)
}

func (w *writer) levelHeader(s Section) {
	result := "FAILED"
	if s.Passed {
		result = "PASSED"
	}
	w.keyValue("Score", fmt.Sprintf("%.1f/10 (threshold %.1f) - %s", s.Score, s.Threshold, result))
	w.pdf.Ln(1)
}

func (w *writer) summaryTable(doc Document) {
	widths := []float64{70, 30, 35, 39}
	rows := [][]string{{"Level", "Score", "Threshold", "Result"}}
	rows = append(rows, summaryRow("Level 1 - Resume", doc.Resume))
	rows = append(rows, summaryRow("Level 2 - GitHub", doc.Profile))
	if doc.Verdict != nil {
		rows = append(rows, []string{
			"Composite",
			fmt.Sprintf("%.2f/10", doc.Verdict.Composite),
			fmt.Sprintf("%.1f", doc.Verdict.Gate),
			doc.Verdict.Decision,
		})
	}
	for i, row := range rows {
		if i == 0 {
			w.pdf.SetFont(fontBody, "B", 10)
			w.pdf.SetFillColor(219, 234, 254)
		} else {
			w.pdf.SetFont(fontBody, "", 10)
		}
		for j, cell := range row {
			w.pdf.CellFormat(widths[j], 7, w.text(cell), "1", 0, "L", i == 0, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(2)
}

func summaryRow(label string, s *Section) []string {
	if s == nil {
		return []string{label, "-", "-", "SKIPPED"}
	}
	result := "FAILED"
	if s.Passed {
		result = "PASSED"
	}
	return []string{label, fmt.Sprintf("%.1f/10", s.Score), fmt.Sprintf("%.1f", s.Threshold), result}
}

func (w *writer) markdown(src string) {
	for _, b := range ParseMarkdown(src) {
		switch b.Kind {
		case BlockHeading:
			size := 13.0 - float64(b.Level)
			if size < 10 {
				size = 10
			}
			w.pdf.Ln(1.5)
			w.pdf.SetFont(fontBody, "B", size)
			w.pdf.MultiCell(0, size*0.5, w.text(b.PlainText()), "", "L", false)
			w.pdf.Ln(1)
		case BlockListItem:
			w.listItem(b)
		case BlockCode:
			w.pdf.SetFont(fontCode, "", 9)
			w.pdf.MultiCell(0, 4.5, w.text(b.PlainText()), "", "L", false)
		case BlockRule:
			x, y := w.pdf.GetXY()
			pageW, _ := w.pdf.GetPageSize()
			w.pdf.SetDrawColor(200, 200, 200)
			w.pdf.Line(x, y+2, pageW-pageMargin, y+2)
			w.pdf.Ln(4)
		case BlockTableRow:
			w.tableRow(b)
		default:
			w.paragraph(b.Spans, b.Level)
			w.pdf.Ln(1.5)
		}
	}
}

func (w *writer) paragraph(spans []Span, depth int) {
	left, _, _, _ := w.pdf.GetMargins()
	indent := float64(depth) * indentStep
	if indent > 0 {
		w.pdf.SetLeftMargin(left + indent)
		w.pdf.SetX(left + indent)
	}
	w.spans(spans)
	w.pdf.Ln(lineHeight)
	if indent > 0 {
		w.pdf.SetLeftMargin(left)
	}
}

func (w *writer) listItem(b Block) {
	left, _, _, _ := w.pdf.GetMargins()
	indent := float64(b.Level-1) * indentStep
	w.pdf.SetX(left + indent)
	w.pdf.SetFont(fontBody, "", 10)
	marker := b.Marker
	if marker == "-" {
		marker = "•"
	}
	w.pdf.CellFormat(indentStep, lineHeight, w.text(marker), "", 0, "L", false, 0, "")

	w.pdf.SetLeftMargin(left + indent + indentStep)
	w.spans(b.Spans)
	w.pdf.Ln(lineHeight)
	w.pdf.SetLeftMargin(left)
}

func (w *writer) tableRow(b Block) {
	if len(b.Cells) == 0 {
		return
	}
	parts := make([]string, 0, len(b.Cells))
	for _, cell := range b.Cells {
		var sb strings.Builder
		for _, s := range cell {
			sb.WriteString(s.Text)
		}
		parts = append(parts, strings.TrimSpace(sb.String()))
	}
	style := ""
	if b.Header {
		style = "B"
	}
	w.pdf.SetFont(fontBody, style, 9)
	w.pdf.MultiCell(0, 4.8, w.text(strings.Join(parts, "  |  ")), "B", "L", false)
}

func (w *writer) spans(spans []Span) {
	for _, s := range spans {
		family := fontBody
		style := ""
		if s.Code {
			family = fontCode
		}
		if s.Bold {
			style += "B"
		}
		if s.Italic {
			style += "I"
		}
		w.pdf.SetFont(family, style, 10)
		w.pdf.Write(lineHeight, w.text(s.Text))
	}
}

// toLatin1 drops characters the core PDF fonts cannot show and maps common
// typographic symbols to close equivalents.
func toLatin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString("    ")
		case r < 0x80, r >= 0xA0 && r <= 0xFF:
			b.WriteRune(r)
		case strings.ContainsRune("€‚ƒ„…†‡ˆ‰Š‹ŒŽ‘’“”•–—˜™š›œžŸ", r):
			b.WriteRune(r)
		case r == '✓' || r == '✔' || r == '✅':
			b.WriteString("[x]")
		case r == '✗' || r == '✘' || r == '❌':
			b.WriteString("[ ]")
		case r == '→':
			b.WriteString("->")
		case r == '≥':
			b.WriteString(">=")
		case r == '≤':
			b.WriteString("<=")
		}
	}
	return b.String()
}
