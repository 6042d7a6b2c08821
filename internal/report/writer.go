package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Dionlucil/health-assistant/internal/db"
)

// analysisDocument mirrors the JSON stored in a consultation's analysis
// column, reduced to the fields the report displays.
type analysisDocument struct {
	Urgency    string `json:"urgency"`
	Disclaimer string `json:"disclaimer"`
	Conditions []struct {
		Condition struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"condition"`
		Probability float64 `json:"probability"`
	} `json:"conditions"`
	Medications []string `json:"medications"`
	Advice      []string `json:"advice"`
}

// Writer renders consultation records as downloadable PDF reports.
type Writer struct{}

// NewWriter creates a report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Consultation renders one consultation into a PDF document.
func (w *Writer) Consultation(user *db.User, c *db.Consultation) ([]byte, error) {
	var doc analysisDocument
	if err := json.Unmarshal([]byte(c.Analysis), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	var symptomList []string
	if err := json.Unmarshal([]byte(c.Symptoms), &symptomList); err != nil {
		return nil, fmt.Errorf("failed to decode symptoms: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Consultation Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Patient: %s %s", user.FirstName, user.LastName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", c.CreatedAt.Format(time.RFC1123)))
	pdf.Ln(6)
	if c.Age > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Age: %d    Gender: %s", c.Age, c.Gender))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Urgency: %s", doc.Urgency))
	pdf.Ln(10)

	w.section(pdf, "Reported Symptoms")
	for _, s := range symptomList {
		w.bullet(pdf, s)
	}
	if c.Severity != "" {
		w.bullet(pdf, fmt.Sprintf("Stated severity: %s", c.Severity))
	}
	if c.Duration != "" {
		w.bullet(pdf, fmt.Sprintf("Duration: %s", c.Duration))
	}
	pdf.Ln(4)

	w.section(pdf, "Possible Conditions")
	if len(doc.Conditions) == 0 {
		w.bullet(pdf, "No matching conditions identified.")
	}
	for _, sc := range doc.Conditions {
		w.bullet(pdf, fmt.Sprintf("%s (%.0f%% match): %s", sc.Condition.Name, sc.Probability*100, sc.Condition.Description))
	}
	pdf.Ln(4)

	if len(doc.Medications) > 0 {
		w.section(pdf, "Suggested Medications")
		for _, m := range doc.Medications {
			w.bullet(pdf, m)
		}
		pdf.Ln(4)
	}

	if len(doc.Advice) > 0 {
		w.section(pdf, "Advice")
		for _, a := range doc.Advice {
			w.bullet(pdf, a)
		}
		pdf.Ln(4)
	}

	if doc.Disclaimer != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, doc.Disclaimer, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func (w *Writer) bullet(pdf *gofpdf.Fpdf, text string) {
	pdf.MultiCell(0, 6, "- "+text, "", "L", false)
}
