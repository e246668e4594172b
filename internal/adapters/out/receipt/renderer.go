// Package receipt renders settlement receipts as PDF documents.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"marketplace/internal/core/ports"

	"github.com/phpdave11/gofpdf"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// PDFRenderer implements ports.ReceiptRenderer.
type PDFRenderer struct {
	issuer   string
	currency string
}

func NewPDFRenderer(issuer, currency string) PDFRenderer {
	return PDFRenderer{issuer: issuer, currency: strings.ToUpper(currency)}
}

func (r PDFRenderer) Render(_ context.Context, receipt ports.Receipt) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+receipt.OrderNumber, false)
	pdf.SetAuthor(r.issuer, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Order      : %s", safe(receipt.OrderNumber)),
		fmt.Sprintf("Job        : %s", safe(receipt.Title)),
		fmt.Sprintf("Customer   : %s", safe(receipt.CustomerName)),
		fmt.Sprintf("Driver     : %s", safe(receipt.DriverName)),
		fmt.Sprintf("Issued     : %s", receipt.IssuedAt.Format("2006-01-02 15:04 MST")),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Item", "B", 0, "", false, 0, "")
	pdf.CellFormat(45, 8, "Date", "B", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Status", "B", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	if len(receipt.Lines) == 0 {
		pdf.CellFormat(180, 8, "No payments recorded for this job yet.", "", 1, "", false, 0, "")
	}
	for _, line := range receipt.Lines {
		pdf.CellFormat(60, 8, line.Label, "", 0, "", false, 0, "")
		pdf.CellFormat(45, 8, line.At.Format("2006-01-02 15:04"), "", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, line.Status, "", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, r.amount(line.Amount.String()), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 8, "Total settled", "T", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, r.amount(receipt.Total.String()), "T", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Only completed payments count towards the total. "+
		"Pending payments are settled once the payment processor confirms them.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render receipt: %w", err)
	}

	name := unsafeFileChars.ReplaceAllString(strings.TrimPrefix(receipt.OrderNumber, "#"), "_")
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", name), nil
}

func (r PDFRenderer) amount(value string) string {
	if r.currency == "" {
		return value
	}
	return value + " " + r.currency
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
