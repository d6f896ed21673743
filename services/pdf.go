package services

import (
	"bytes"
	"fmt"
	"strings"

	"event-lists-go/models"
)

// CourierPDFExporter renders listings as plain-text PDF pages set in
// Courier. The table style keeps each record on one line and refuses rows
// that do not fit; the book style wraps each field onto its own lines so
// arbitrarily long text always renders.
type CourierPDFExporter struct{}

const (
	pdfPageWidth  = 842 // A4 landscape, points
	pdfPageHeight = 595
	pdfMargin     = 40
	pdfFontSize   = 9
	pdfLeading    = 12
	pdfCharWidth  = 5.4 // Courier advance at 9pt: 0.6 * size
	pdfColumnGap  = 2   // characters between table columns
	pdfTitleSize  = 14
	pdfTitleGap   = 24
)

func pdfLineCapacity() int {
	capacity := float64(pdfPageWidth-2*pdfMargin) / pdfCharWidth
	return int(capacity)
}

func pdfLinesPerPage() int {
	return (pdfPageHeight - 2*pdfMargin - pdfTitleGap) / pdfLeading
}

func (CourierPDFExporter) Generate(title string, headers []string, rows []map[string]string, style models.PDFStyle) ([]byte, error) {
	var lines []string
	var err error
	switch style {
	case models.PDFStyleBook:
		lines = bookLines(headers, rows, pdfLineCapacity())
	default:
		lines, err = tableLines(headers, rows, pdfLineCapacity())
		if err != nil {
			return nil, err
		}
	}
	return renderPDF(title, lines), nil
}

// tableLines lays every record out on a single line with fixed column
// widths. A record set too wide for the page is a hard error so the caller
// can steer the user towards the book style.
func tableLines(headers []string, rows []map[string]string, capacity int) ([]string, error) {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, header := range headers {
			if n := len(row[header]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	total := 0
	for _, w := range widths {
		total += w + pdfColumnGap
	}
	if total > capacity {
		return nil, fmt.Errorf("table layout needs %d columns but the page fits %d", total, capacity)
	}

	formatRow := func(get func(header string) string) string {
		var b strings.Builder
		for i, header := range headers {
			b.WriteString(fmt.Sprintf("%-*s", widths[i]+pdfColumnGap, get(header)))
		}
		return strings.TrimRight(b.String(), " ")
	}

	lines := []string{
		formatRow(func(h string) string { return h }),
		strings.Repeat("-", total),
	}
	for _, row := range rows {
		row := row
		lines = append(lines, formatRow(func(h string) string { return row[h] }))
	}
	return lines, nil
}

// bookLines renders one record per block, each field label on its own
// wrapped line. This style never fails on content width.
func bookLines(headers []string, rows []map[string]string, capacity int) []string {
	var lines []string
	for i, row := range rows {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, header := range headers {
			value := row[header]
			if value == "" {
				continue
			}
			lines = append(lines, wrapText(header+": "+value, capacity)...)
		}
	}
	return lines
}

func wrapText(text string, capacity int) []string {
	if capacity < 1 {
		capacity = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := ""
	for _, word := range words {
		for len(word) > capacity {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:capacity])
			word = word[capacity:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= capacity:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// renderPDF emits a complete single-font PDF document with an xref table.
func renderPDF(title string, lines []string) []byte {
	perPage := pdfLinesPerPage()
	if perPage < 1 {
		perPage = 1
	}
	var pages [][]string
	for start := 0; start < len(lines); start += perPage {
		end := start + perPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	if len(pages) == 0 {
		pages = [][]string{{}}
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := []int{0} // object 0 is the free-list head

	writeObj := func(body string) int {
		offsets = append(offsets, buf.Len())
		id := len(offsets) - 1
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
		return id
	}

	// Object layout: 1 catalog, 2 pages, 3 font, then per page one page
	// object followed by its content stream.
	pageIDs := make([]string, len(pages))
	for i := range pages {
		pageIDs[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(pageIDs, " "), len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>")

	for i, page := range pages {
		contentID := 4 + 2*i + 1
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pdfPageWidth, pdfPageHeight, contentID))

		var content bytes.Buffer
		content.WriteString("BT\n")
		y := pdfPageHeight - pdfMargin
		if i == 0 && title != "" {
			fmt.Fprintf(&content, "/F1 %d Tf\n%d %d Td\n(%s) Tj\nET\nBT\n", pdfTitleSize, pdfMargin, y, escapePDFText(title))
		}
		y -= pdfTitleGap
		fmt.Fprintf(&content, "/F1 %d Tf\n%d TL\n%d %d Td\n", pdfFontSize, pdfLeading, pdfMargin, y)
		for _, line := range page {
			fmt.Fprintf(&content, "(%s) '\n", escapePDFText(line))
		}
		content.WriteString("ET\n")
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xrefOffset)
	return buf.Bytes()
}

func escapePDFText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(s)
}
