package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
)

// XLSXExporter writes a minimal OOXML workbook: one sheet, inline strings,
// no styling. Enough for every spreadsheet application to open the download.
type XLSXExporter struct{}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) FileExtension() string {
	return "xlsx"
}

const xlsxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/><Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/></Types>`

const xlsxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/></Relationships>`

const xlsxWorkbook = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets></workbook>`

const xlsxWorkbookRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/></Relationships>`

func (XLSXExporter) Write(w io.Writer, headers []string, rows []map[string]string) error {
	archive := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", xlsxContentTypes},
		{"_rels/.rels", xlsxRootRels},
		{"xl/workbook.xml", xlsxWorkbook},
		{"xl/_rels/workbook.xml.rels", xlsxWorkbookRels},
	}
	for _, part := range parts {
		entry, err := archive.Create(part.name)
		if err != nil {
			return err
		}
		if _, err := entry.Write([]byte(part.content)); err != nil {
			return err
		}
	}

	sheet, err := archive.Create("xl/worksheets/sheet1.xml")
	if err != nil {
		return err
	}
	if err := writeSheet(sheet, headers, rows); err != nil {
		return err
	}
	return archive.Close()
}

func writeSheet(w io.Writer, headers []string, rows []map[string]string) error {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)

	writeRow := func(cells []string) error {
		buf.WriteString("<row>")
		for _, cell := range cells {
			buf.WriteString(`<c t="inlineStr"><is><t xml:space="preserve">`)
			if err := xml.EscapeText(&buf, []byte(cell)); err != nil {
				return err
			}
			buf.WriteString(`</t></is></c>`)
		}
		buf.WriteString("</row>")
		return nil
	}

	if err := writeRow(headers); err != nil {
		return err
	}
	cells := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			cells[i] = row[header]
		}
		if err := writeRow(cells); err != nil {
			return err
		}
	}

	buf.WriteString(`</sheetData></worksheet>`)
	_, err := w.Write(buf.Bytes())
	return err
}
