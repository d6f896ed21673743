package services

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXLSXExporterProducesWorkbook(t *testing.T) {
	var buf bytes.Buffer
	exporter := XLSXExporter{}

	err := exporter.Write(&buf, []string{"Id", "Title"}, []map[string]string{
		{"Id": "1", "Title": "Quarks & <gluons>"},
	})
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	parts := map[string]string{}
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[file.Name] = string(content)
	}

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
		"xl/worksheets/sheet1.xml",
	} {
		_, ok := parts[name]
		assert.True(t, ok, "workbook must contain %q", name)
	}

	sheet := parts["xl/worksheets/sheet1.xml"]
	assert.Contains(t, sheet, "<t xml:space=\"preserve\">Id</t>")
	assert.Contains(t, sheet, "Quarks &amp; &lt;gluons&gt;")
}

func TestXLSXExporterMetadata(t *testing.T) {
	exporter := XLSXExporter{}
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exporter.ContentType())
	assert.Equal(t, "xlsx", exporter.FileExtension())
}
