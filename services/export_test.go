package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"event-lists-go/config"
	"event-lists-go/middleware"
	"event-lists-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPDFExporter struct {
	err  error
	data []byte
}

func (s stubPDFExporter) Generate(string, []string, []map[string]string, models.PDFStyle) ([]byte, error) {
	return s.data, s.err
}

func TestCSVExporterWrite(t *testing.T) {
	var buf bytes.Buffer
	exporter := CSVExporter{}

	err := exporter.Write(&buf, []string{"Id", "Title"}, []map[string]string{
		{"Id": "1", "Title": "First"},
		{"Id": "2"}, // absent key renders empty
	})
	require.NoError(t, err)
	assert.Equal(t, "Id,Title\n1,First\n2,\n", buf.String())
}

func TestTableExporterFor(t *testing.T) {
	svc := NewExportService(&config.Config{}, stubPDFExporter{})

	csvExporter, err := svc.TableExporterFor("csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", csvExporter.FileExtension())

	xlsxExporter, err := svc.TableExporterFor("xlsx")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", xlsxExporter.FileExtension())

	_, err = svc.TableExporterFor("ods")
	require.Error(t, err)
	var customErr *middleware.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, middleware.ValidationError, customErr.Type)
}

func TestGeneratePDFFailurePolicy(t *testing.T) {
	renderErr := errors.New("row wider than page")

	svc := NewExportService(&config.Config{Debug: false}, stubPDFExporter{err: renderErr})
	_, err := svc.GeneratePDF("Contributions", nil, nil, models.PDFStyleTable)
	require.Error(t, err)
	var customErr *middleware.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, middleware.ValidationError, customErr.Type)
	assert.Contains(t, customErr.Message, "book style")

	debugSvc := NewExportService(&config.Config{Debug: true}, stubPDFExporter{err: renderErr})
	_, err = debugSvc.GeneratePDF("Contributions", nil, nil, models.PDFStyleTable)
	assert.Equal(t, renderErr, err)
}

func TestGenerateAttachmentsZipSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stored-1"), []byte("cv content"), 0o644))

	svc := NewExportService(&config.Config{AttachmentsDir: dir}, stubPDFExporter{})

	field := models.RegistrationFormField{ID: "f1", Title: "CV", InputType: "file"}
	present := "stored-1"
	presentName := "cv.pdf"
	missing := "stored-2"
	missingName := "photo.png"
	regform := &models.RegistrationForm{ID: "rf1", Title: "Conference Registration"}
	registrations := []models.Registration{
		{
			ID: "r1", FriendlyID: 1, FirstName: "Ada", LastName: "Lovelace",
			Data: []models.RegistrationData{
				{FieldID: "f1", Field: field, StorageFileID: &present, Filename: &presentName},
				{FieldID: "f1", Field: field, StorageFileID: &missing, Filename: &missingName},
				{FieldID: "f2"}, // no file at all
			},
		},
	}

	archive, err := svc.GenerateAttachmentsZip(regform, registrations)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, reader.File, 1)
	assert.Equal(t, "Conference_Registration/Ada_Lovelace_1/CV_f1_cv.pdf", reader.File[0].Name)

	content, err := reader.File[0].Open()
	require.NoError(t, err)
	defer content.Close()
	data := make([]byte, 10)
	n, _ := content.Read(data)
	assert.Equal(t, "cv content", string(data[:n]))
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "Conference_2026", secureFilename("Conference 2026", "fallback"))
	assert.Equal(t, "a_b", secureFilename("a/../b", "fallback"))
	assert.Equal(t, "fallback", secureFilename("///", "fallback"))
	assert.Equal(t, "report.pdf", secureFilename("report.pdf", "fallback"))
}

func TestAdjustPathLength(t *testing.T) {
	long := strings.Repeat("x", 300)
	segments := adjustPathLength([]string{"short", long})
	assert.Equal(t, "short", segments[0])
	assert.Len(t, segments[1], maxPathSegmentLength)
}
