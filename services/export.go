package services

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"event-lists-go/config"
	"event-lists-go/middleware"
	"event-lists-go/models"
)

// TableExporter turns (headers, rows) into download bytes. The row maps are
// keyed by header; absent keys render empty.
type TableExporter interface {
	ContentType() string
	FileExtension() string
	Write(w io.Writer, headers []string, rows []map[string]string) error
}

type CSVExporter struct{}

func (CSVExporter) ContentType() string {
	return "text/csv"
}

func (CSVExporter) FileExtension() string {
	return "csv"
}

func (CSVExporter) Write(w io.Writer, headers []string, rows []map[string]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// PDFExporter is the opaque PDF byte producer collaborator.
type PDFExporter interface {
	Generate(title string, headers []string, rows []map[string]string, style models.PDFStyle) ([]byte, error)
}

type ExportService struct {
	debug          bool
	attachmentsDir string
	tableExporters map[string]TableExporter
	pdf            PDFExporter
}

func NewExportService(cfg *config.Config, pdf PDFExporter) *ExportService {
	return &ExportService{
		debug:          cfg.Debug,
		attachmentsDir: cfg.AttachmentsDir,
		tableExporters: map[string]TableExporter{
			"csv":  CSVExporter{},
			"xlsx": XLSXExporter{},
		},
		pdf: pdf,
	}
}

// TableExporterFor resolves a download format.
func (s *ExportService) TableExporterFor(format string) (TableExporter, error) {
	exporter, ok := s.tableExporters[format]
	if !ok {
		return nil, middleware.NewValidationError("Unsupported export format", format)
	}
	return exporter, nil
}

// GeneratePDF runs the PDF collaborator under the export failure policy: a
// failing render becomes a user-correctable message suggesting the book
// style, unless debug mode wants the raw error for diagnosis.
func (s *ExportService) GeneratePDF(title string, headers []string, rows []map[string]string, style models.PDFStyle) ([]byte, error) {
	data, err := s.pdf.Generate(title, headers, rows, style)
	if err != nil {
		if s.debug {
			return nil, err
		}
		return nil, middleware.NewValidationError(
			"Text too large to generate a PDF with the table style. Please try again with the book style.",
			err.Error())
	}
	return data, nil
}

// GenerateAttachmentsZip archives every stored file attached to the given
// registrations. Files that vanished from storage are skipped and logged;
// a partially complete archive beats a failed export.
func (s *ExportService) GenerateAttachmentsZip(regform *models.RegistrationForm, registrations []models.Registration) ([]byte, error) {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	added := 0
	for i := range registrations {
		registration := &registrations[i]
		for j := range registration.Data {
			datum := &registration.Data[j]
			if datum.StorageFileID == nil || datum.Filename == nil {
				continue
			}
			content, err := os.ReadFile(filepath.Join(s.attachmentsDir, *datum.StorageFileID))
			if err != nil {
				log.Printf("Skipping attachment %s of registration %s: %v", *datum.StorageFileID, registration.ID, err)
				continue
			}
			entry, err := archive.Create(attachmentZipPath(regform, registration, datum))
			if err != nil {
				return nil, middleware.NewInternalServerError("Error building attachments archive", err.Error())
			}
			if _, err := entry.Write(content); err != nil {
				return nil, middleware.NewInternalServerError("Error building attachments archive", err.Error())
			}
			added++
		}
	}
	if err := archive.Close(); err != nil {
		return nil, middleware.NewInternalServerError("Error building attachments archive", err.Error())
	}
	log.Printf("Attachments zip: regform=%s registrations=%d files=%d", regform.ID, len(registrations), added)
	return buf.Bytes(), nil
}

// attachmentZipPath lays out archive entries as
// <form>/<registrant>_<friendly id>/<field>_<field id>_<filename>.
func attachmentZipPath(regform *models.RegistrationForm, registration *models.Registration, datum *models.RegistrationData) string {
	formDir := secureFilename(regform.Title, "registration_form")
	registrantDir := secureFilename(
		fmt.Sprintf("%s_%d", registration.FullName(), registration.FriendlyID),
		fmt.Sprintf("registration_%d", registration.FriendlyID))
	fileName := secureFilename(
		fmt.Sprintf("%s_%s_%s", datum.Field.Title, datum.FieldID, *datum.Filename),
		*datum.Filename)
	return strings.Join(adjustPathLength([]string{formDir, registrantDir, fileName}), "/")
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// secureFilename strips path separators and shell-hostile characters; when
// nothing safe remains, the fallback is used.
func secureFilename(name, fallback string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

const maxPathSegmentLength = 150

// adjustPathLength caps each archive path segment so the full entry stays
// extractable on filesystems with tight name limits.
func adjustPathLength(segments []string) []string {
	adjusted := make([]string, 0, len(segments))
	for _, segment := range segments {
		if len(segment) > maxPathSegmentLength {
			segment = segment[:maxPathSegmentLength]
		}
		adjusted = append(adjusted, segment)
	}
	return adjusted
}
