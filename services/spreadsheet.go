package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"event-lists-go/models"
)

// SpreadsheetService maps result sets into a fixed column schema for the
// table exporters. It never touches the database; all associations must have
// been eager-loaded by the list services.
type SpreadsheetService struct{}

func NewSpreadsheetService() *SpreadsheetService {
	return &SpreadsheetService{}
}

var contributionSpreadsheetHeaders = []string{
	"Id", "Title", "Description", "Date", "Duration", "Type", "Session", "Track", "Presenters", "Materials",
}

// GenerateContributionSpreadsheet returns the export headers and one row per
// contribution, sorted by friendly id. Absent associations render as empty
// values under their header, never as missing keys.
func (s *SpreadsheetService) GenerateContributionSpreadsheet(contributions []models.Contribution) ([]string, []map[string]string) {
	sorted := append([]models.Contribution(nil), contributions...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FriendlyID < sorted[j].FriendlyID
	})

	rows := make([]map[string]string, 0, len(sorted))
	for i := range sorted {
		c := &sorted[i]
		row := map[string]string{
			"Id":          strconv.Itoa(c.FriendlyID),
			"Title":       c.Title,
			"Description": c.Description,
			"Date":        "",
			"Duration":    formatHumanDuration(c.Duration()),
			"Type":        "",
			"Session":     "",
			"Track":       "",
			"Presenters":  "",
			"Materials":   "",
		}
		if c.TimetableEntry != nil {
			row["Date"] = c.TimetableEntry.StartDT.Format("2006-01-02 15:04")
		}
		if c.Type != nil {
			row["Type"] = c.Type.Name
		}
		if c.Session != nil {
			row["Session"] = c.Session.Title
		}
		if c.Track != nil {
			row["Track"] = c.Track.Title
		}
		speakers := make([]string, 0, len(c.PersonLinks))
		for j := range c.PersonLinks {
			if c.PersonLinks[j].IsSpeaker {
				speakers = append(speakers, c.PersonLinks[j].Person.FullName())
			}
		}
		row["Presenters"] = strings.Join(speakers, ", ")
		materials := make([]string, 0, len(c.Attachments))
		for _, attachment := range c.Attachments {
			materials = append(materials, attachment.DownloadURL)
		}
		row["Materials"] = strings.Join(materials, ", ")
		rows = append(rows, row)
	}
	return append([]string(nil), contributionSpreadsheetHeaders...), rows
}

var registrationHeaderTitles = map[string]string{
	"id":                "Id",
	"name":              "Name",
	"email":             "Email",
	"state":             "State",
	"checked_in":        "Checked in",
	"registration_date": "Registration date",
}

// GenerateRegistrationSpreadsheet returns headers and rows for the selected
// static columns (canonical order preserved by the caller) followed by the
// selected custom fields in the given order.
func (s *SpreadsheetService) GenerateRegistrationSpreadsheet(registrations []models.Registration, staticColumns, fieldIDs []string, fields map[string]models.RegistrationFormField) ([]string, []map[string]string) {
	headers := make([]string, 0, len(staticColumns)+len(fieldIDs))
	for _, col := range staticColumns {
		headers = append(headers, registrationHeaderTitles[col])
	}
	for _, fieldID := range fieldIDs {
		headers = append(headers, fields[fieldID].Title)
	}

	sorted := append([]models.Registration(nil), registrations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FriendlyID < sorted[j].FriendlyID
	})

	rows := make([]map[string]string, 0, len(sorted))
	for i := range sorted {
		r := &sorted[i]
		dataByField := make(map[string]*models.RegistrationData, len(r.Data))
		for j := range r.Data {
			dataByField[r.Data[j].FieldID] = &r.Data[j]
		}

		row := make(map[string]string, len(headers))
		for _, col := range staticColumns {
			header := registrationHeaderTitles[col]
			switch col {
			case "id":
				row[header] = strconv.Itoa(r.FriendlyID)
			case "name":
				row[header] = r.FullName()
			case "email":
				row[header] = r.Email
			case "state":
				row[header] = string(r.State)
			case "checked_in":
				if r.CheckedIn {
					row[header] = "Yes"
				} else {
					row[header] = "No"
				}
			case "registration_date":
				row[header] = r.CreatedAt.Format("2006-01-02")
			}
		}
		for _, fieldID := range fieldIDs {
			header := fields[fieldID].Title
			if datum, ok := dataByField[fieldID]; ok {
				row[header] = ExportFieldValue(datum)
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// formatHumanDuration renders a duration the way it reads on a timetable:
// "1h 30m", "45m", "0m".
func formatHumanDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	hours := minutes / 60
	minutes = minutes % 60
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
