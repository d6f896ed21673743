package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FilterValueNone is the sentinel choice matching records whose filtered
// column is NULL ("No session", "No track", ...). Real choice values are
// uuids, so the marker cannot collide.
const FilterValueNone = "none"

// ListConfigDto is the raw "store configuration" payload. Shape checks happen
// here; whether keys and values exist for the list context is checked by the
// list config service.
type ListConfigDto struct {
	Items          map[string][]string `json:"items" form:"items"`
	VisibleColumns []string            `json:"visibleColumns" form:"visibleColumns"`
}

func (d *ListConfigDto) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Items, validation.By(func(value interface{}) error {
			items := value.(map[string][]string)
			for key, values := range items {
				if key == "" {
					return validation.NewError("empty_filter_key", "Filter keys must be non-empty")
				}
				seen := make(map[string]bool, len(values))
				for _, v := range values {
					if v == "" {
						return validation.NewError("empty_filter_value",
							fmt.Sprintf("Filter '%s' contains an empty value", key))
					}
					if seen[v] {
						return validation.NewError("duplicate_filter_value",
							fmt.Sprintf("Filter '%s' selects '%s' more than once", key, v))
					}
					seen[v] = true
				}
			}
			return nil
		})),
		validation.Field(&d.VisibleColumns, validation.By(func(value interface{}) error {
			columns := value.([]string)
			seen := make(map[string]bool, len(columns))
			for _, col := range columns {
				if col == "" {
					return validation.NewError("empty_column", "Column keys must be non-empty")
				}
				if seen[col] {
					return validation.NewError("duplicate_column",
						fmt.Sprintf("Column '%s' is listed more than once", col))
				}
				seen[col] = true
			}
			return nil
		})),
	)
}

type PDFStyle string

const (
	PDFStyleTable PDFStyle = "table"
	PDFStyleBook  PDFStyle = "book"
)

type PDFExportDto struct {
	Style string `json:"style" form:"style"`
}

func (d *PDFExportDto) SetDefaultValues() {
	if d.Style == "" {
		d.Style = string(PDFStyleTable)
	}
}

func (d *PDFExportDto) Validate() error {
	d.SetDefaultValues()

	return validation.ValidateStruct(d,
		validation.Field(&d.Style, validation.In(string(PDFStyleTable), string(PDFStyleBook)).
			Error("Style must be either 'table' or 'book'")),
	)
}
