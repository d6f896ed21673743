package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConfigDtoValidate(t *testing.T) {
	dto := ListConfigDto{
		Items:          map[string][]string{"session": {"s1", FilterValueNone}},
		VisibleColumns: []string{"id", "title"},
	}
	assert.NoError(t, dto.Validate())

	dto = ListConfigDto{}
	assert.NoError(t, dto.Validate())
}

func TestListConfigDtoRejectsMalformedShapes(t *testing.T) {
	cases := []struct {
		name string
		dto  ListConfigDto
	}{
		{"empty filter key", ListConfigDto{Items: map[string][]string{"": {"x"}}}},
		{"empty filter value", ListConfigDto{Items: map[string][]string{"session": {""}}}},
		{"duplicate filter value", ListConfigDto{Items: map[string][]string{"session": {"s1", "s1"}}}},
		{"empty column", ListConfigDto{VisibleColumns: []string{""}}},
		{"duplicate column", ListConfigDto{VisibleColumns: []string{"id", "id"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.dto.Validate())
		})
	}
}

func TestPDFExportDtoDefaults(t *testing.T) {
	dto := PDFExportDto{}
	require.NoError(t, dto.Validate())
	assert.Equal(t, string(PDFStyleTable), dto.Style)

	dto = PDFExportDto{Style: "book"}
	assert.NoError(t, dto.Validate())

	dto = PDFExportDto{Style: "scroll"}
	assert.Error(t, dto.Validate())
}
