package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type rosterRow struct {
	Name   string    `excel:"Estudiante"`
	Date   time.Time `excel:"Fecha"`
	Note   *string   `excel:"Nota"`
	secret string
	Skip   int `excel:"-"`
}

func TestExportSheet(t *testing.T) {
	note := "primera fila"
	rows := []rosterRow{
		{Name: "Ana", Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Note: &note},
		{Name: "Luis", Date: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)},
	}

	buf, err := ExportSheet("Inscritos", rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inscritos"}, f.GetSheetList())
	got, err := f.GetRows("Inscritos")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Estudiante", "Fecha", "Nota"}, got[0])
	assert.Equal(t, []string{"Ana", "2025-06-05", "primera fila"}, got[1])
	assert.Equal(t, []string{"Luis", "2025-06-04"}, got[2])
}

func TestWriteSheetRejectsNonSlice(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	assert.Error(t, WriteSheet(f, "x", rosterRow{}))
	assert.Error(t, WriteSheet(f, "x", []int{1}))
}
