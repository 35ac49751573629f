package service

import (
	"bytes"
	"testing"
	"time"

	"sampletrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildSamplesWorkbook(t *testing.T) {
	age := 42
	samples := []*domain.Sample{
		{
			ID:          "id-1",
			SampleID:    "DNA-123456-001",
			PatientName: "Alice Wu",
			Age:         &age,
			Gender:      "female",
			Status:      domain.StatusStored,
			CollectedBy: "u-lab",
			LabID:       "lab-1",
			CreatedAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "id-2",
			SampleID:    "DNA-123457-002",
			PatientName: "Bob Chen",
			Status:      domain.StatusNew,
			CreatedAt:   time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	data, err := BuildSamplesWorkbook(samples)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Samples")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SamplesExportHeader, rows[0])
	assert.Equal(t, "DNA-123456-001", rows[1][0])
	assert.Equal(t, "stored", rows[1][4])
	assert.Equal(t, "42", rows[1][2])
	assert.Equal(t, "Bob Chen", rows[2][1])
}

func TestBuildSamplesWorkbook_Empty(t *testing.T) {
	data, err := BuildSamplesWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Samples")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
}
