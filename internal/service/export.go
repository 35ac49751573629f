package service

import (
	"fmt"
	"time"

	"sampletrack/internal/domain"

	"github.com/xuri/excelize/v2"
)

// SamplesExportHeader 样本导出表头
var SamplesExportHeader = []string{
	"Sample ID",
	"Patient Name",
	"Age",
	"Gender",
	"Status",
	"Collected By",
	"Lab",
	"Created At",
}

// BuildSamplesWorkbook 生成样本列表 Excel 文件
func BuildSamplesWorkbook(samples []*domain.Sample) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() before WriteToBuffer, it needs the file open

	sheetName := "Samples"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, h := range SamplesExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, s := range samples {
		row := i + 2
		age := ""
		if s.Age != nil {
			age = fmt.Sprint(*s.Age)
		}
		values := []any{
			s.SampleID,
			s.PatientName,
			age,
			s.Gender,
			string(s.Status),
			s.CollectedBy,
			s.LabID,
			s.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
