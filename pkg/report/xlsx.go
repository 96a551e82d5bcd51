package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
)

// Sheet names of the xlsx report.
const (
	FilesSheet   = "Files"
	SummarySheet = "Summary"
)

func writeXLSX(w io.Writer, b pipeline.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillXLSX(f, b); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build xlsx report")
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write xlsx report")
	}
	return nil
}

func fillXLSX(f *excelize.File, b pipeline.BatchResult) error {
	if err := f.SetSheetName("Sheet1", FilesSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(FilesSheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(FilesSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range Rows(b) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := r.cells()
		if err := f.SetSheetRow(FilesSheet, cell, &cells); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(FilesSheet, "A", "A", 48); err != nil {
		return err
	}
	if err := f.SetPanes(FilesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Files", len(b.Files)},
		{"Succeeded", b.Succeeded},
		{"Failed", b.Failed},
		{"Duration (ms)", b.Duration.Milliseconds()},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 16); err != nil {
		return err
	}
	return f.SetCellStyle(SummarySheet, "A1", "A4", bold)
}
