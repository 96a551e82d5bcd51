// Package report writes a per-file summary of a batch conversion.
//
// One row is written per input file with its status, element counts,
// page size, outputs and error message. The format follows the report
// path's extension:
//
//   - .xlsx: an Excel workbook with a "Files" sheet and a "Summary" sheet
//   - .json: the rows plus totals as indented JSON
//   - .csv:  the rows with a header line
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
)

// Columns is the header row shared by the xlsx and csv reports.
var Columns = []string{
	"File", "Status", "Elements", "Flows", "Shapes", "Connectors",
	"Skipped Shapes", "Skipped Flows", "Warnings", "Page Width (in)",
	"Page Height (in)", "Cached", "Duration (ms)", "Outputs", "Error",
}

// Row is one file of the report.
type Row struct {
	File          string   `json:"file"`
	Status        string   `json:"status"`
	Elements      int      `json:"elements"`
	Flows         int      `json:"flows"`
	Shapes        int      `json:"shapes"`
	Connectors    int      `json:"connectors"`
	SkippedShapes int      `json:"skipped_shapes"`
	SkippedFlows  int      `json:"skipped_flows"`
	Warnings      int      `json:"warnings"`
	PageWidth     float64  `json:"page_width"`
	PageHeight    float64  `json:"page_height"`
	Cached        bool     `json:"cached"`
	DurationMS    int64    `json:"duration_ms"`
	Outputs       []string `json:"outputs,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Rows flattens a batch result, in input order.
func Rows(b pipeline.BatchResult) []Row {
	rows := make([]Row, 0, len(b.Files))
	for _, f := range b.Files {
		r := Row{
			File:          f.Input,
			Status:        StatusOK,
			Elements:      f.Stats.Elements,
			Flows:         f.Stats.Flows,
			Shapes:        f.Stats.Shapes,
			Connectors:    f.Stats.Connectors,
			SkippedShapes: f.Stats.SkippedShapes,
			SkippedFlows:  f.Stats.SkippedFlows,
			Warnings:      len(f.Stats.Warnings),
			PageWidth:     f.Stats.PageWidth,
			PageHeight:    f.Stats.PageHeight,
			Cached:        f.CacheHit,
			DurationMS:    f.Duration.Milliseconds(),
			Outputs:       f.Outputs,
		}
		if f.Err != nil {
			r.Status = StatusFailed
			r.Error = f.Error()
		}
		rows = append(rows, r)
	}
	return rows
}

func (r Row) cells() []any {
	return []any{
		r.File, r.Status, r.Elements, r.Flows, r.Shapes, r.Connectors,
		r.SkippedShapes, r.SkippedFlows, r.Warnings, r.PageWidth,
		r.PageHeight, r.Cached, r.DurationMS, strings.Join(r.Outputs, ";"), r.Error,
	}
}

// Write renders b to path in the format named by its extension.
func Write(path string, b pipeline.BatchResult) error {
	var buf bytes.Buffer
	if err := Render(&buf, filepath.Ext(path), b); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write report %s", path)
	}
	return nil
}

// Render writes b to w in the format named by ext.
func Render(w io.Writer, ext string, b pipeline.BatchResult) error {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return writeXLSX(w, b)
	case ".json":
		return writeJSON(w, b)
	case ".csv":
		return writeCSV(w, b)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported report format %q (want .xlsx, .json or .csv)", ext)
	}
}

type jsonReport struct {
	Files      []Row `json:"files"`
	Succeeded  int   `json:"succeeded"`
	Failed     int   `json:"failed"`
	DurationMS int64 `json:"duration_ms"`
}

func writeJSON(w io.Writer, b pipeline.BatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(jsonReport{
		Files:      Rows(b),
		Succeeded:  b.Succeeded,
		Failed:     b.Failed,
		DurationMS: b.Duration.Milliseconds(),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode report")
	}
	return nil
}

func writeCSV(w io.Writer, b pipeline.BatchResult) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(Columns)
	for _, r := range Rows(b) {
		record := make([]string, 0, len(Columns))
		for _, c := range r.cells() {
			record = append(record, formatCell(c))
		}
		_ = cw.Write(record)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv report")
	}
	return nil
}

func formatCell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
