package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
)

func sampleBatch() pipeline.BatchResult {
	return pipeline.BatchResult{
		Files: []pipeline.FileResult{
			{
				Input:    "a.bpmn",
				Outputs:  []string{"a.vsdx", "a.svg"},
				Duration: 12 * time.Millisecond,
				Stats: pipeline.Stats{
					Elements: 3, Flows: 2, Shapes: 3, Connectors: 2,
					Warnings:  []string{"Task_1: ignoring fill \"nope\""},
					PageWidth: 11, PageHeight: 8.5,
				},
			},
			{
				Input: "b.bpmn",
				Err:   errors.New(errors.ErrCodeMalformedXML, "unexpected EOF"),
			},
		},
		Succeeded: 1,
		Failed:    1,
		Duration:  40 * time.Millisecond,
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleBatch())
	want := []Row{
		{
			File: "a.bpmn", Status: StatusOK, Elements: 3, Flows: 2, Shapes: 3,
			Connectors: 2, Warnings: 1, PageWidth: 11, PageHeight: 8.5,
			DurationMS: 12, Outputs: []string{"a.vsdx", "a.svg"},
		},
		{File: "b.bpmn", Status: StatusFailed, Error: "unexpected EOF"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, ".csv", sampleBatch()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if diff := cmp.Diff(Columns, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	first := records[1]
	if first[0] != "a.bpmn" || first[1] != "ok" || first[9] != "11" || first[10] != "8.5" {
		t.Errorf("row 1 = %v", first)
	}
	if first[13] != "a.vsdx;a.svg" {
		t.Errorf("outputs = %q", first[13])
	}
	if second := records[2]; second[1] != "failed" || second[14] != "unexpected EOF" {
		t.Errorf("row 2 = %v", second)
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, ".JSON", sampleBatch()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	var got jsonReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Succeeded != 1 || got.Failed != 1 || got.DurationMS != 40 {
		t.Errorf("totals = %+v", got)
	}
	if diff := cmp.Diff(Rows(sampleBatch()), got.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, ".xlsx", sampleBatch()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{FilesSheet, SummarySheet}, f.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows(FilesSheet)
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "File" || rows[1][0] != "a.bpmn" || rows[2][1] != "failed" {
		t.Errorf("rows = %v", rows)
	}
	if rows[1][2] != "3" {
		t.Errorf("elements cell = %q, want 3", rows[1][2])
	}

	failed, err := f.GetCellValue(SummarySheet, "B3")
	if err != nil {
		t.Fatalf("GetCellValue() error: %v", err)
	}
	if failed != "1" {
		t.Errorf("Summary!B3 = %q, want 1", failed)
	}
}

func TestRenderUnsupported(t *testing.T) {
	err := Render(&bytes.Buffer{}, ".txt", sampleBatch())
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(.txt) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	if err := Write(path, sampleBatch()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("File,Status,")) {
		t.Errorf("report starts with %q", data[:min(len(data), 20)])
	}

	bad := filepath.Join(t.TempDir(), "missing", "report.csv")
	if err := Write(bad, sampleBatch()); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Write(bad dir) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}
