package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-cvbuilder/cv"
)

func TestXLSXRenderer_WritesSections(t *testing.T) {
	buf := &bytes.Buffer{}
	record := cv.SampleRecord()

	stats, err := XLSXRenderer{}.Render(context.Background(), Job{Record: record}, buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Bytes == 0 {
		t.Fatalf("expected non-zero bytes")
	}

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	sheets := file.GetSheetList()
	if len(sheets) != 6 || sheets[0] != "Profile" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := file.GetRows("Experience")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "TechCorp" {
		t.Fatalf("expected company, got %v", rows[1])
	}

	langs, err := file.GetRows("Languages")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if langs[1][2] != "Native" {
		t.Fatalf("expected Native label, got %v", langs[1])
	}
}
