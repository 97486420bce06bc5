package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"fattybrewing"
)

func TestWriteWorkbook(t *testing.T) {
	c, err := fattybrewing.New(fattybrewing.KindMashTun, "tun", fattybrewing.Qty(35, fattybrewing.Liter))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.SetID("tun-1")
	if err := c.AddContent("water", fattybrewing.Qty(20, fattybrewing.Liter)); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if err := c.AddContent("malt", fattybrewing.Qty(5, fattybrewing.Kilogram)); err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, []fattybrewing.State{c.Snapshot()}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetContainers)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("container rows = %d, want 2", len(rows))
	}
	got := rows[1]
	if got[0] != "tun-1" || got[2] != "mash_tun" || got[5] != "20" || got[6] != "15" {
		t.Fatalf("container row = %v", got)
	}

	rows, err = f.GetRows(SheetContents)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("content rows = %d, want 3", len(rows))
	}
	if rows[2][2] != "malt" || rows[2][5] != "kg" {
		t.Fatalf("malt row = %v", rows[2])
	}
}
