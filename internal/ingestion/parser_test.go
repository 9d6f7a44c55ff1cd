package ingestion

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/guttosm/tickpulse/internal/analytics"
)

// partitionRow is a trade file written under "sym_root=<X>/", without the key
// column. Its size column is INT64, as written by integer-typed producers.
type partitionRow struct {
	Date      int32   `parquet:"date,date"`
	Minute    int32   `parquet:"minute"`
	SymSuffix *string `parquet:"sym_suffix,optional"`
	Close     float64 `parquet:"close"`
	Size      int64   `parquet:"size"`
}

// noSizeRow lacks the required size column.
type noSizeRow struct {
	Date      int32   `parquet:"date,date"`
	Minute    int32   `parquet:"minute"`
	SymRoot   string  `parquet:"sym_root"`
	SymSuffix *string `parquet:"sym_suffix,optional"`
	Close     float64 `parquet:"close"`
}

func strPtr(s string) *string { return &s }

func writeParquet[T any](t *testing.T, path string, rows []T) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("write parquet %s: %v", path, err)
	}
	return path
}

// 18687 days after the epoch is 2021-03-01.
const march1 = int32(18687)

func TestReadTradeFile_Columns(t *testing.T) {
	path := writeParquet(t, filepath.Join(t.TempDir(), "trades.parquet"), []parquetTrade{
		{Date: march1, Minute: 1, SymRoot: "A", Close: 5, Size: 10},
		{Date: march1, Minute: 1, SymRoot: "B", SymSuffix: strPtr("W"), Close: 2, Size: 5},
		{Date: march1, Minute: 3, SymRoot: "A", Close: 6, Size: 20},
	})

	out, err := readTradeFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("readTradeFile: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("rows: want 3 got %d", len(out))
	}
	if out[0].RootSymbol != "A" || out[0].Suffix != "" || out[0].Size != 10 || out[0].Close != 5 {
		t.Fatalf("unexpected first row: %+v", out[0])
	}
	if out[1].Suffix != "W" {
		t.Fatalf("suffix not decoded: %+v", out[1])
	}
	// A null suffix reaches the normalizer as "" and keeps the separator.
	if id := analytics.NormalizeIdentity(out[0].RootSymbol, out[0].Suffix); id != "A." {
		t.Fatalf("null suffix identity: want %q got %q", "A.", id)
	}
	if id := analytics.NormalizeIdentity(out[1].RootSymbol, out[1].Suffix); id != "B.W" {
		t.Fatalf("suffix identity: want %q got %q", "B.W", id)
	}
	if want := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC); !out[2].Date.Equal(want) || out[2].Minute != 3 {
		t.Fatalf("unexpected date/minute: %+v", out[2])
	}
}

func TestReadTradeFile_FractionalSize(t *testing.T) {
	path := writeParquet(t, filepath.Join(t.TempDir(), "frac.parquet"), []parquetTrade{
		{Date: march1, Minute: 7, SymRoot: "A", Close: 5, Size: 10.5},
		{Date: march1, Minute: 8, SymRoot: "A", Close: 6, Size: 0.25},
	})

	out, err := readTradeFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("readTradeFile: %v", err)
	}
	if len(out) != 2 || out[0].Size != 10.5 || out[1].Size != 0.25 {
		t.Fatalf("fractional sizes not preserved: %+v", out)
	}
}

func TestReadTradeFile_PartitionKeyFillsRoot(t *testing.T) {
	path := writeParquet(t, filepath.Join(t.TempDir(), "sym_root=MSFT", "data.parquet"), []partitionRow{
		{Date: march1, Minute: 7, Close: 250, Size: 3},
	})

	out, err := readTradeFile(context.Background(), path, map[string]string{"sym_root": "MSFT"})
	if err != nil {
		t.Fatalf("readTradeFile: %v", err)
	}
	if len(out) != 1 || out[0].RootSymbol != "MSFT" || out[0].Minute != 7 || out[0].Size != 3 {
		t.Fatalf("unexpected rows: %+v", out)
	}

	// Without the partition key the same file violates the schema.
	_, err = readTradeFile(context.Background(), path, nil)
	if !errors.Is(err, ErrMissingColumn) || !strings.Contains(err.Error(), "<sym_root>") {
		t.Fatalf("expected missing sym_root, got %v", err)
	}
}

func TestReadTradeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		path    func() string
		wantErr error
		msg     string
	}{
		{
			name:    "missing size column",
			path:    func() string { return writeParquet(t, filepath.Join(dir, "nosize.parquet"), []noSizeRow{{SymRoot: "A"}}) },
			wantErr: ErrMissingColumn,
			msg:     "field <size> is required",
		},
		{
			name: "negative size",
			path: func() string {
				return writeParquet(t, filepath.Join(dir, "neg.parquet"), []parquetTrade{{SymRoot: "A", Size: -1}})
			},
			msg: "invalid size",
		},
		{
			name: "negative fractional size",
			path: func() string {
				return writeParquet(t, filepath.Join(dir, "negfrac.parquet"), []parquetTrade{{SymRoot: "A", Size: -0.5}})
			},
			msg: "invalid size -0.5",
		},
		{
			name: "NaN size",
			path: func() string {
				return writeParquet(t, filepath.Join(dir, "nan.parquet"), []parquetTrade{{SymRoot: "A", Size: math.NaN()}})
			},
			msg: "invalid size NaN",
		},
		{
			name: "not parquet",
			path: func() string {
				p := filepath.Join(dir, "junk.parquet")
				if err := os.WriteFile(p, []byte("definitely not parquet"), 0o600); err != nil {
					t.Fatalf("write: %v", err)
				}
				return p
			},
			msg: "open parquet",
		},
		{
			name: "missing file",
			path: func() string { return filepath.Join(dir, "absent.parquet") },
			msg:  "open",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readTradeFile(context.Background(), tc.path(), nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("error %q does not mention %q", err, tc.msg)
			}
		})
	}
}

func TestReadTradeFile_ContextCanceled(t *testing.T) {
	rows := make([]parquetTrade, 1000)
	for i := range rows {
		rows[i] = parquetTrade{Date: march1, Minute: int32(i % 397), SymRoot: "A", Close: 1, Size: 1}
	}
	path := writeParquet(t, filepath.Join(t.TempDir(), "big.parquet"), rows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := readTradeFile(ctx, path, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestPartitionKeys(t *testing.T) {
	got := partitionKeys("sym_root=", "AAPL")
	if len(got) != 1 || got["sym_root"] != "AAPL" {
		t.Fatalf("unexpected keys: %v", got)
	}
	if got := partitionKeys("p_", "X"); got["p_"] != "X" {
		t.Fatalf("prefix without '=' should be kept as column: %v", got)
	}
}
