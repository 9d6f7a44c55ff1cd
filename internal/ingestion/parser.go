package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/guttosm/tickpulse/internal/domain/models"
)

// RequiredColumns are the fields every trade file must expose, either as a
// column or as a partition key taken from the directory name.
var RequiredColumns = []string{"date", "minute", "sym_root", "sym_suffix", "close", "size"}

// ErrMissingColumn reports a schema violation in a trade file.
var ErrMissingColumn = errors.New("missing required column")

// readBatch is the number of rows decoded per Read call.
const readBatch = 4096

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// parquetTrade is the physical row layout of a trade file.
//
//	date       INT32 (DATE)
//	minute     INT32
//	sym_root   BYTE_ARRAY (UTF8), usually the partition key
//	sym_suffix BYTE_ARRAY (UTF8), optional
//	close      DOUBLE
//	size       DOUBLE (INT32/INT64 files are widened on read)
type parquetTrade struct {
	Date      int32   `parquet:"date,date"`
	Minute    int32   `parquet:"minute"`
	SymRoot   string  `parquet:"sym_root"`
	SymSuffix *string `parquet:"sym_suffix,optional"`
	Close     float64 `parquet:"close"`
	Size      float64 `parquet:"size"`
}

// readTradeFile validates the schema of one parquet file and decodes all of
// its rows. keys holds partition key values (column name → value) derived
// from the directory layout; they stand in for columns absent from the file.
//
// It fails on:
//   - a required column that is neither in the file nor a partition key
//   - a negative or NaN trade size
//   - unrecoverable I/O or decode errors
func readTradeFile(ctx context.Context, path string, keys map[string]string) ([]models.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	// Validate schema strictly before decoding anything.
	schema := pf.Schema()
	for _, col := range RequiredColumns {
		if _, ok := schema.Lookup(col); ok {
			continue
		}
		if _, ok := keys[col]; ok {
			continue
		}
		return nil, fmt.Errorf("%w: field <%s> is required, but not present in the data", ErrMissingColumn, col)
	}

	reader := parquet.NewGenericReader[parquetTrade](f)
	defer func() { _ = reader.Close() }()

	out := make([]models.Trade, 0, pf.NumRows())
	buf := make([]parquetTrade, readBatch)
	row := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := reader.Read(buf)
		for _, rec := range buf[:n] {
			row++
			tr, convErr := recordToTrade(rec, keys)
			if convErr != nil {
				return nil, fmt.Errorf("row %d: %w", row, convErr)
			}
			out = append(out, tr)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read after row %d: %w", row, err)
		}
	}

	return out, nil
}

// recordToTrade maps a decoded row to models.Trade. A missing suffix becomes
// "", and an empty sym_root is filled from the partition key.
func recordToTrade(rec parquetTrade, keys map[string]string) (models.Trade, error) {
	if math.IsNaN(rec.Size) || rec.Size < 0 {
		return models.Trade{}, fmt.Errorf("invalid size %v: must be a non-negative number", rec.Size)
	}

	t := models.Trade{
		Date:       epoch.AddDate(0, 0, int(rec.Date)),
		Minute:     int(rec.Minute),
		RootSymbol: rec.SymRoot,
		Close:      rec.Close,
		Size:       rec.Size,
	}
	if t.RootSymbol == "" {
		t.RootSymbol = keys["sym_root"]
	}
	if rec.SymSuffix != nil {
		t.Suffix = *rec.SymSuffix
	}
	return t, nil
}
