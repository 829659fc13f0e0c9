package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// sampleColumn is the single column of a samples file.
const sampleColumn = "value"

// sampleSchema stores one float32 sample per row, row-major.
var sampleSchema = parquet.NewSchema("sample", parquet.Group{
	sampleColumn: parquet.Leaf(parquet.FloatType),
})

// ErrInvalidFormat indicates a samples file that is not valid Parquet.
var ErrInvalidFormat = errors.New("catalog: invalid samples file")

// encodeSamples serializes values as a one-column Parquet file.
func encodeSamples(w io.Writer, values []float32) error {
	var buf bytes.Buffer

	rowBuf := parquet.NewBuffer(sampleSchema)
	if len(values) > 0 {
		rows := make([]parquet.Row, len(values))
		for i, v := range values {
			rows[i] = parquet.Row{parquet.FloatValue(v).Level(0, 0, 0)}
		}
		if _, err := rowBuf.WriteRows(rows); err != nil {
			return fmt.Errorf("parquet: write rows: %w", err)
		}
	}

	pqWriter := parquet.NewWriter(&buf, sampleSchema, parquet.Compression(&parquet.Uncompressed))
	if rowBuf.NumRows() > 0 {
		if _, err := pqWriter.WriteRowGroup(rowBuf); err != nil {
			_ = pqWriter.Close()
			return fmt.Errorf("parquet: write row group: %w", err)
		}
	}
	if err := pqWriter.Close(); err != nil {
		return fmt.Errorf("parquet: close writer: %w", err)
	}

	_, err := io.Copy(w, &buf)
	return err
}

// decodeSamples reads a samples file written by encodeSamples.
func decodeSamples(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, ErrInvalidFormat
	}

	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	numRows := file.NumRows()
	if numRows == 0 {
		return []float32{}, nil
	}

	reader := parquet.NewReader(file)
	defer func() { _ = reader.Close() }()

	values := make([]float32, 0, numRows)
	rows := make([]parquet.Row, 1024)
	for {
		n, err := reader.ReadRows(rows)
		for i := 0; i < n; i++ {
			if len(rows[i]) != 1 {
				return nil, fmt.Errorf("%w: row has %d columns", ErrInvalidFormat, len(rows[i]))
			}
			values = append(values, rows[i][0].Float())
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read rows: %w", ErrInvalidFormat, err)
		}
	}

	return values, nil
}
