package common

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
)

// IcebergRecord holds one row, values ordered like RecordReader.Columns().
type IcebergRecord []interface{}

type RecordReader interface {
	Columns() []string
	// Next returns io.EOF after the last record.
	Next(ctx context.Context) (IcebergRecord, error)
	Close() error
}

// NewRecordReader reads the given columns (all when empty) of a table.
// Data tables are read split by split through DuckDB; the snapshots table is served from metadata.
func NewRecordReader(duckdbClient *DuckdbClient, table Table, splits []InputSplit, columns []string) (RecordReader, error) {
	columnIndexes, err := projectColumns(table.Schema(), columns)
	if err != nil {
		return nil, err
	}

	schemaFields := table.Schema().Fields
	projectedColumns := make([]string, len(columnIndexes))
	for i, index := range columnIndexes {
		projectedColumns[i] = schemaFields[index].Name
	}

	switch typedTable := table.(type) {
	case *SnapshotsTable:
		return &metadataRecordReader{
			columns:       projectedColumns,
			columnIndexes: columnIndexes,
			rows:          typedTable.Rows(),
		}, nil
	default:
		return &parquetRecordReader{
			duckdbClient: duckdbClient,
			columns:      projectedColumns,
			splits:       splits,
		}, nil
	}
}

func projectColumns(schema IcebergSchema, columns []string) ([]int, error) {
	indexByName := make(map[string]int, len(schema.Fields))
	for i, field := range schema.Fields {
		indexByName[strings.ToLower(field.Name)] = i
	}

	if len(columns) == 0 {
		indexes := make([]int, len(schema.Fields))
		for i := range schema.Fields {
			indexes[i] = i
		}
		return indexes, nil
	}

	indexes := make([]int, 0, len(columns))
	for _, column := range columns {
		index, ok := indexByName[strings.ToLower(strings.TrimSpace(column))]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist in table schema", column)
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

// metadataRecordReader ---------------------------------------------------------------------------------------------

type metadataRecordReader struct {
	columns       []string
	columnIndexes []int
	rows          []IcebergRecord
	position      int
}

func (recordReader *metadataRecordReader) Columns() []string {
	return recordReader.columns
}

func (recordReader *metadataRecordReader) Next(ctx context.Context) (IcebergRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if recordReader.position >= len(recordReader.rows) {
		return nil, io.EOF
	}

	row := recordReader.rows[recordReader.position]
	recordReader.position++

	record := make(IcebergRecord, len(recordReader.columnIndexes))
	for i, index := range recordReader.columnIndexes {
		record[i] = row[index]
	}
	return record, nil
}

func (recordReader *metadataRecordReader) Close() error {
	recordReader.rows = nil
	return nil
}

// parquetRecordReader ----------------------------------------------------------------------------------------------

type parquetRecordReader struct {
	duckdbClient *DuckdbClient
	columns      []string
	splits       []InputSplit
	splitIndex   int
	rows         *sql.Rows
}

func (recordReader *parquetRecordReader) Columns() []string {
	return recordReader.columns
}

func (recordReader *parquetRecordReader) Next(ctx context.Context) (IcebergRecord, error) {
	for {
		if recordReader.rows == nil {
			if recordReader.splitIndex >= len(recordReader.splits) {
				return nil, io.EOF
			}

			rows, err := recordReader.openSplit(ctx, recordReader.splits[recordReader.splitIndex])
			if err != nil {
				return nil, err
			}
			recordReader.rows = rows
			recordReader.splitIndex++
		}

		if recordReader.rows.Next() {
			return recordReader.scanRow()
		}

		err := recordReader.rows.Err()
		recordReader.rows.Close()
		recordReader.rows = nil
		if err != nil {
			return nil, err
		}
	}
}

func (recordReader *parquetRecordReader) Close() error {
	if recordReader.rows != nil {
		err := recordReader.rows.Close()
		recordReader.rows = nil
		return err
	}
	return nil
}

func (recordReader *parquetRecordReader) openSplit(ctx context.Context, split InputSplit) (*sql.Rows, error) {
	if recordReader.duckdbClient == nil {
		return nil, fmt.Errorf("reading %s requires a DuckDB client", split.Path)
	}

	quotedColumns := make([]string, len(recordReader.columns))
	for i, column := range recordReader.columns {
		quotedColumns[i] = QuoteIdentifier(column)
	}

	return recordReader.duckdbClient.QueryContext(
		ctx,
		"SELECT "+strings.Join(quotedColumns, ", ")+" FROM read_parquet('$filePath')",
		map[string]string{"filePath": DuckdbFilePath(split.Path)},
	)
}

func (recordReader *parquetRecordReader) scanRow() (IcebergRecord, error) {
	values := make(IcebergRecord, len(recordReader.columns))
	valuePointers := make([]interface{}, len(values))
	for i := range values {
		valuePointers[i] = &values[i]
	}

	err := recordReader.rows.Scan(valuePointers...)
	if err != nil {
		return nil, err
	}
	return values, nil
}
