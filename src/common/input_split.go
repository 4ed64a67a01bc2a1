package common

import (
	"context"
	"fmt"
)

// InputSplit is one unit of work for a record reader: a single data file.
type InputSplit struct {
	Path         string
	Format       string
	RecordCount  int64
	Size         int64
	SplitOffsets []int64
}

func (split InputSplit) String() string {
	return fmt.Sprintf("%s (%s, %d record(s), %d byte(s), %d row group(s))", split.Path, split.Format, split.RecordCount, split.Size, len(split.SplitOffsets))
}

// PlanSplits creates one split per live data file, with row group offsets read from the Parquet footer.
func PlanSplits(ctx context.Context, storageContext *StorageContext, table Table) ([]InputSplit, error) {
	dataFiles, err := table.PlanFiles(ctx)
	if err != nil {
		return nil, err
	}

	storageUtils := NewStorageUtils(storageContext.Config)
	splits := make([]InputSplit, 0, len(dataFiles))

	for _, dataFile := range dataFiles {
		if dataFile.Format != ICEBERG_FILE_FORMAT_PARQUET {
			return nil, fmt.Errorf("unsupported data file format %s: %s", dataFile.Format, dataFile.Path)
		}

		storage, err := storageContext.StorageFor(dataFile.Path)
		if err != nil {
			return nil, err
		}
		parquetFile, err := storage.ParquetFile(ctx, dataFile.Path)
		if err != nil {
			return nil, err
		}
		parquetStats, err := storageUtils.ReadParquetStats(parquetFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read Parquet footer of %s: %w", dataFile.Path, err)
		}

		if parquetStats.RecordCount != dataFile.RecordCount {
			LogWarn(storageContext.Config, "Record count mismatch for", dataFile.Path, "- manifest:", dataFile.RecordCount, "footer:", parquetStats.RecordCount)
		}

		splits = append(splits, InputSplit{
			Path:         dataFile.Path,
			Format:       dataFile.Format,
			RecordCount:  parquetStats.RecordCount,
			Size:         dataFile.Size,
			SplitOffsets: parquetStats.SplitOffsets,
		})
	}

	LogDebug(storageContext.Config, "Planned", len(splits), "split(s) for table", table.Name())
	return splits, nil
}
