package common

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/linkedin/goavro"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
)

const (
	ICEBERG_MANIFEST_STATUS_EXISTING = 0
	ICEBERG_MANIFEST_STATUS_ADDED    = 1
	ICEBERG_MANIFEST_STATUS_DELETED  = 2

	ICEBERG_MANIFEST_CONTENT_DATA    = 0
	ICEBERG_MANIFEST_CONTENT_DELETES = 1

	ICEBERG_DATA_FILE_CONTENT_DATA = 0

	ICEBERG_FILE_FORMAT_PARQUET = "PARQUET"
)

type ParquetFileStats struct {
	RecordCount  int64
	RowGroups    int
	SplitOffsets []int64
}

type StorageUtils struct {
	Config *CommonConfig
}

func NewStorageUtils(config *CommonConfig) *StorageUtils {
	return &StorageUtils{
		Config: config,
	}
}

// Read ----------------------------------------------------------------------------------------------------------------

func (utils *StorageUtils) ParseManifestListFile(manifestListContent []byte) ([]ManifestListItem, error) {
	ocfReader, err := goavro.NewOCFReader(bytes.NewReader(manifestListContent))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest list: %v", err)
	}

	manifestListItems := []ManifestListItem{}
	for ocfReader.Scan() {
		record, err := ocfReader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest list record: %v", err)
		}

		recordMap, ok := record.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected manifest list record: %v", record)
		}
		manifestPath, ok := recordMap["manifest_path"].(string)
		if !ok {
			return nil, fmt.Errorf("manifest list record without manifest_path: %v", recordMap)
		}

		manifestListItems = append(manifestListItems, ManifestListItem{
			Path:    manifestPath,
			Size:    AvroInt64(recordMap["manifest_length"]),
			Content: AvroInt64(recordMap["content"]), // absent in format v1, which means DATA
		})
	}
	if ocfReader.Err() != nil {
		return nil, fmt.Errorf("failed to read manifest list: %v", ocfReader.Err())
	}

	return manifestListItems, nil
}

// ParseManifestFile returns live data files. Entries with DELETED status are skipped.
func (utils *StorageUtils) ParseManifestFile(manifestContent []byte) ([]DataFile, error) {
	ocfReader, err := goavro.NewOCFReader(bytes.NewReader(manifestContent))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %v", err)
	}

	dataFiles := []DataFile{}
	for ocfReader.Scan() {
		record, err := ocfReader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest record: %v", err)
		}

		recordMap, ok := record.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected manifest record: %v", record)
		}
		switch status := AvroInt64(recordMap["status"]); status {
		case ICEBERG_MANIFEST_STATUS_EXISTING, ICEBERG_MANIFEST_STATUS_ADDED:
		case ICEBERG_MANIFEST_STATUS_DELETED:
			continue
		default:
			return nil, fmt.Errorf("unknown manifest entry status %d: %v", status, recordMap)
		}

		dataFileMap, ok := recordMap["data_file"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("manifest record without data_file: %v", recordMap)
		}
		filePath, _ := dataFileMap["file_path"].(string)
		fileFormat, _ := dataFileMap["file_format"].(string)

		dataFiles = append(dataFiles, DataFile{
			Path:        filePath,
			Format:      strings.ToUpper(fileFormat),
			Content:     AvroInt64(dataFileMap["content"]),
			RecordCount: AvroInt64(dataFileMap["record_count"]),
			Size:        AvroInt64(dataFileMap["file_size_in_bytes"]),
		})
	}
	if ocfReader.Err() != nil {
		return nil, fmt.Errorf("failed to read manifest: %v", ocfReader.Err())
	}

	return dataFiles, nil
}

func (utils *StorageUtils) ReadParquetStats(fileReader source.ParquetFile) (ParquetFileStats, error) {
	defer fileReader.Close()

	pr, err := reader.NewParquetReader(fileReader, nil, 1)
	if err != nil {
		return ParquetFileStats{}, fmt.Errorf("failed to create Parquet reader: %v", err)
	}
	defer pr.ReadStop()

	parquetStats := ParquetFileStats{
		RecordCount:  pr.GetNumRows(),
		RowGroups:    len(pr.Footer.RowGroups),
		SplitOffsets: []int64{},
	}

	for _, rowGroup := range pr.Footer.RowGroups {
		if rowGroup.FileOffset != nil {
			parquetStats.SplitOffsets = append(parquetStats.SplitOffsets, *rowGroup.FileOffset)
		} else if len(rowGroup.Columns) > 0 && rowGroup.Columns[0].MetaData != nil {
			parquetStats.SplitOffsets = append(parquetStats.SplitOffsets, rowGroup.Columns[0].MetaData.DataPageOffset)
		}
	}

	return parquetStats, nil
}
