package common

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/linkedin/goavro"
)

const (
	TEST_MANIFEST_LIST_SCHEMA = `{
		"type": "record",
		"name": "manifest_file",
		"fields": [
			{"name": "manifest_path", "type": "string"},
			{"name": "manifest_length", "type": "long"},
			{"name": "partition_spec_id", "type": "int"},
			{"name": "content", "type": "int"},
			{"name": "sequence_number", "type": "long"},
			{"name": "added_snapshot_id", "type": "long"}
		]
	}`

	TEST_MANIFEST_SCHEMA = `{
		"type": "record",
		"name": "manifest_entry",
		"fields": [
			{"name": "status", "type": "int"},
			{"name": "snapshot_id", "type": ["null", "long"], "default": null},
			{"name": "data_file", "type": {
				"type": "record",
				"name": "r2",
				"fields": [
					{"name": "content", "type": "int"},
					{"name": "file_path", "type": "string"},
					{"name": "file_format", "type": "string"},
					{"name": "record_count", "type": "long"},
					{"name": "file_size_in_bytes", "type": "long"}
				]
			}}
		]
	}`
)

var TEST_TABLE_SCHEMA = IcebergSchema{
	Type:     "struct",
	SchemaId: 0,
	Fields: []IcebergField{
		{ID: 1, Name: "id", Type: "long", Required: true},
		{ID: 2, Name: "name", Type: "string"},
	},
}

type testDataFile struct {
	Path        string
	Status      int
	Content     int
	Format      string
	RecordCount int64
	Size        int64
}

type testSnapshot struct {
	SnapshotId       int64
	ParentSnapshotId *int64
	TimestampMs      int64
	Operation        string
	DataFiles        []testDataFile
	DeleteFiles      []testDataFile // written to a separate delete manifest
}

func loadTestConfig() *CommonConfig {
	config := NewDefaultCommonConfig()
	config.LogLevel = LOG_LEVEL_INFO // Use INFO to avoid excessive logging during tests
	config.Duckdb.MemoryLimit = "512MB"
	config.Duckdb.Threads = 1
	return config
}

func testInt64(i int64) *int64 {
	return &i
}

// writeTestTable writes a location-addressed table with v1.metadata.json and a version hint.
// The last snapshot becomes the current one.
func writeTestTable(t *testing.T, tableLocation string, snapshots []testSnapshot) *TableMetadata {
	t.Helper()

	metadataDirPath := filepath.Join(tableLocation, ICEBERG_METADATA_DIR_NAME)
	icebergSnapshots := []IcebergSnapshot{}
	var currentSnapshotId *int64

	for i, snapshot := range snapshots {
		manifestListItems := []map[string]interface{}{}

		manifestPath := filepath.Join(metadataDirPath, strconv.FormatInt(snapshot.SnapshotId, 10)+"-m0.avro")
		manifestSize := writeTestManifest(t, manifestPath, snapshot.SnapshotId, snapshot.DataFiles)
		manifestListItems = append(manifestListItems, testManifestListItem(manifestPath, manifestSize, ICEBERG_MANIFEST_CONTENT_DATA, int64(i+1), snapshot.SnapshotId))

		if len(snapshot.DeleteFiles) > 0 {
			deleteManifestPath := filepath.Join(metadataDirPath, strconv.FormatInt(snapshot.SnapshotId, 10)+"-m1.avro")
			deleteManifestSize := writeTestManifest(t, deleteManifestPath, snapshot.SnapshotId, snapshot.DeleteFiles)
			manifestListItems = append(manifestListItems, testManifestListItem(deleteManifestPath, deleteManifestSize, ICEBERG_MANIFEST_CONTENT_DELETES, int64(i+1), snapshot.SnapshotId))
		}

		manifestListPath := filepath.Join(metadataDirPath, "snap-"+strconv.FormatInt(snapshot.SnapshotId, 10)+".avro")
		writeTestAvroFile(t, manifestListPath, TEST_MANIFEST_LIST_SCHEMA, manifestListItems)

		icebergSnapshots = append(icebergSnapshots, IcebergSnapshot{
			SnapshotId:       snapshot.SnapshotId,
			ParentSnapshotId: snapshot.ParentSnapshotId,
			SequenceNumber:   int64(i + 1),
			TimestampMs:      snapshot.TimestampMs,
			ManifestList:     manifestListPath,
			Summary:          map[string]string{ICEBERG_SUMMARY_KEY_OPERATION: snapshot.Operation},
		})
		currentSnapshotId = testInt64(snapshot.SnapshotId)
	}

	if currentSnapshotId == nil {
		currentSnapshotId = testInt64(ICEBERG_NO_CURRENT_SNAPSHOT)
	}

	metadata := TableMetadata{
		FormatVersion:     2,
		TableUuid:         uuid.New().String(),
		Location:          tableLocation,
		LastUpdatedMs:     1700000000000,
		Schemas:           []IcebergSchema{TEST_TABLE_SCHEMA},
		CurrentSchemaId:   TEST_TABLE_SCHEMA.SchemaId,
		CurrentSnapshotId: currentSnapshotId,
		Snapshots:         icebergSnapshots,
	}
	writeTestMetadataFile(t, tableLocation, 1, metadata)
	writeTestFile(t, filepath.Join(metadataDirPath, ICEBERG_VERSION_HINT_FILE), []byte("1"))

	metadata.MetadataFileLocation = filepath.Join(metadataDirPath, MetadataFileName(1))
	return &metadata
}

func writeTestMetadataFile(t *testing.T, tableLocation string, version int, metadata TableMetadata) {
	t.Helper()

	content, err := json.Marshal(metadata)
	if err != nil {
		t.Fatalf("Failed to marshal table metadata: %v", err)
	}
	writeTestFile(t, filepath.Join(tableLocation, ICEBERG_METADATA_DIR_NAME, MetadataFileName(version)), content)
}

func writeTestManifest(t *testing.T, manifestPath string, snapshotId int64, dataFiles []testDataFile) int64 {
	t.Helper()

	manifestEntries := make([]map[string]interface{}, len(dataFiles))
	for i, dataFile := range dataFiles {
		format := dataFile.Format
		if format == "" {
			format = ICEBERG_FILE_FORMAT_PARQUET
		}
		manifestEntries[i] = map[string]interface{}{
			"status":      dataFile.Status,
			"snapshot_id": map[string]interface{}{"long": snapshotId},
			"data_file": map[string]interface{}{
				"content":            dataFile.Content,
				"file_path":          dataFile.Path,
				"file_format":        format,
				"record_count":       dataFile.RecordCount,
				"file_size_in_bytes": dataFile.Size,
			},
		}
	}

	return writeTestAvroFile(t, manifestPath, TEST_MANIFEST_SCHEMA, manifestEntries)
}

func testManifestListItem(manifestPath string, manifestSize int64, content int, sequenceNumber int64, snapshotId int64) map[string]interface{} {
	return map[string]interface{}{
		"manifest_path":     manifestPath,
		"manifest_length":   manifestSize,
		"partition_spec_id": 0,
		"content":           content,
		"sequence_number":   sequenceNumber,
		"added_snapshot_id": snapshotId,
	}
}

func writeTestAvroFile(t *testing.T, filePath string, schema string, records []map[string]interface{}) int64 {
	t.Helper()

	codec, err := goavro.NewCodec(schema)
	if err != nil {
		t.Fatalf("Failed to create Avro codec: %v", err)
	}

	var buffer bytes.Buffer
	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:      &buffer,
		Codec:  codec,
		Schema: schema,
	})
	if err != nil {
		t.Fatalf("Failed to create Avro OCF writer: %v", err)
	}

	err = ocfWriter.Append(records)
	if err != nil {
		t.Fatalf("Failed to write Avro records: %v", err)
	}

	writeTestFile(t, filePath, buffer.Bytes())
	return int64(buffer.Len())
}

func writeTestFile(t *testing.T, filePath string, content []byte) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(filePath), 0755)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	err = os.WriteFile(filePath, content, 0644)
	if err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}
