package common

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	ICEBERG_METADATA_DIR_NAME     = "metadata"
	ICEBERG_VERSION_HINT_FILE     = "version-hint.text"
	ICEBERG_METADATA_FILE_PREFIX  = "v"
	ICEBERG_METADATA_FILE_SUFFIX  = ".metadata.json"
	ICEBERG_NO_CURRENT_SNAPSHOT   = -1
	ICEBERG_SUMMARY_KEY_OPERATION = "operation"
)

type IcebergField struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Type     interface{} `json:"type"`
	Required bool        `json:"required"`
	Doc      string      `json:"doc,omitempty"`
}

type IcebergSchema struct {
	Type     string         `json:"type"`
	SchemaId int            `json:"schema-id"`
	Fields   []IcebergField `json:"fields"`
}

type IcebergSnapshot struct {
	SnapshotId       int64             `json:"snapshot-id"`
	ParentSnapshotId *int64            `json:"parent-snapshot-id,omitempty"`
	SequenceNumber   int64             `json:"sequence-number"`
	TimestampMs      int64             `json:"timestamp-ms"`
	ManifestList     string            `json:"manifest-list"`
	Summary          map[string]string `json:"summary,omitempty"`
	SchemaId         *int              `json:"schema-id,omitempty"`
}

type IcebergSnapshotLogEntry struct {
	TimestampMs int64 `json:"timestamp-ms"`
	SnapshotId  int64 `json:"snapshot-id"`
}

type TableMetadata struct {
	FormatVersion     int                       `json:"format-version"`
	TableUuid         string                    `json:"table-uuid"`
	Location          string                    `json:"location"`
	LastUpdatedMs     int64                     `json:"last-updated-ms"`
	Schema            *IcebergSchema            `json:"schema,omitempty"` // format v1
	Schemas           []IcebergSchema           `json:"schemas,omitempty"`
	CurrentSchemaId   int                       `json:"current-schema-id"`
	Properties        map[string]string         `json:"properties,omitempty"`
	CurrentSnapshotId *int64                    `json:"current-snapshot-id,omitempty"`
	Snapshots         []IcebergSnapshot         `json:"snapshots,omitempty"`
	SnapshotLog       []IcebergSnapshotLogEntry `json:"snapshot-log,omitempty"`

	MetadataFileLocation string `json:"-"`
}

func ParseTableMetadata(content []byte, metadataFileLocation string) (*TableMetadata, error) {
	var metadata TableMetadata
	err := json.Unmarshal(content, &metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table metadata %s: %w", metadataFileLocation, err)
	}

	if metadata.TableUuid != "" {
		_, err = uuid.Parse(metadata.TableUuid)
		if err != nil {
			return nil, fmt.Errorf("invalid table-uuid in %s: %w", metadataFileLocation, err)
		}
	}
	if metadata.Schema == nil && len(metadata.Schemas) == 0 {
		return nil, fmt.Errorf("table metadata %s has no schema", metadataFileLocation)
	}

	metadata.MetadataFileLocation = metadataFileLocation
	return &metadata, nil
}

func (metadata *TableMetadata) CurrentSchema() IcebergSchema {
	for _, schema := range metadata.Schemas {
		if schema.SchemaId == metadata.CurrentSchemaId {
			return schema
		}
	}
	if metadata.Schema != nil {
		return *metadata.Schema
	}
	return metadata.Schemas[len(metadata.Schemas)-1]
}

func (metadata *TableMetadata) CurrentSnapshot() *IcebergSnapshot {
	if metadata.CurrentSnapshotId == nil || *metadata.CurrentSnapshotId == ICEBERG_NO_CURRENT_SNAPSHOT {
		return nil
	}
	for i := range metadata.Snapshots {
		if metadata.Snapshots[i].SnapshotId == *metadata.CurrentSnapshotId {
			return &metadata.Snapshots[i]
		}
	}
	return nil
}

func (metadata *TableMetadata) SnapshotsSortedAsc() []IcebergSnapshot {
	snapshots := make([]IcebergSnapshot, len(metadata.Snapshots))
	copy(snapshots, metadata.Snapshots)
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].TimestampMs < snapshots[j].TimestampMs
	})
	return snapshots
}

func (snapshot IcebergSnapshot) Operation() string {
	return snapshot.Summary[ICEBERG_SUMMARY_KEY_OPERATION]
}

// "long", {"type": "list", "element": "string"} -> "list<string>"
func (field IcebergField) TypeString() string {
	return icebergTypeString(field.Type)
}

func icebergTypeString(fieldType interface{}) string {
	switch typed := fieldType.(type) {
	case string:
		return typed
	case map[string]interface{}:
		switch typed["type"] {
		case "list":
			return "list<" + icebergTypeString(typed["element"]) + ">"
		case "map":
			return "map<" + icebergTypeString(typed["key"]) + "," + icebergTypeString(typed["value"]) + ">"
		case "struct":
			fields, _ := typed["fields"].([]interface{})
			fieldStrings := make([]string, 0, len(fields))
			for _, field := range fields {
				fieldMap, ok := field.(map[string]interface{})
				if !ok {
					continue
				}
				fieldStrings = append(fieldStrings, fmt.Sprintf("%v:%s", fieldMap["name"], icebergTypeString(fieldMap["type"])))
			}
			return "struct<" + strings.Join(fieldStrings, ",") + ">"
		}
	}
	return fmt.Sprintf("%v", fieldType)
}

// Read ----------------------------------------------------------------------------------------------------------------

// LoadTableMetadata finds the current metadata file of a location-addressed table:
// the version named by metadata/version-hint.text, otherwise the highest vN.metadata.json.
func LoadTableMetadata(ctx context.Context, storage StorageInterface, tableLocation string) (*TableMetadata, error) {
	metadataDirPath := JoinLocation(tableLocation, ICEBERG_METADATA_DIR_NAME)

	version, err := readVersionHint(ctx, storage, metadataDirPath)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		version, err = latestMetadataVersion(ctx, storage, metadataDirPath)
		if err != nil {
			return nil, err
		}
	}
	if version == 0 {
		return nil, fmt.Errorf("%w at location: %s", ErrTableNotFound, tableLocation)
	}

	metadataFilePath := JoinLocation(metadataDirPath, MetadataFileName(version))
	content, err := storage.ReadFile(ctx, metadataFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read table metadata %s: %w", metadataFilePath, err)
	}

	return ParseTableMetadata(content, metadataFilePath)
}

func IsTableLocation(ctx context.Context, storage StorageInterface, tableLocation string) (bool, error) {
	metadataDirPath := JoinLocation(tableLocation, ICEBERG_METADATA_DIR_NAME)

	version, err := readVersionHint(ctx, storage, metadataDirPath)
	if err != nil || version > 0 {
		return version > 0, err
	}

	version, err = latestMetadataVersion(ctx, storage, metadataDirPath)
	return version > 0, err
}

func MetadataFileName(version int) string {
	return ICEBERG_METADATA_FILE_PREFIX + IntToString(version) + ICEBERG_METADATA_FILE_SUFFIX
}

func MetadataVersionFromFileName(fileName string) (int, bool) {
	s := strings.TrimSpace(fileName)
	if !strings.HasPrefix(s, ICEBERG_METADATA_FILE_PREFIX) || !strings.HasSuffix(s, ICEBERG_METADATA_FILE_SUFFIX) {
		return 0, false
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, ICEBERG_METADATA_FILE_PREFIX), ICEBERG_METADATA_FILE_SUFFIX)
	version, err := strconv.Atoi(s)
	if err != nil || version <= 0 {
		return 0, false
	}
	return version, true
}

// ---------------------------------------------------------------------------------------------------------------------

// 0 when there is no usable hint
func readVersionHint(ctx context.Context, storage StorageInterface, metadataDirPath string) (int, error) {
	hintPath := JoinLocation(metadataDirPath, ICEBERG_VERSION_HINT_FILE)

	exists, err := storage.FileExists(ctx, hintPath)
	if err != nil || !exists {
		return 0, err
	}

	content, err := storage.ReadFile(ctx, hintPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read version hint %s: %w", hintPath, err)
	}

	version, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || version <= 0 {
		return 0, nil
	}

	exists, err = storage.FileExists(ctx, JoinLocation(metadataDirPath, MetadataFileName(version)))
	if err != nil || !exists {
		return 0, err
	}
	return version, nil
}

func latestMetadataVersion(ctx context.Context, storage StorageInterface, metadataDirPath string) (int, error) {
	fileNames, err := storage.ListFiles(ctx, metadataDirPath)
	if err != nil {
		return 0, err
	}

	maxVersion := 0
	for _, fileName := range fileNames {
		if version, ok := MetadataVersionFromFileName(fileName); ok && version > maxVersion {
			maxVersion = version
		}
	}
	return maxVersion, nil
}
