package common

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	METADATA_TABLE_SNAPSHOTS = "snapshots"
)

var METADATA_TABLE_TYPES = NewSet[string]().Add(METADATA_TABLE_SNAPSHOTS)

// Schema of the snapshots metadata table
var SNAPSHOTS_TABLE_SCHEMA = IcebergSchema{
	Type: "struct",
	Fields: []IcebergField{
		{ID: 1, Name: "committed_at", Type: "timestamptz", Required: true},
		{ID: 2, Name: "snapshot_id", Type: "long", Required: true},
		{ID: 3, Name: "parent_id", Type: "long"},
		{ID: 4, Name: "operation", Type: "string"},
		{ID: 5, Name: "manifest_list", Type: "string"},
		{ID: 6, Name: "summary", Type: map[string]interface{}{"type": "map", "key": "string", "value": "string"}},
	},
}

type Table interface {
	Name() string
	Location() string
	Schema() IcebergSchema
	CurrentSnapshot() *IcebergSnapshot
	Snapshots() []IcebergSnapshot
	PlanFiles(ctx context.Context) ([]DataFile, error)
}

func IsMetadataTableType(name string) bool {
	return METADATA_TABLE_TYPES.Contains(strings.ToLower(name))
}

func NewMetadataTable(baseTable *BaseTable, metadataTableType string) (Table, error) {
	switch strings.ToLower(metadataTableType) {
	case METADATA_TABLE_SNAPSHOTS:
		return &SnapshotsTable{BaseTable: baseTable}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetadataTable, metadataTableType)
	}
}

// BaseTable ----------------------------------------------------------------------------------------------------------

type BaseTable struct {
	Config       *CommonConfig
	Storage      StorageInterface
	StorageUtils *StorageUtils
	Metadata     *TableMetadata
	TableName    string
	Path         string
}

func (table *BaseTable) Name() string {
	return table.TableName
}

func (table *BaseTable) Location() string {
	return table.Path
}

func (table *BaseTable) Schema() IcebergSchema {
	return table.Metadata.CurrentSchema()
}

func (table *BaseTable) CurrentSnapshot() *IcebergSnapshot {
	return table.Metadata.CurrentSnapshot()
}

func (table *BaseTable) Snapshots() []IcebergSnapshot {
	return table.Metadata.SnapshotsSortedAsc()
}

// PlanFiles lists the live data files of the current snapshot.
func (table *BaseTable) PlanFiles(ctx context.Context) ([]DataFile, error) {
	snapshot := table.CurrentSnapshot()
	if snapshot == nil {
		LogDebug(table.Config, "Table", table.TableName, "has no current snapshot")
		return []DataFile{}, nil
	}

	manifestListContent, err := table.Storage.ReadFile(ctx, snapshot.ManifestList)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest list %s: %w", snapshot.ManifestList, err)
	}
	manifestListItems, err := table.StorageUtils.ParseManifestListFile(manifestListContent)
	if err != nil {
		return nil, err
	}

	dataFiles := []DataFile{}
	for _, manifestListItem := range manifestListItems {
		switch manifestListItem.Content {
		case ICEBERG_MANIFEST_CONTENT_DATA:
		case ICEBERG_MANIFEST_CONTENT_DELETES:
			LogWarn(table.Config, "Skipping delete manifest", manifestListItem.Path, "of table", table.TableName)
			continue
		default:
			return nil, fmt.Errorf("unknown content %d of manifest %s", manifestListItem.Content, manifestListItem.Path)
		}

		manifestContent, err := table.Storage.ReadFile(ctx, manifestListItem.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", manifestListItem.Path, err)
		}
		manifestDataFiles, err := table.StorageUtils.ParseManifestFile(manifestContent)
		if err != nil {
			return nil, err
		}

		for _, dataFile := range manifestDataFiles {
			if dataFile.Content != ICEBERG_DATA_FILE_CONTENT_DATA {
				LogWarn(table.Config, "Skipping delete file", dataFile.Path, "of table", table.TableName)
				continue
			}
			dataFiles = append(dataFiles, dataFile)
		}
	}

	LogDebug(table.Config, "Planned", len(dataFiles), "data file(s) for table", table.TableName)
	return dataFiles, nil
}

// SnapshotsTable -----------------------------------------------------------------------------------------------------

// SnapshotsTable is the commit history of a base table, exposed as a table.
type SnapshotsTable struct {
	BaseTable *BaseTable
}

func (table *SnapshotsTable) Name() string {
	return table.BaseTable.Name() + ICEBERG_SNAPSHOTS_TABLE_SUFFIX
}

func (table *SnapshotsTable) Location() string {
	return table.BaseTable.Location()
}

func (table *SnapshotsTable) Schema() IcebergSchema {
	return SNAPSHOTS_TABLE_SCHEMA
}

func (table *SnapshotsTable) CurrentSnapshot() *IcebergSnapshot {
	return table.BaseTable.CurrentSnapshot()
}

func (table *SnapshotsTable) Snapshots() []IcebergSnapshot {
	return table.BaseTable.Snapshots()
}

// The snapshots table has no data files of its own
func (table *SnapshotsTable) PlanFiles(ctx context.Context) ([]DataFile, error) {
	return []DataFile{}, nil
}

// Rows follow SNAPSHOTS_TABLE_SCHEMA, oldest commit first.
func (table *SnapshotsTable) Rows() []IcebergRecord {
	snapshots := table.Snapshots()
	rows := make([]IcebergRecord, 0, len(snapshots))

	for _, snapshot := range snapshots {
		var parentId interface{}
		if snapshot.ParentSnapshotId != nil {
			parentId = *snapshot.ParentSnapshotId
		}

		summary := make(map[string]string, len(snapshot.Summary))
		for key, value := range snapshot.Summary {
			summary[key] = value
		}

		rows = append(rows, IcebergRecord{
			time.UnixMilli(snapshot.TimestampMs).UTC(),
			snapshot.SnapshotId,
			parentId,
			snapshot.Operation(),
			snapshot.ManifestList,
			summary,
		})
	}

	return rows
}
