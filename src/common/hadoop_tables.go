package common

import (
	"context"
	"strings"
)

// HadoopTables loads tables addressed directly by their location.
// "<location>#snapshots" loads the snapshots metadata table of the table at <location>.
// Any other "#" belongs to the location itself.
type HadoopTables struct {
	StorageContext *StorageContext
	StorageUtils   *StorageUtils
}

func NewHadoopTables(storageContext *StorageContext) *HadoopTables {
	return &HadoopTables{
		StorageContext: storageContext,
		StorageUtils:   NewStorageUtils(storageContext.Config),
	}
}

func (tables *HadoopTables) Load(ctx context.Context, location string) (Table, error) {
	tableLocation, metadataTableType := ParseMetadataLocation(location)

	baseTable, err := tables.loadBaseTable(ctx, tableLocation)
	if err != nil {
		return nil, err
	}
	if metadataTableType == "" {
		return baseTable, nil
	}

	LogDebug(tables.StorageContext.Config, "Loading", metadataTableType, "metadata table of", tableLocation)
	return NewMetadataTable(baseTable, metadataTableType)
}

// ParseMetadataLocation splits "<location>#<type>" at the last "#" when <type> is a metadata table type.
// Otherwise the whole string is the table location and the type is empty.
func ParseMetadataLocation(location string) (tableLocation string, metadataTableType string) {
	hashIndex := strings.LastIndex(location, "#")
	if hashIndex == -1 {
		return location, ""
	}

	fragment := location[hashIndex+1:]
	if !IsMetadataTableType(fragment) {
		return location, ""
	}
	return location[:hashIndex], fragment
}

func (tables *HadoopTables) loadBaseTable(ctx context.Context, tableLocation string) (*BaseTable, error) {
	storage, err := tables.StorageContext.StorageFor(tableLocation)
	if err != nil {
		return nil, err
	}

	metadata, err := LoadTableMetadata(ctx, storage, tableLocation)
	if err != nil {
		return nil, err
	}
	LogDebug(tables.StorageContext.Config, "Loaded table metadata:", metadata.MetadataFileLocation)

	return &BaseTable{
		Config:       tables.StorageContext.Config,
		Storage:      storage,
		StorageUtils: tables.StorageUtils,
		Metadata:     metadata,
		TableName:    tableLocation,
		Path:         tableLocation,
	}, nil
}
