package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type TableIdentifier struct {
	Namespace []string
	Name      string
}

// "db.t" -> {[db], t}
func ParseTableIdentifier(identifier string) (TableIdentifier, error) {
	if identifier == "" {
		return TableIdentifier{}, fmt.Errorf("%w: table identifier is empty", ErrConfiguration)
	}

	parts := strings.Split(identifier, ".")
	for _, part := range parts {
		if part == "" {
			return TableIdentifier{}, fmt.Errorf("%w: invalid table identifier: %s", ErrConfiguration, identifier)
		}
	}

	return TableIdentifier{
		Namespace: parts[:len(parts)-1],
		Name:      parts[len(parts)-1],
	}, nil
}

func (identifier TableIdentifier) HasNamespace() bool {
	return len(identifier.Namespace) > 0
}

// {[db, t], snapshots} -> {[db], t}
func (identifier TableIdentifier) Parent() TableIdentifier {
	return TableIdentifier{
		Namespace: identifier.Namespace[:len(identifier.Namespace)-1],
		Name:      identifier.Namespace[len(identifier.Namespace)-1],
	}
}

func (identifier TableIdentifier) String() string {
	return strings.Join(append(append([]string{}, identifier.Namespace...), identifier.Name), ".")
}

// HadoopCatalog is a directory-tree catalog: table ns1.ns2.t lives at <warehouse>/ns1/ns2/t.
type HadoopCatalog struct {
	StorageContext    *StorageContext
	StorageUtils      *StorageUtils
	WarehouseLocation string
}

func NewHadoopCatalog(storageContext *StorageContext, warehouseLocation string) *HadoopCatalog {
	return &HadoopCatalog{
		StorageContext:    storageContext,
		StorageUtils:      NewStorageUtils(storageContext.Config),
		WarehouseLocation: warehouseLocation,
	}
}

// LoadTable loads a table, or the metadata table named by the last identifier part (db.t.snapshots)
// when no table exists at that identifier.
func (catalog *HadoopCatalog) LoadTable(ctx context.Context, identifier TableIdentifier) (Table, error) {
	table, err := catalog.loadBaseTable(ctx, identifier)
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, ErrTableNotFound) || !identifier.HasNamespace() || !IsMetadataTableType(identifier.Name) {
		return nil, err
	}

	baseTable, err := catalog.loadBaseTable(ctx, identifier.Parent())
	if err != nil {
		return nil, err
	}
	LogDebug(catalog.StorageContext.Config, "Loading", identifier.Name, "metadata table of", baseTable.Name())
	return NewMetadataTable(baseTable, identifier.Name)
}

func (catalog *HadoopCatalog) ListTables(ctx context.Context, namespace []string) ([]TableIdentifier, error) {
	namespaceLocation := JoinLocation(catalog.WarehouseLocation, namespace...)
	storage, err := catalog.StorageContext.StorageFor(namespaceLocation)
	if err != nil {
		return nil, err
	}

	dirNames, err := storage.ListDirectories(ctx, namespaceLocation)
	if err != nil {
		return nil, err
	}

	tableNames := NewSet[string]()
	for _, dirName := range dirNames {
		isTable, err := IsTableLocation(ctx, storage, JoinLocation(namespaceLocation, dirName))
		if err != nil {
			return nil, err
		}
		if isTable {
			tableNames.Add(dirName)
		}
	}

	identifiers := []TableIdentifier{}
	for _, tableName := range tableNames.SortedValues() {
		identifiers = append(identifiers, TableIdentifier{Namespace: namespace, Name: tableName})
	}
	return identifiers, nil
}

func (catalog *HadoopCatalog) TableLocation(identifier TableIdentifier) string {
	return JoinLocation(JoinLocation(catalog.WarehouseLocation, identifier.Namespace...), identifier.Name)
}

// ---------------------------------------------------------------------------------------------------------------------

func (catalog *HadoopCatalog) loadBaseTable(ctx context.Context, identifier TableIdentifier) (*BaseTable, error) {
	tableLocation := catalog.TableLocation(identifier)
	storage, err := catalog.StorageContext.StorageFor(tableLocation)
	if err != nil {
		return nil, err
	}

	metadata, err := LoadTableMetadata(ctx, storage, tableLocation)
	if err != nil {
		return nil, err
	}
	LogDebug(catalog.StorageContext.Config, "Loaded table metadata:", metadata.MetadataFileLocation)

	return &BaseTable{
		Config:       catalog.StorageContext.Config,
		Storage:      storage,
		StorageUtils: catalog.StorageUtils,
		Metadata:     metadata,
		TableName:    identifier.String(),
		Path:         tableLocation,
	}, nil
}
