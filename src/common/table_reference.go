package common

import (
	"fmt"
	"strings"
)

const (
	PROPERTY_CATALOG                = "catalog"
	PROPERTY_SNAPSHOT_TABLE_ENABLED = "snapshot-table-enabled"
	PROPERTY_TABLE_LOCATION         = "location"
	PROPERTY_TABLE_NAME             = "name"

	CATALOG_HADOOP_TABLES = "hadoop-tables"
	CATALOG_HIVE          = "hive.catalog"

	DEFAULT_CATALOG                = CATALOG_HADOOP_TABLES
	DEFAULT_SNAPSHOT_TABLE_ENABLED = "true"

	// Table names ending with this suffix request the snapshots metadata table
	SNAPSHOT_TABLE_SUFFIX = "__snapshots"
	// Appended to a table location, makes HadoopTables load the snapshots metadata table
	SNAPSHOTS_LOCATION_SUFFIX = "#snapshots"
	// Appended to a table identifier, makes HadoopCatalog load the snapshots metadata table
	ICEBERG_SNAPSHOTS_TABLE_SUFFIX = ".snapshots"
)

type CatalogKind int

const (
	CatalogKindHadoopTables CatalogKind = iota
	CatalogKindHiveCatalog
	CatalogKindUnknown
)

func ParseCatalogKind(catalogName string) CatalogKind {
	switch catalogName {
	case CATALOG_HADOOP_TABLES:
		return CatalogKindHadoopTables
	case CATALOG_HIVE:
		return CatalogKindHiveCatalog
	default:
		return CatalogKindUnknown
	}
}

func (kind CatalogKind) String() string {
	switch kind {
	case CatalogKindHadoopTables:
		return CATALOG_HADOOP_TABLES
	case CatalogKindHiveCatalog:
		return CATALOG_HIVE
	default:
		return "unknown"
	}
}

// TableReference describes which table a job wants to read. It is built fresh for every resolution.
type TableReference struct {
	CatalogKind          CatalogKind
	CatalogName          string // as configured, kept for error messages
	TableName            string // dotted namespace.table
	TableLocation        string
	SnapshotTableEnabled bool
}

func (reference TableReference) IsSnapshotTableRequest() bool {
	return strings.HasSuffix(reference.TableName, SNAPSHOT_TABLE_SUFFIX)
}

func (reference TableReference) String() string {
	return fmt.Sprintf(
		"catalog: %s, name: %s, location: %s, snapshot table enabled: %t",
		reference.CatalogName,
		reference.TableName,
		reference.TableLocation,
		reference.SnapshotTableEnabled,
	)
}

// ResolveFromJobProperties reads a TableReference from job properties.
// "location" and "name" are required; "catalog" and "snapshot-table-enabled" have defaults.
func ResolveFromJobProperties(jobProperties JobProperties) (TableReference, error) {
	tableLocation, err := jobProperties.Require(PROPERTY_TABLE_LOCATION)
	if err != nil {
		return TableReference{}, err
	}
	tableName, err := jobProperties.Require(PROPERTY_TABLE_NAME)
	if err != nil {
		return TableReference{}, err
	}

	catalogName := jobProperties.GetOrDefault(PROPERTY_CATALOG, DEFAULT_CATALOG)

	return TableReference{
		CatalogKind:          ParseCatalogKind(catalogName),
		CatalogName:          catalogName,
		TableName:            tableName,
		TableLocation:        tableLocation,
		SnapshotTableEnabled: ParseBoolean(jobProperties.GetOrDefault(PROPERTY_SNAPSHOT_TABLE_ENABLED, DEFAULT_SNAPSHOT_TABLE_ENABLED)),
	}, nil
}
