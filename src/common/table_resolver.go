package common

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type TableLoader interface {
	Load(ctx context.Context, location string) (Table, error)
}

type CatalogTableLoader interface {
	LoadTable(ctx context.Context, identifier TableIdentifier) (Table, error)
}

// TableResolver turns a TableReference into a loaded table. It keeps no state between calls.
type TableResolver struct {
	Tables     TableLoader
	NewCatalog func(warehouseLocation string) CatalogTableLoader
}

func NewTableResolver(storageContext *StorageContext) *TableResolver {
	return &TableResolver{
		Tables: NewHadoopTables(storageContext),
		NewCatalog: func(warehouseLocation string) CatalogTableLoader {
			return NewHadoopCatalog(storageContext, warehouseLocation)
		},
	}
}

func (resolver *TableResolver) ResolveFromJob(ctx context.Context, jobProperties JobProperties) (Table, error) {
	reference, err := ResolveFromJobProperties(jobProperties)
	if err != nil {
		return nil, err
	}

	return resolver.Resolve(ctx, reference)
}

func (resolver *TableResolver) Resolve(ctx context.Context, reference TableReference) (Table, error) {
	switch reference.CatalogKind {
	case CatalogKindHadoopTables:
		return resolver.Tables.Load(ctx, HadoopTablesLocation(reference))
	case CatalogKindHiveCatalog:
		return nil, fmt.Errorf("%w: %s", ErrUnimplementedCatalog, CATALOG_HIVE)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCatalog, reference.CatalogName)
	}
}

// ResolveMetadataTableFromCatalog loads the snapshots table of tableName from the directory-tree
// catalog whose warehouse is derived from location (see ExtractWarehousePath).
func (resolver *TableResolver) ResolveMetadataTableFromCatalog(ctx context.Context, location string, tableName string) (Table, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: location is empty", ErrInvalidLocation)
	}

	warehouseUri, err := PathAsURI(ExtractWarehousePath(location, tableName))
	if err != nil {
		return nil, err
	}

	baseTableName := strings.TrimSuffix(tableName, SNAPSHOT_TABLE_SUFFIX)
	snapshotsIdentifier, err := ParseTableIdentifier(baseTableName + ICEBERG_SNAPSHOTS_TABLE_SUFFIX)
	if err != nil {
		return nil, err
	}

	catalog := resolver.NewCatalog(WarehouseRoot(warehouseUri))
	return catalog.LoadTable(ctx, snapshotsIdentifier)
}

// HadoopTablesLocation is the location HadoopTables loads for a reference.
// A name with the snapshots suffix is redirected to the snapshots metadata table
// unless the snapshot table is disabled, in which case the suffix is ignored.
func HadoopTablesLocation(reference TableReference) string {
	if reference.IsSnapshotTableRequest() && reference.SnapshotTableEnabled {
		return reference.TableLocation + SNAPSHOTS_LOCATION_SUFFIX
	}
	return reference.TableLocation
}

// ExtractWarehousePath removes the table's directory path ("db.t__snapshots" -> "db/t") from location.
// This is a textual replacement: when location doesn't contain that path, the result is not a warehouse.
func ExtractWarehousePath(location string, tableName string) string {
	tablePath := strings.ReplaceAll(strings.ReplaceAll(tableName, ".", "/"), SNAPSHOT_TABLE_SUFFIX, "")
	if tablePath == "" {
		return location
	}
	return strings.ReplaceAll(location, tablePath, "")
}

func PathAsURI(path string) (*url.URL, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrInvalidLocation)
	}

	if index := strings.IndexFunc(path, isIllegalUriRune); index >= 0 {
		return nil, fmt.Errorf("%w: unable to create URI for table location '%s': illegal character at index %d", ErrLocationSyntax, path, index)
	}

	uri, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create URI for table location '%s': %w", ErrLocationSyntax, path, err)
	}
	return uri, nil
}

// WarehouseRoot keeps only the path of local locations and the full location for object stores.
// A local directory name may contain "?" or "#", so they stay part of the path.
func WarehouseRoot(uri *url.URL) string {
	switch uri.Scheme {
	case "", FILE_SCHEME:
		root := uri.Path
		if uri.ForceQuery || uri.RawQuery != "" {
			root += "?" + uri.RawQuery
		}
		if uri.Fragment != "" {
			root += "#" + uri.Fragment
		}
		return root
	default:
		return uri.String()
	}
}

func isIllegalUriRune(r rune) bool {
	if r <= 0x20 || r == 0x7f {
		return true
	}
	return strings.ContainsRune("\"<>\\^`{|}", r)
}
