package common

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveFromJobProperties(t *testing.T) {
	t.Run("Uses defaults for catalog and snapshot-table-enabled", func(t *testing.T) {
		jobProperties := JobProperties{"location": "/wh/db/t", "name": "db.t"}

		reference, err := ResolveFromJobProperties(jobProperties)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if reference.CatalogKind != CatalogKindHadoopTables {
			t.Errorf("Expected catalog kind %v, got %v", CatalogKindHadoopTables, reference.CatalogKind)
		}
		if reference.CatalogName != CATALOG_HADOOP_TABLES {
			t.Errorf("Expected catalog name %s, got %s", CATALOG_HADOOP_TABLES, reference.CatalogName)
		}
		if !reference.SnapshotTableEnabled {
			t.Errorf("Expected snapshot table to be enabled by default")
		}
		if reference.TableLocation != "/wh/db/t" {
			t.Errorf("Expected location /wh/db/t, got %s", reference.TableLocation)
		}
		if reference.TableName != "db.t" {
			t.Errorf("Expected name db.t, got %s", reference.TableName)
		}
	})

	t.Run("Reads all properties", func(t *testing.T) {
		jobProperties := JobProperties{
			"catalog":                "hive.catalog",
			"snapshot-table-enabled": "false",
			"location":               "s3://bucket/wh/db/t",
			"name":                   "db.t__snapshots",
		}

		reference, err := ResolveFromJobProperties(jobProperties)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if reference.CatalogKind != CatalogKindHiveCatalog {
			t.Errorf("Expected catalog kind %v, got %v", CatalogKindHiveCatalog, reference.CatalogKind)
		}
		if reference.SnapshotTableEnabled {
			t.Errorf("Expected snapshot table to be disabled")
		}
		if !reference.IsSnapshotTableRequest() {
			t.Errorf("Expected a snapshot table request for %s", reference.TableName)
		}
	})

	t.Run("Parses snapshot-table-enabled case-insensitively", func(t *testing.T) {
		testCases := map[string]bool{
			"true":  true,
			"TRUE":  true,
			"True":  true,
			"false": false,
			"yes":   false,
			"1":     false,
			"":      false,
		}

		for value, expected := range testCases {
			jobProperties := JobProperties{"location": "/wh/db/t", "name": "db.t", "snapshot-table-enabled": value}

			reference, err := ResolveFromJobProperties(jobProperties)

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if reference.SnapshotTableEnabled != expected {
				t.Errorf("Expected %q to parse as %v, got %v", value, expected, reference.SnapshotTableEnabled)
			}
		}
	})

	t.Run("Keeps unknown catalog names", func(t *testing.T) {
		jobProperties := JobProperties{"location": "/wh/db/t", "name": "db.t", "catalog": "glue"}

		reference, err := ResolveFromJobProperties(jobProperties)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if reference.CatalogKind != CatalogKindUnknown {
			t.Errorf("Expected catalog kind %v, got %v", CatalogKindUnknown, reference.CatalogKind)
		}
		if reference.CatalogName != "glue" {
			t.Errorf("Expected catalog name glue, got %s", reference.CatalogName)
		}
	})

	t.Run("Returns a configuration error when location is missing", func(t *testing.T) {
		_, err := ResolveFromJobProperties(JobProperties{"name": "db.t"})

		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("Expected a configuration error, got %v", err)
		}
		if !strings.Contains(err.Error(), "location") {
			t.Errorf("Expected the error to name the location property, got %v", err)
		}
	})

	t.Run("Returns a configuration error when name is missing", func(t *testing.T) {
		_, err := ResolveFromJobProperties(JobProperties{"location": "/wh/db/t"})

		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("Expected a configuration error, got %v", err)
		}
		if !strings.Contains(err.Error(), "name") {
			t.Errorf("Expected the error to name the name property, got %v", err)
		}
	})

	t.Run("Accepts empty but present values", func(t *testing.T) {
		reference, err := ResolveFromJobProperties(JobProperties{"location": "", "name": ""})

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if reference.TableLocation != "" || reference.TableName != "" {
			t.Errorf("Expected empty location and name, got %s", reference.String())
		}
	})
}

func TestCatalogKind(t *testing.T) {
	t.Run("Parses recognized catalog names", func(t *testing.T) {
		testCases := map[string]CatalogKind{
			"hadoop-tables":  CatalogKindHadoopTables,
			"hive.catalog":   CatalogKindHiveCatalog,
			"Hadoop-Tables":  CatalogKindUnknown,
			"hadoop.catalog": CatalogKindUnknown,
			"":               CatalogKindUnknown,
		}

		for catalogName, expected := range testCases {
			kind := ParseCatalogKind(catalogName)

			if kind != expected {
				t.Errorf("Expected %q to parse as %v, got %v", catalogName, expected, kind)
			}
		}
	})

	t.Run("Prints catalog names", func(t *testing.T) {
		if CatalogKindHadoopTables.String() != "hadoop-tables" {
			t.Errorf("Expected hadoop-tables, got %s", CatalogKindHadoopTables.String())
		}
		if CatalogKindHiveCatalog.String() != "hive.catalog" {
			t.Errorf("Expected hive.catalog, got %s", CatalogKindHiveCatalog.String())
		}
		if CatalogKindUnknown.String() != "unknown" {
			t.Errorf("Expected unknown, got %s", CatalogKindUnknown.String())
		}
	})
}

func TestIsSnapshotTableRequest(t *testing.T) {
	t.Run("Detects the snapshot table suffix at the end of the name only", func(t *testing.T) {
		testCases := map[string]bool{
			"db.t__snapshots":   true,
			"t__snapshots":      true,
			"db.t":              false,
			"db.t__snapshots.x": false,
			"db.t_snapshots":    false,
			"db.t__SNAPSHOTS":   false,
		}

		for tableName, expected := range testCases {
			reference := TableReference{TableName: tableName}

			if reference.IsSnapshotTableRequest() != expected {
				t.Errorf("Expected %s to be a snapshot table request: %v", tableName, expected)
			}
		}
	})
}
