package common

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestJobProperties(t *testing.T) {
	t.Run("Returns defaults for missing keys only", func(t *testing.T) {
		jobProperties := NewJobProperties().Set("catalog", "")

		if jobProperties.GetOrDefault("catalog", "hadoop-tables") != "" {
			t.Errorf("Expected an empty catalog, got %s", jobProperties.GetOrDefault("catalog", "hadoop-tables"))
		}
		if jobProperties.GetOrDefault("name", "default") != "default" {
			t.Errorf("Expected default, got %s", jobProperties.GetOrDefault("name", "default"))
		}
	})

	t.Run("Requires present keys", func(t *testing.T) {
		jobProperties := NewJobProperties().Set("location", "/wh/db/t")

		location, err := jobProperties.Require("location")
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if location != "/wh/db/t" {
			t.Errorf("Expected /wh/db/t, got %s", location)
		}

		_, err = jobProperties.Require("name")
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("Expected a configuration error, got %v", err)
		}
	})

	t.Run("Parses key=value pairs", func(t *testing.T) {
		jobProperties := NewJobProperties()

		err := jobProperties.SetPair("location=s3://bucket/wh/db/t?x=1")
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if jobProperties["location"] != "s3://bucket/wh/db/t?x=1" {
			t.Errorf("Expected the value to keep '=', got %s", jobProperties["location"])
		}

		err = jobProperties.SetPair(" name =db.t")
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if jobProperties["name"] != "db.t" {
			t.Errorf("Expected db.t, got %s", jobProperties["name"])
		}
	})

	t.Run("Rejects pairs without a key", func(t *testing.T) {
		jobProperties := NewJobProperties()

		for _, pair := range []string{"location", "=value", ""} {
			err := jobProperties.SetPair(pair)
			if err == nil {
				t.Errorf("Expected an error for %q", pair)
			}
		}
	})

	t.Run("Merges and lists keys in order", func(t *testing.T) {
		jobProperties := JobProperties{"name": "db.t", "catalog": "hadoop-tables"}

		jobProperties.Merge(JobProperties{"name": "db.u", "location": "/wh/db/u"})

		expectedKeys := []string{"catalog", "location", "name"}
		if !reflect.DeepEqual(jobProperties.Keys(), expectedKeys) {
			t.Errorf("Expected %v, got %v", expectedKeys, jobProperties.Keys())
		}
		if jobProperties["name"] != "db.u" {
			t.Errorf("Expected merged value db.u, got %s", jobProperties["name"])
		}
	})
}

func TestParseJobPropertiesYaml(t *testing.T) {
	t.Run("Parses a flat mapping", func(t *testing.T) {
		content := []byte(`
catalog: hadoop-tables
snapshot-table-enabled: false
location: /wh/db/t
name: db.t__snapshots
retries: 3
ignored: null
`)

		jobProperties, err := ParseJobPropertiesYaml(content)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		expected := JobProperties{
			"catalog":                "hadoop-tables",
			"snapshot-table-enabled": "false",
			"location":               "/wh/db/t",
			"name":                   "db.t__snapshots",
			"retries":                "3",
		}
		if !reflect.DeepEqual(jobProperties, expected) {
			t.Errorf("Expected %v, got %v", expected, jobProperties)
		}
	})

	t.Run("Keeps literal text of quoted and unquoted scalars", func(t *testing.T) {
		jobProperties, err := ParseJobPropertiesYaml([]byte("snapshot-table-enabled: \"TRUE\"\nlocation: 's3://bucket/wh/db/t'\n"))

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if jobProperties["snapshot-table-enabled"] != "TRUE" {
			t.Errorf("Expected TRUE, got %s", jobProperties["snapshot-table-enabled"])
		}
		if jobProperties["location"] != "s3://bucket/wh/db/t" {
			t.Errorf("Expected s3://bucket/wh/db/t, got %s", jobProperties["location"])
		}
	})

	t.Run("Returns empty properties for an empty document", func(t *testing.T) {
		jobProperties, err := ParseJobPropertiesYaml([]byte(""))

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(jobProperties) != 0 {
			t.Errorf("Expected no properties, got %v", jobProperties)
		}
	})

	t.Run("Rejects nested values", func(t *testing.T) {
		_, err := ParseJobPropertiesYaml([]byte("location:\n  path: /wh/db/t\n"))

		if err == nil {
			t.Errorf("Expected an error for a nested value")
		}
	})

	t.Run("Rejects a document that is not a mapping", func(t *testing.T) {
		_, err := ParseJobPropertiesYaml([]byte("- location\n- name\n"))

		if err == nil {
			t.Errorf("Expected an error for a list document")
		}
	})

	t.Run("Rejects invalid YAML", func(t *testing.T) {
		_, err := ParseJobPropertiesYaml([]byte("location: [unclosed"))

		if err == nil {
			t.Errorf("Expected an error for invalid YAML")
		}
	})
}

func TestLoadJobPropertiesFile(t *testing.T) {
	t.Run("Loads properties from a file", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "job.yaml")
		err := os.WriteFile(filePath, []byte("location: /wh/db/t\nname: db.t\n"), 0644)
		if err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		jobProperties, err := LoadJobPropertiesFile(filePath)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if jobProperties["name"] != "db.t" {
			t.Errorf("Expected db.t, got %s", jobProperties["name"])
		}
	})

	t.Run("Returns an error for a missing file", func(t *testing.T) {
		_, err := LoadJobPropertiesFile(filepath.Join(t.TempDir(), "missing.yaml"))

		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected a not-exist error, got %v", err)
		}
	})
}
