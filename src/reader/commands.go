package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spoliset/hiveberg/src/common"
)

const PROPERTY_NAMESPACE = "namespace"

type Commands struct {
	Config         *Config
	StorageContext *common.StorageContext
	Resolver       *common.TableResolver
	Output         io.Writer
}

func NewCommands(config *Config, storageContext *common.StorageContext, output io.Writer) *Commands {
	return &Commands{
		Config:         config,
		StorageContext: storageContext,
		Resolver:       common.NewTableResolver(storageContext),
		Output:         output,
	}
}

func (commands *Commands) Describe(ctx context.Context) error {
	table, err := commands.resolveTable(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(commands.Output, "Table:", table.Name())
	fmt.Fprintln(commands.Output, "Location:", table.Location())
	fmt.Fprintln(commands.Output, "Schema:")
	for _, field := range table.Schema().Fields {
		nullability := "optional"
		if field.Required {
			nullability = "required"
		}
		fmt.Fprintf(commands.Output, "  %d: %s %s (%s)\n", field.ID, field.Name, field.TypeString(), nullability)
	}

	snapshot := table.CurrentSnapshot()
	if snapshot == nil {
		fmt.Fprintln(commands.Output, "Current snapshot: none")
	} else {
		fmt.Fprintln(commands.Output, "Current snapshot:", snapshot.SnapshotId, "("+snapshot.Operation()+", "+formatValue(time.UnixMilli(snapshot.TimestampMs).UTC())+")")
	}
	return nil
}

func (commands *Commands) Snapshots(ctx context.Context) error {
	table, err := commands.resolveTable(ctx)
	if err != nil {
		return err
	}

	// A table resolved as its snapshots view prints the same history as the base table
	snapshotsTable, ok := table.(*common.SnapshotsTable)
	if !ok {
		baseTable, ok := table.(*common.BaseTable)
		if !ok {
			return fmt.Errorf("table %s has no snapshot history", table.Name())
		}
		snapshotsTable = &common.SnapshotsTable{BaseTable: baseTable}
	}

	return commands.printRecords(ctx, snapshotsTable, nil, nil)
}

func (commands *Commands) Splits(ctx context.Context) error {
	table, err := commands.resolveTable(ctx)
	if err != nil {
		return err
	}

	splits, err := common.PlanSplits(ctx, commands.StorageContext, table)
	if err != nil {
		return err
	}

	for _, split := range splits {
		fmt.Fprintln(commands.Output, split.String())
	}
	common.LogInfo(commands.Config.CommonConfig, "Planned", len(splits), "split(s) for", table.Name())
	return nil
}

func (commands *Commands) Scan(ctx context.Context) error {
	table, err := commands.resolveTable(ctx)
	if err != nil {
		return err
	}

	splits, err := common.PlanSplits(ctx, commands.StorageContext, table)
	if err != nil {
		return err
	}

	var duckdbClient *common.DuckdbClient
	if len(splits) > 0 {
		duckdbClient, err = common.NewDuckdbClient(ctx, commands.Config.CommonConfig)
		if err != nil {
			return err
		}
		defer duckdbClient.Close()
		common.LogInfo(commands.Config.CommonConfig, "DuckDB: Connected")
	}

	return commands.printRecords(ctx, table, splits, duckdbClient)
}

func (commands *Commands) CatalogSnapshots(ctx context.Context) error {
	jobProperties := commands.Config.JobProperties
	location, err := jobProperties.Require(common.PROPERTY_TABLE_LOCATION)
	if err != nil {
		return err
	}
	tableName, err := jobProperties.Require(common.PROPERTY_TABLE_NAME)
	if err != nil {
		return err
	}

	table, err := commands.Resolver.ResolveMetadataTableFromCatalog(ctx, location, tableName)
	if err != nil {
		return err
	}
	common.LogInfo(commands.Config.CommonConfig, "Resolved", table.Name(), "from catalog")

	return commands.printRecords(ctx, table, nil, nil)
}

// Lists the tables of a namespace in the directory-tree catalog rooted at the "location" property
func (commands *Commands) ListTables(ctx context.Context) error {
	jobProperties := commands.Config.JobProperties
	warehouseLocation, err := jobProperties.Require(common.PROPERTY_TABLE_LOCATION)
	if err != nil {
		return err
	}
	warehouseUri, err := common.PathAsURI(warehouseLocation)
	if err != nil {
		return err
	}

	var namespace []string
	if namespaceName, ok := jobProperties.Get(PROPERTY_NAMESPACE); ok && namespaceName != "" {
		namespace = strings.Split(namespaceName, ".")
	}

	catalog := common.NewHadoopCatalog(commands.StorageContext, common.WarehouseRoot(warehouseUri))
	identifiers, err := catalog.ListTables(ctx, namespace)
	if err != nil {
		return err
	}

	for _, identifier := range identifiers {
		commands.printLine(identifier.String())
	}
	common.LogInfo(commands.Config.CommonConfig, "Found", len(identifiers), "table(s) in", warehouseLocation)
	return nil
}

// ---------------------------------------------------------------------------------------------------------------------

func (commands *Commands) resolveTable(ctx context.Context) (common.Table, error) {
	reference, err := common.ResolveFromJobProperties(commands.Config.JobProperties)
	if err != nil {
		return nil, err
	}
	common.LogInfo(commands.Config.CommonConfig, "Resolving table:", reference.String())

	return commands.Resolver.Resolve(ctx, reference)
}

// Snapshots tables and tables without splits don't need a DuckDB client
func (commands *Commands) printRecords(ctx context.Context, table common.Table, splits []common.InputSplit, duckdbClient *common.DuckdbClient) error {
	recordReader, err := common.NewRecordReader(duckdbClient, table, splits, commands.Config.Columns)
	if err != nil {
		return err
	}
	defer recordReader.Close()

	commands.printLine(strings.Join(recordReader.Columns(), "\t"))

	recordCount := 0
	for commands.Config.Limit == 0 || recordCount < commands.Config.Limit {
		record, err := recordReader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		values := make([]string, len(record))
		for i, value := range record {
			values[i] = formatValue(value)
		}
		commands.printLine(strings.Join(values, "\t"))
		recordCount++
	}

	common.LogInfo(commands.Config.CommonConfig, "Read", recordCount, "record(s) from", table.Name())
	return nil
}

// A closed or broken output is not recoverable mid-scan
func (commands *Commands) printLine(line string) {
	_, err := fmt.Fprintln(commands.Output, line)
	common.PanicIfError(commands.Config.CommonConfig, err)
}

func formatValue(value interface{}) string {
	switch typedValue := value.(type) {
	case nil:
		return "null"
	case time.Time:
		return typedValue.Format(time.RFC3339Nano)
	case []byte:
		return string(typedValue)
	case map[string]string:
		keys := make([]string, 0, len(typedValue))
		for key := range typedValue {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, key := range keys {
			pairs[i] = key + "=" + typedValue[key]
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	default:
		return fmt.Sprintf("%v", typedValue)
	}
}
