package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spoliset/hiveberg/src/common"
)

const (
	COMMAND_DESCRIBE          = "describe"
	COMMAND_SNAPSHOTS         = "snapshots"
	COMMAND_SPLITS            = "splits"
	COMMAND_SCAN              = "scan"
	COMMAND_CATALOG_SNAPSHOTS = "catalog-snapshots"
	COMMAND_LIST_TABLES       = "list-tables"
	COMMAND_VERSION           = "version"
)

var COMMANDS = []string{
	COMMAND_DESCRIBE,
	COMMAND_SNAPSHOTS,
	COMMAND_SPLITS,
	COMMAND_SCAN,
	COMMAND_CATALOG_SNAPSHOTS,
	COMMAND_LIST_TABLES,
	COMMAND_VERSION,
}

func main() {
	config := LoadConfig()
	defer HandleUnexpectedPanic(config.CommonConfig)

	command := flag.Arg(0)
	if command == COMMAND_VERSION {
		fmt.Println("Hiveberg version:", common.VERSION)
		return
	}

	ctx := context.Background()
	storageContext := common.NewStorageContext(config.CommonConfig)
	commands := NewCommands(config, storageContext, os.Stdout)

	var err error
	switch command {
	case COMMAND_DESCRIBE:
		err = commands.Describe(ctx)
	case COMMAND_SNAPSHOTS:
		err = commands.Snapshots(ctx)
	case COMMAND_SPLITS:
		err = commands.Splits(ctx)
	case COMMAND_SCAN:
		err = commands.Scan(ctx)
	case COMMAND_CATALOG_SNAPSHOTS:
		err = commands.CatalogSnapshots(ctx)
	case COMMAND_LIST_TABLES:
		err = commands.ListTables(ctx)
	default:
		PrintErrorAndExit(config.CommonConfig, "Unknown command "+command+". Must be one of "+strings.Join(COMMANDS, ", "))
	}
	ExitIfError(config.CommonConfig, err)
}
