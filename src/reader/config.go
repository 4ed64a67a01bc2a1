package main

import (
	"errors"
	"flag"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spoliset/hiveberg/src/common"
)

const (
	ENV_PROPERTIES_FILE = "HIVEBERG_PROPERTIES_FILE"
)

type Config struct {
	CommonConfig  *common.CommonConfig
	JobProperties common.JobProperties
	Columns       []string
	Limit         int
}

type propertyFlags []string

func (properties *propertyFlags) String() string {
	return strings.Join(*properties, ",")
}

func (properties *propertyFlags) Set(value string) error {
	*properties = append(*properties, value)
	return nil
}

type configParseValues struct {
	propertiesFile string
	properties     propertyFlags
	columns        string
	duckdbThreads  string
}

var _config Config
var _configParseValues configParseValues

func init() {
	registerFlags()
}

func registerFlags() {
	_config.CommonConfig = &common.CommonConfig{}

	flag.StringVar(&_config.CommonConfig.LogLevel, "log-level", os.Getenv(common.ENV_LOG_LEVEL), `Log level: "ERROR", "WARN", "INFO", "DEBUG", "TRACE". Default: "`+common.DEFAULT_LOG_LEVEL+`"`)
	flag.StringVar(&_config.CommonConfig.Aws.Region, "aws-region", os.Getenv(common.ENV_AWS_REGION), `AWS region. Default: "`+common.DEFAULT_AWS_REGION+`"`)
	flag.StringVar(&_config.CommonConfig.Aws.S3Endpoint, "aws-s3-endpoint", os.Getenv(common.ENV_AWS_S3_ENDPOINT), `AWS S3 endpoint. Default: "`+common.DEFAULT_AWS_S3_ENDPOINT+`"`)
	flag.StringVar(&_config.CommonConfig.Aws.AccessKeyId, "aws-access-key-id", os.Getenv(common.ENV_AWS_ACCESS_KEY_ID), "AWS access key ID")
	flag.StringVar(&_config.CommonConfig.Aws.SecretAccessKey, "aws-secret-access-key", os.Getenv(common.ENV_AWS_SECRET_ACCESS_KEY), "AWS secret access key")
	flag.StringVar(&_config.CommonConfig.Duckdb.MemoryLimit, "duckdb-memory-limit", os.Getenv(common.ENV_DUCKDB_MEMORY_LIMIT), `DuckDB memory limit. Default: "`+common.DEFAULT_DUCKDB_MEMORY_LIMIT+`"`)
	flag.StringVar(&_configParseValues.duckdbThreads, "duckdb-threads", os.Getenv(common.ENV_DUCKDB_THREADS), "DuckDB threads. Default: "+common.IntToString(common.DEFAULT_DUCKDB_THREADS))

	flag.StringVar(&_configParseValues.propertiesFile, "properties-file", os.Getenv(ENV_PROPERTIES_FILE), "YAML file with job properties")
	flag.Var(&_configParseValues.properties, "property", `Job property as key=value, repeatable. Keys: "`+common.PROPERTY_CATALOG+`", "`+common.PROPERTY_SNAPSHOT_TABLE_ENABLED+`", "`+common.PROPERTY_TABLE_LOCATION+`", "`+common.PROPERTY_TABLE_NAME+`"`)
	flag.StringVar(&_configParseValues.columns, "columns", "", "Comma-separated columns to scan. Default: all")
	flag.IntVar(&_config.Limit, "limit", 0, "Maximum number of rows to scan. Default: no limit")
}

func parseFlags() error {
	flag.Parse()

	if _config.CommonConfig.LogLevel == "" {
		_config.CommonConfig.LogLevel = common.DEFAULT_LOG_LEVEL
	} else if !slices.Contains(common.LOG_LEVELS, _config.CommonConfig.LogLevel) {
		return errors.New("Invalid log level " + _config.CommonConfig.LogLevel + ". Must be one of " + strings.Join(common.LOG_LEVELS, ", "))
	}
	if _config.CommonConfig.Aws.Region == "" {
		_config.CommonConfig.Aws.Region = common.DEFAULT_AWS_REGION
	}
	if _config.CommonConfig.Aws.S3Endpoint == "" {
		_config.CommonConfig.Aws.S3Endpoint = common.DEFAULT_AWS_S3_ENDPOINT
	}
	if _config.CommonConfig.Aws.AccessKeyId != "" && _config.CommonConfig.Aws.SecretAccessKey == "" {
		return errors.New("AWS secret access key is required")
	}
	if _config.CommonConfig.Aws.AccessKeyId == "" && _config.CommonConfig.Aws.SecretAccessKey != "" {
		return errors.New("AWS access key ID is required")
	}
	if _config.CommonConfig.Duckdb.MemoryLimit == "" {
		_config.CommonConfig.Duckdb.MemoryLimit = common.DEFAULT_DUCKDB_MEMORY_LIMIT
	}
	if _configParseValues.duckdbThreads == "" {
		_config.CommonConfig.Duckdb.Threads = common.DEFAULT_DUCKDB_THREADS
	} else {
		threads, err := strconv.Atoi(_configParseValues.duckdbThreads)
		if err != nil || threads <= 0 {
			return errors.New("Invalid DuckDB threads " + _configParseValues.duckdbThreads + ". Must be a positive number")
		}
		_config.CommonConfig.Duckdb.Threads = threads
	}
	if _config.Limit < 0 {
		return errors.New("Limit must not be negative")
	}

	jobProperties, err := buildJobProperties(_configParseValues.propertiesFile, _configParseValues.properties)
	if err != nil {
		return err
	}
	_config.JobProperties = jobProperties
	_config.Columns = parseColumns(_configParseValues.columns)

	_configParseValues = configParseValues{}
	return nil
}

// Properties from the file are overridden by -property flags
func buildJobProperties(propertiesFile string, properties []string) (common.JobProperties, error) {
	jobProperties := common.NewJobProperties()
	if propertiesFile != "" {
		fileProperties, err := common.LoadJobPropertiesFile(propertiesFile)
		if err != nil {
			return nil, err
		}
		jobProperties.Merge(fileProperties)
	}

	for _, property := range properties {
		err := jobProperties.SetPair(property)
		if err != nil {
			return nil, err
		}
	}
	return jobProperties, nil
}

func parseColumns(columns string) []string {
	var parsedColumns []string
	for _, column := range strings.Split(columns, ",") {
		column = strings.TrimSpace(column)
		if column != "" {
			parsedColumns = append(parsedColumns, column)
		}
	}
	return parsedColumns
}

func LoadConfig() *Config {
	err := parseFlags()
	if err != nil {
		PrintErrorAndExit(_config.CommonConfig, err.Error())
	}
	common.LogDebug(_config.CommonConfig, "Job properties:", strings.Join(_config.JobProperties.Keys(), ", "))
	return &_config
}
