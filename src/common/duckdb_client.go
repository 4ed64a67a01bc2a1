package common

import (
	"context"
	"database/sql"
	"strings"

	"github.com/marcboeker/go-duckdb/v2"
)

type DuckdbClient struct {
	Config    *CommonConfig
	Db        *sql.DB
	Connector *duckdb.Connector
}

func NewDuckdbClient(ctx context.Context, config *CommonConfig) (*DuckdbClient, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, err
	}

	client := &DuckdbClient{
		Config:    config,
		Db:        sql.OpenDB(connector),
		Connector: connector,
	}

	queries := []string{
		"SET timezone='UTC'",
		"SET memory_limit='" + config.Duckdb.MemoryLimit + "'",
		"SET threads=" + IntToString(config.Duckdb.Threads),
	}
	for _, query := range queries {
		_, err := client.ExecContext(ctx, query)
		if err != nil {
			client.Close()
			return nil, err
		}
	}

	if config.Aws.AccessKeyId != "" {
		err = client.setExplicitAwsCredentials(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
	}

	return client, nil
}

func (client *DuckdbClient) QueryContext(ctx context.Context, query string, args ...map[string]string) (*sql.Rows, error) {
	LogDebug(client.Config, "Querying DuckDB:", query)
	if len(args) == 0 {
		return client.Db.QueryContext(ctx, query)
	}
	return client.Db.QueryContext(ctx, replaceNamedStringArgs(query, args[0]))
}

func (client *DuckdbClient) ExecContext(ctx context.Context, query string, args ...map[string]string) (sql.Result, error) {
	LogDebug(client.Config, "Querying DuckDB:", query)
	if len(args) == 0 {
		return client.Db.ExecContext(ctx, query)
	}
	return client.Db.ExecContext(ctx, replaceNamedStringArgs(query, args[0]))
}

func (client *DuckdbClient) Close() {
	client.Db.Close()
}

func (client *DuckdbClient) setExplicitAwsCredentials(ctx context.Context) error {
	config := client.Config
	for _, query := range []string{"INSTALL httpfs", "LOAD httpfs"} {
		_, err := client.ExecContext(ctx, query)
		if err != nil {
			return err
		}
	}

	if IsLocalHost(config.Aws.S3Endpoint) {
		_, err := client.ExecContext(ctx, "SET s3_use_ssl=false")
		if err != nil {
			return err
		}
	}

	urlStyle := "vhost"
	if config.Aws.S3Endpoint != DEFAULT_AWS_S3_ENDPOINT {
		// Use endpoint/bucket/key (path) instead of bucket.endpoint/key (vhost)
		urlStyle = "path"
	}

	query := "CREATE OR REPLACE SECRET aws_s3_secret (TYPE S3, KEY_ID '$accessKeyId', SECRET '$secretAccessKey', REGION '$region', ENDPOINT '$endpoint', URL_STYLE '$urlStyle')"
	_, err := client.ExecContext(ctx, query, map[string]string{
		"accessKeyId":     config.Aws.AccessKeyId,
		"secretAccessKey": config.Aws.SecretAccessKey,
		"region":          config.Aws.Region,
		"endpoint":        config.Aws.S3Endpoint,
		"urlStyle":        urlStyle,
	})
	return err
}

// DuckdbFilePath rewrites a data file location into one DuckDB can open:
// DuckDB doesn't support file:// prefixes and knows s3a:// only as s3://
func DuckdbFilePath(location string) string {
	switch LocationScheme(location) {
	case FILE_SCHEME:
		return LocalPath(location)
	case S3A_SCHEME:
		return S3_SCHEME + "://" + strings.SplitN(location, "://", 2)[1]
	default:
		return location
	}
}

func QuoteIdentifier(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func replaceNamedStringArgs(query string, args map[string]string) string {
	for key, value := range args {
		query = strings.ReplaceAll(
			query,
			"$"+key,
			strings.ReplaceAll(value, "'", "''"),
		)
	}
	return query
}
