package common

const (
	VERSION = "0.1.0"

	ENV_LOG_LEVEL = "HIVEBERG_LOG_LEVEL"

	ENV_AWS_REGION            = "AWS_REGION"
	ENV_AWS_S3_ENDPOINT       = "AWS_S3_ENDPOINT"
	ENV_AWS_ACCESS_KEY_ID     = "AWS_ACCESS_KEY_ID"
	ENV_AWS_SECRET_ACCESS_KEY = "AWS_SECRET_ACCESS_KEY"

	ENV_DUCKDB_MEMORY_LIMIT = "HIVEBERG_DUCKDB_MEMORY_LIMIT"
	ENV_DUCKDB_THREADS      = "HIVEBERG_DUCKDB_THREADS"

	DEFAULT_LOG_LEVEL           = "INFO"
	DEFAULT_AWS_REGION          = "us-east-1"
	DEFAULT_AWS_S3_ENDPOINT     = "s3.amazonaws.com"
	DEFAULT_DUCKDB_MEMORY_LIMIT = "2GB"
	DEFAULT_DUCKDB_THREADS      = 2
)

type AwsConfig struct {
	Region          string
	S3Endpoint      string // optional
	AccessKeyId     string // optional, falls back to the default credential chain
	SecretAccessKey string
}

type DuckdbConfig struct {
	MemoryLimit string
	Threads     int
}

type CommonConfig struct {
	Aws      AwsConfig
	Duckdb   DuckdbConfig
	LogLevel string
}

func NewDefaultCommonConfig() *CommonConfig {
	return &CommonConfig{
		Aws: AwsConfig{
			Region:     DEFAULT_AWS_REGION,
			S3Endpoint: DEFAULT_AWS_S3_ENDPOINT,
		},
		Duckdb: DuckdbConfig{
			MemoryLimit: DEFAULT_DUCKDB_MEMORY_LIMIT,
			Threads:     DEFAULT_DUCKDB_THREADS,
		},
		LogLevel: DEFAULT_LOG_LEVEL,
	}
}
