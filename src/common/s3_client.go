package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client struct {
	Config *CommonConfig
	S3     *s3.Client
}

func NewS3Client(config *CommonConfig) (*S3Client, error) {
	var awsConfigOptions = []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(config.Aws.Region),
	}

	if config.LogLevel == LOG_LEVEL_TRACE {
		awsConfigOptions = append(awsConfigOptions, awsConfig.WithClientLogMode(aws.LogRequest))
	}

	if IsLocalHost(config.Aws.S3Endpoint) {
		awsConfigOptions = append(awsConfigOptions, awsConfig.WithBaseEndpoint("http://"+config.Aws.S3Endpoint))
	} else if config.Aws.S3Endpoint != "" {
		awsConfigOptions = append(awsConfigOptions, awsConfig.WithBaseEndpoint("https://"+config.Aws.S3Endpoint))
	}

	if config.Aws.AccessKeyId != "" {
		awsCredentials := credentials.NewStaticCredentialsProvider(
			config.Aws.AccessKeyId,
			config.Aws.SecretAccessKey,
			"",
		)
		awsConfigOptions = append(awsConfigOptions, awsConfig.WithCredentialsProvider(awsCredentials))
	}

	loadedAwsConfig, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfigOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(loadedAwsConfig, func(o *s3.Options) {
		if config.Aws.S3Endpoint != "" && config.Aws.S3Endpoint != DEFAULT_AWS_S3_ENDPOINT {
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		Config: config,
		S3:     client,
	}, nil
}

// s3://bucket/some/path -> bucket, some/path
func ParseS3Location(location string) (bucket string, key string, err error) {
	scheme, rest, found := strings.Cut(location, "://")
	scheme = strings.ToLower(scheme)
	if !found || (scheme != S3_SCHEME && scheme != S3A_SCHEME) {
		return "", "", fmt.Errorf("%w: not an S3 location: %s", ErrInvalidLocation, location)
	}

	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: missing bucket: %s", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

func (s3Client *S3Client) DownloadObject(ctx context.Context, bucket string, fileKey string) ([]byte, error) {
	buffer := manager.NewWriteAtBuffer([]byte{})
	downloader := manager.NewDownloader(s3Client.S3)

	_, err := downloader.Download(ctx, buffer, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (s3Client *S3Client) ObjectExists(ctx context.Context, bucket string, fileKey string) (bool, error) {
	_, err := s3Client.S3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return false, nil
	}
	return false, err
}

// ListObjects returns the object keys and the common prefixes directly under prefix.
func (s3Client *S3Client) ListObjects(ctx context.Context, bucket string, prefix string) (fileKeys []string, dirPrefixes []string, err error) {
	paginator := s3.NewListObjectsV2Paginator(s3Client.S3, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list objects: %v", err)
		}
		for _, object := range page.Contents {
			fileKeys = append(fileKeys, *object.Key)
		}
		for _, commonPrefix := range page.CommonPrefixes {
			dirPrefixes = append(dirPrefixes, *commonPrefix.Prefix)
		}
	}

	return fileKeys, dirPrefixes, nil
}
