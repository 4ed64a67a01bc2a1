package common

import (
	"context"
	"path"
	"strings"

	"github.com/xitongsys/parquet-go-source/s3v2"
	"github.com/xitongsys/parquet-go/source"
)

type StorageS3 struct {
	Config   *CommonConfig
	S3Client *S3Client
}

func NewS3Storage(config *CommonConfig) (*StorageS3, error) {
	s3Client, err := NewS3Client(config)
	if err != nil {
		return nil, err
	}

	return &StorageS3{
		Config:   config,
		S3Client: s3Client,
	}, nil
}

func (storage *StorageS3) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	bucket, fileKey, err := ParseS3Location(filePath)
	if err != nil {
		return nil, err
	}

	LogTrace(storage.Config, "Reading S3 object:", filePath)
	return storage.S3Client.DownloadObject(ctx, bucket, fileKey)
}

func (storage *StorageS3) FileExists(ctx context.Context, filePath string) (bool, error) {
	bucket, fileKey, err := ParseS3Location(filePath)
	if err != nil {
		return false, err
	}

	return storage.S3Client.ObjectExists(ctx, bucket, fileKey)
}

func (storage *StorageS3) ListFiles(ctx context.Context, dirPath string) ([]string, error) {
	bucket, prefix, err := storage.dirPrefix(dirPath)
	if err != nil {
		return nil, err
	}

	fileKeys, _, err := storage.S3Client.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	fileNames := make([]string, 0, len(fileKeys))
	for _, fileKey := range fileKeys {
		fileNames = append(fileNames, path.Base(fileKey))
	}
	return fileNames, nil
}

func (storage *StorageS3) ListDirectories(ctx context.Context, dirPath string) ([]string, error) {
	bucket, prefix, err := storage.dirPrefix(dirPath)
	if err != nil {
		return nil, err
	}

	_, dirPrefixes, err := storage.S3Client.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	dirNames := make([]string, 0, len(dirPrefixes))
	for _, dirPrefix := range dirPrefixes {
		dirNames = append(dirNames, path.Base(strings.TrimSuffix(dirPrefix, "/")))
	}
	return dirNames, nil
}

func (storage *StorageS3) ParquetFile(ctx context.Context, filePath string) (source.ParquetFile, error) {
	bucket, fileKey, err := ParseS3Location(filePath)
	if err != nil {
		return nil, err
	}

	return s3v2.NewS3FileReaderWithClient(ctx, storage.S3Client.S3, bucket, fileKey)
}

// ---------------------------------------------------------------------------------------------------------------------

// s3://bucket/wh/db -> bucket, wh/db/
func (storage *StorageS3) dirPrefix(dirPath string) (string, string, error) {
	bucket, key, err := ParseS3Location(dirPath)
	if err != nil {
		return "", "", err
	}

	if key != "" && !strings.HasSuffix(key, "/") {
		key += "/"
	}
	return bucket, key, nil
}
