package common

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xitongsys/parquet-go/source"
)

const (
	FILE_SCHEME = "file"
	S3_SCHEME   = "s3"
	S3A_SCHEME  = "s3a"
)

type ManifestListItem struct {
	Path    string
	Size    int64
	Content int64 // 0: DATA, 1: DELETES
}

type DataFile struct {
	Path        string
	Format      string
	Content     int64 // 0: DATA, 1: POSITION DELETES, 2: EQUALITY DELETES
	RecordCount int64
	Size        int64
}

type StorageInterface interface {
	ReadFile(ctx context.Context, filePath string) (content []byte, err error)
	FileExists(ctx context.Context, filePath string) (exists bool, err error)
	ListFiles(ctx context.Context, dirPath string) (fileNames []string, err error)
	ListDirectories(ctx context.Context, dirPath string) (dirNames []string, err error)
	ParquetFile(ctx context.Context, filePath string) (parquetFile source.ParquetFile, err error)
}

// StorageContext hands out a storage backend per location scheme. The S3 backend is created on first use.
type StorageContext struct {
	Config *CommonConfig

	local   *StorageLocal
	s3      *StorageS3
	s3Mutex sync.Mutex
}

func NewStorageContext(config *CommonConfig) *StorageContext {
	return &StorageContext{
		Config: config,
		local:  NewLocalStorage(config),
	}
}

func (storageContext *StorageContext) StorageFor(location string) (StorageInterface, error) {
	switch LocationScheme(location) {
	case "", FILE_SCHEME:
		return storageContext.local, nil
	case S3_SCHEME, S3A_SCHEME:
		return storageContext.s3Storage()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, location)
	}
}

func (storageContext *StorageContext) s3Storage() (*StorageS3, error) {
	storageContext.s3Mutex.Lock()
	defer storageContext.s3Mutex.Unlock()

	if storageContext.s3 == nil {
		storage, err := NewS3Storage(storageContext.Config)
		if err != nil {
			return nil, err
		}
		storageContext.s3 = storage
	}
	return storageContext.s3, nil
}

// ---------------------------------------------------------------------------------------------------------------------

// "s3://bucket/key" -> "s3", "/tmp/t" -> ""
func LocationScheme(location string) string {
	scheme, _, found := strings.Cut(location, "://")
	if found && !strings.Contains(scheme, "/") {
		return strings.ToLower(scheme)
	}
	if strings.HasPrefix(location, FILE_SCHEME+":") {
		return FILE_SCHEME
	}
	return ""
}

// JoinLocation appends path elements with "/" regardless of the scheme.
func JoinLocation(location string, elements ...string) string {
	joined := strings.TrimRight(location, "/")
	for _, element := range elements {
		joined += "/" + strings.Trim(element, "/")
	}
	return joined
}
