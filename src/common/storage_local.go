package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
)

type StorageLocal struct {
	Config *CommonConfig
}

func NewLocalStorage(config *CommonConfig) *StorageLocal {
	return &StorageLocal{Config: config}
}

func (storage *StorageLocal) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	file, err := os.Open(LocalPath(filePath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	LogTrace(storage.Config, "Reading local file:", filePath)
	return io.ReadAll(file)
}

func (storage *StorageLocal) FileExists(ctx context.Context, filePath string) (bool, error) {
	_, err := os.Stat(LocalPath(filePath))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (storage *StorageLocal) ListFiles(ctx context.Context, dirPath string) ([]string, error) {
	entries, err := storage.readDir(dirPath)
	if err != nil {
		return nil, err
	}

	var fileNames []string
	for _, entry := range entries {
		if !entry.IsDir() {
			fileNames = append(fileNames, entry.Name())
		}
	}
	return fileNames, nil
}

func (storage *StorageLocal) ListDirectories(ctx context.Context, dirPath string) ([]string, error) {
	entries, err := storage.readDir(dirPath)
	if err != nil {
		return nil, err
	}

	var dirNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirNames = append(dirNames, entry.Name())
		}
	}
	return dirNames, nil
}

func (storage *StorageLocal) ParquetFile(ctx context.Context, filePath string) (source.ParquetFile, error) {
	fileReader, err := local.NewLocalFileReader(LocalPath(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file for reading: %v", err)
	}
	return fileReader, nil
}

// ---------------------------------------------------------------------------------------------------------------------

// A missing directory lists as empty
func (storage *StorageLocal) readDir(dirPath string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(LocalPath(dirPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %v", dirPath, err)
	}
	return entries, nil
}

// "file:///tmp/t" and "file:/tmp/t" -> "/tmp/t"
func LocalPath(location string) string {
	if LocationScheme(location) != FILE_SCHEME {
		return location
	}
	_, path, _ := strings.Cut(location, ":")
	return filepath.FromSlash(strings.TrimPrefix(path, "//"))
}
