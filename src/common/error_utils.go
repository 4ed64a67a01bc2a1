package common

import (
	"errors"
	"fmt"
)

var (
	// A required job property is missing.
	ErrConfiguration = errors.New("configuration error")
	// A location is required but was not supplied.
	ErrInvalidLocation = errors.New("invalid location")
	// A location could not be parsed as a URI.
	ErrLocationSyntax = errors.New("location syntax error")
	// The catalog kind is recognized but has no implementation yet.
	ErrUnimplementedCatalog = errors.New("catalog not implemented")
	// The catalog kind is not recognized.
	ErrUnknownCatalog = errors.New("unknown catalog")

	ErrTableNotFound        = errors.New("table does not exist")
	ErrUnknownMetadataTable = errors.New("unknown metadata table type")
	ErrUnsupportedScheme    = errors.New("unsupported location scheme")
)

func PanicIfError(config *CommonConfig, err error) {
	if err != nil {
		LogError(config, err)
		panic(err)
	}
}

func missingPropertyError(key string) error {
	return fmt.Errorf("%w: property not set in job properties: %s", ErrConfiguration, key)
}
