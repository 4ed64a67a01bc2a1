package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spoliset/hiveberg/src/common"
)

func PrintErrorAndExit(config *common.CommonConfig, message string) {
	common.LogError(config, message+"\n")
	os.Exit(1)
}

// Expected failures (bad job properties, missing tables) exit without a stack trace
func ExitIfError(config *common.CommonConfig, err error) {
	if err == nil {
		return
	}

	if isUserError(err) {
		PrintErrorAndExit(config, err.Error())
	}
	HandleUnexpectedError(config, err)
}

func HandleUnexpectedError(config *common.CommonConfig, err error) {
	fmt.Println("Unexpected error:", err.Error())
	fmt.Println(string(debug.Stack()))
	os.Exit(1)
}

func HandleUnexpectedPanic(config *common.CommonConfig) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		HandleUnexpectedError(config, err)
	}
}

func isUserError(err error) bool {
	for _, userError := range []error{
		common.ErrConfiguration,
		common.ErrInvalidLocation,
		common.ErrLocationSyntax,
		common.ErrUnimplementedCatalog,
		common.ErrUnknownCatalog,
		common.ErrTableNotFound,
		common.ErrUnknownMetadataTable,
		common.ErrUnsupportedScheme,
	} {
		if errors.Is(err, userError) {
			return true
		}
	}
	return false
}
