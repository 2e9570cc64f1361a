// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"

	"github.com/devblok/vkinfo/loader"
)

// Binding errors, raised before any driver call could be made.
var (
	ErrLibraryNotFound        = loader.ErrLibraryNotFound
	ErrBootstrapSymbolMissing = loader.ErrBootstrapSymbolMissing
	ErrSymbolNotFound         = loader.ErrSymbolNotFound
	ErrInvalidSymbolName      = loader.ErrInvalidSymbolName
	ErrLibraryClosed          = loader.ErrLibraryClosed
)

// Errors raised by the binding itself around driver calls.
// Native failures additionally wrap the vk.Result the driver returned.
var (
	ErrContextCreationFailed = errors.New("instance creation failed")
	ErrEnumerationIncomplete = errors.New("enumeration did not stabilise")
	ErrInstanceDestroyed     = errors.New("instance already destroyed")
	ErrEntryClosed           = errors.New("entry already closed")
	ErrInvalidLayerName      = errors.New("malformed layer name")
)

// Error records the native operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s(): %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
