//go:build !darwin && !freebsd && !linux && !windows

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devblok/vkinfo/loader"
)

func TestOpenUnsupportedPlatform(t *testing.T) {
	lib, err := loader.Open("")
	assert.Nil(t, lib)
	assert.ErrorIs(t, err, loader.ErrLibraryNotFound)
	assert.Contains(t, err.Error(), "unsupported")
}
