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

func TestOpenMissingLibrary(t *testing.T) {
	lib, err := loader.Open("libdefinitely-not-vulkan.so.0")
	assert.Nil(t, lib)
	assert.ErrorIs(t, err, loader.ErrLibraryNotFound)
	assert.Contains(t, err.Error(), "libdefinitely-not-vulkan.so.0")
}

func TestDefaultLibraryName(t *testing.T) {
	assert.NotEmpty(t, loader.DefaultLibraryName)
}
