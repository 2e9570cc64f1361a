// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command vkinfo prints the layers, extensions and physical devices the
// system Vulkan loader exposes.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		log.WithError(err).Error("vkinfo failed")
		os.Exit(1)
	}
}
