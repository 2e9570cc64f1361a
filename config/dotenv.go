// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"

	"github.com/devblok/vkinfo/internal/procenv"
)

// overlay is what loading a dotenv file changed in the environment.
type overlay map[string]overlaid

type overlaid struct {
	prev    string
	existed bool
	value   string
}

func diffEnv(before, after map[string]string) overlay {
	o := overlay{}
	for k, v := range after {
		if prev, ok := before[k]; !ok || prev != v {
			o[k] = overlaid{prev: prev, existed: ok, value: v}
		}
	}
	return o
}

// workingDirDotenv holds what importing envy applied from ./.env with
// godotenv.Overload.
var workingDirDotenv = diffEnv(procenv.Snapshot(), procenv.Current())

// withdraw puts back the values keys had before the overlay was applied,
// unless something replaced the overlaid value since. It returns the keys
// the overlay introduced, which are now unset.
func (o overlay) withdraw(keys []string) []string {
	var introduced []string
	for _, k := range keys {
		e, ok := o[k]
		if !ok {
			continue
		}
		if cur, set := os.LookupEnv(k); !set || cur != e.value {
			continue
		}
		if e.existed {
			os.Setenv(k, e.prev)
			continue
		}
		os.Unsetenv(k)
		introduced = append(introduced, k)
	}
	return introduced
}

// fill sets the keys that are still unset back to their overlaid value.
func (o overlay) fill(keys []string) {
	for _, k := range keys {
		if _, set := os.LookupEnv(k); !set {
			os.Setenv(k, o[k].value)
		}
	}
}
