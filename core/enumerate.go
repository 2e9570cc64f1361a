// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/vkinfo/vk"
)

// Enumerate runs the size-then-fill protocol shared by every plural query.
//
// fill is called once with a nil records pointer to learn the count, then
// with storage for exactly that many records. If the driver answers
// vk.Incomplete the set changed in between, and the whole sequence starts
// over, at most attempts times.
func Enumerate[T any](attempts int, fill func(count *uint32, records *T) vk.Result) ([]T, error) {
	if attempts <= 0 {
		attempts = DefaultMaxEnumerationAttempts
	}

	for i := 0; i < attempts; i++ {
		var count uint32
		switch res := fill(&count, nil); res {
		case vk.Success:
		case vk.Incomplete:
			continue
		default:
			return nil, res
		}

		if count == 0 {
			return []T{}, nil
		}

		records := make([]T, count)
		capacity := count
		switch res := fill(&count, &records[0]); res {
		case vk.Success:
			if count > capacity {
				count = capacity
			}
			return records[:count], nil
		case vk.Incomplete:
			continue
		default:
			return nil, res
		}
	}

	return nil, fmt.Errorf("%w: %w after %d attempts", ErrEnumerationIncomplete, vk.Incomplete, attempts)
}

// infallible adapts a query that reports no status to Enumerate.
func infallible[T any](fill func(count *uint32, records *T)) func(*uint32, *T) vk.Result {
	return func(count *uint32, records *T) vk.Result {
		fill(count, records)
		return vk.Success
	}
}
