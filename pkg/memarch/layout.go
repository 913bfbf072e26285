// Copyright 2026 The gokern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memarch

import "unsafe"

// Layout describes the byte footprint of an intended memory access: its size
// and its required alignment. Align must be a power of two and at least 1.
type Layout struct {
	Size  uint64
	Align uint64
}

// LayoutOf returns the Layout of a single value of type T.
func LayoutOf[T any]() Layout {
	var v T
	return Layout{
		Size:  uint64(unsafe.Sizeof(v)),
		Align: uint64(unsafe.Alignof(v)),
	}
}

// Repeat returns the Layout of n contiguous values with layout l.
func (l Layout) Repeat(n uint64) Layout {
	return Layout{Size: l.Size * n, Align: l.Align}
}
