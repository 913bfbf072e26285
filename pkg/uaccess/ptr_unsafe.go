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

package uaccess

import (
	"unsafe"
)

// UnsafePointer returns the wrapped address as a dereferenceable pointer.
//
// Preconditions: A check covering the intended access must have succeeded on
// p. This is a documented requirement, not an enforced one; dereferencing the
// result without a preceding successful check is a kernel bug.
func (p Ptr[T]) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(uintptr(p.addr))
}

// loadAt returns the value of the i'th element at p. Each call performs
// exactly one read of user memory; the value is never re-read from a cached
// copy.
//
// Preconditions: The page containing element i has passed a permission check
// and the caller is inside a user-memory access scope, since the read may
// fault.
//
//go:nosplit
func (p Ptr[T]) loadAt(i uint64) T {
	var v T
	return *(*T)(unsafe.Pointer(uintptr(p.addr) + uintptr(i)*unsafe.Sizeof(v)))
}
