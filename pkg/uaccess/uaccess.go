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

// Package uaccess governs access to untrusted user memory.
//
// Syscall argument validators construct a Ptr from a raw address supplied by
// a user task, then use CheckRegion or CheckNullTerminated to establish that
// the named memory is accessible with the required permissions and backed by
// physical pages before the kernel dereferences it.
//
// The package holds no locks of its own. In particular it never holds a lock
// across a raw touch of user memory: that touch may fault, and the fault path
// may need locks held inside the AddressSpace provider.
package uaccess

import (
	"gokern.dev/gokern/pkg/errors/kernelerr"
	"gokern.dev/gokern/pkg/memarch"
)

// AddressSpace is the interface this package requires from the host kernel's
// memory management. Implementations wrap the page-table walker and the
// demand-paging machinery for a single user address space.
type AddressSpace interface {
	// CheckRegionAccess returns true iff every page overlapping ar permits
	// accesses of type at. It is a pure query: it has no side effects and is
	// safe to call repeatedly and concurrently.
	CheckRegionAccess(ar memarch.AddrRange, at memarch.AccessType) bool

	// PopulateArea guarantees that every page in [start, start+length) is
	// backed, allocating and zero-filling pages as needed. It returns a
	// non-nil error (e.g. kernelerr.ENOMEM) if backing cannot be provided.
	//
	// Preconditions: start is page-aligned and length is a multiple of the
	// page size.
	PopulateArea(start memarch.Addr, length uint64) error
}

// DefaultAccess is the access required of user memory when the caller does
// not say otherwise: user pointers name memory the task can both read and
// write.
var DefaultAccess = memarch.ReadWrite

// CheckRegion checks that the byte range [start, start+layout.Size) is
// accessible with access type at, and that its backing pages exist.
//
// Success implies the full byte range is both permitted and backed. A
// misaligned start or a denied permission query fails with kernelerr.EFAULT;
// a population failure is returned as the provider reported it.
func CheckRegion(as AddressSpace, start memarch.Addr, layout memarch.Layout, at memarch.AccessType) error {
	if !start.IsAligned(layout.Align) {
		return kernelerr.EFAULT
	}

	ar, ok := memarch.AddrRangeFromSize(start, layout.Size)
	if !ok {
		// The range wraps around the address space.
		return kernelerr.EFAULT
	}
	if !as.CheckRegionAccess(ar, at) {
		return kernelerr.EFAULT
	}

	// Permission is granted over the exact byte range; backing is ensured
	// over the page-aligned superset, since paging operates on whole pages.
	pageStart := start.RoundDown()
	pageEnd, ok := ar.End.RoundUp()
	if !ok {
		return kernelerr.EFAULT
	}
	return as.PopulateArea(pageStart, uint64(pageEnd-pageStart))
}
