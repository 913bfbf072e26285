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
	"math"

	"gokern.dev/gokern/pkg/context"
	"gokern.dev/gokern/pkg/errors/kernelerr"
	"gokern.dev/gokern/pkg/memarch"
)

// A Ptr is a typed handle to an element of type T in user memory.
//
// A Ptr never owns the memory it names; that memory belongs to the user
// task's address space. Construction performs no validation, so any bit
// pattern, including zero, is representable. No Ptr address may be
// dereferenced before a check on it has succeeded.
type Ptr[T comparable] struct {
	addr memarch.Addr
	as   AddressSpace
}

// FromAddr returns a Ptr wrapping the raw address addr in the address space
// as. addr is not validated.
func FromAddr[T comparable](as AddressSpace, addr memarch.Addr) Ptr[T] {
	return Ptr[T]{addr: addr, as: as}
}

// Address returns the wrapped address.
func (p Ptr[T]) Address() memarch.Addr {
	return p.addr
}

// IsNull returns true if p wraps the zero address.
func (p Ptr[T]) IsNull() bool {
	return p.addr == 0
}

// Nullable returns (p, true) if p is non-null and (Ptr[T]{}, false)
// otherwise.
func (p Ptr[T]) Nullable() (Ptr[T], bool) {
	if p.IsNull() {
		return Ptr[T]{}, false
	}
	return p, true
}

// Cast reinterprets the address wrapped by p as naming an element of type U
// in the same address space. No re-validation occurs; the caller must check
// the result before use.
func Cast[U, T comparable](p Ptr[T]) Ptr[U] {
	return Ptr[U]{addr: p.addr, as: p.as}
}

// CheckRegion checks that a single element of type T at p is accessible with
// access type at and backed.
func (p Ptr[T]) CheckRegion(at memarch.AccessType) error {
	return CheckRegion(p.as, p.addr, memarch.LayoutOf[T](), at)
}

// CheckRegionN checks that n contiguous elements of type T starting at p are
// accessible with access type at and backed.
func (p Ptr[T]) CheckRegionN(n uint64, at memarch.AccessType) error {
	layout := memarch.LayoutOf[T]()
	if layout.Size != 0 && n > math.MaxUint64/layout.Size {
		return kernelerr.EFAULT
	}
	return CheckRegion(p.as, p.addr, layout.Repeat(n), at)
}

// CheckNullTerminated counts the elements preceding the first zero-valued
// element at p, validating page permissions lazily as the scan crosses page
// boundaries. On success it returns p's address and the count, which excludes
// the terminator.
//
// The final length is unknown up front and pages may not yet be mapped, so a
// single upfront range check is impossible and an upfront mapping check would
// race the demand-fault triggered by the read itself. Only permission is
// pre-validated, page by page; mapping is resolved by letting the raw read
// fault inside a user-memory access scope, where the host's fault handler
// treats the fault as recoverable (see AccessState).
//
// A fault mid-scan discards all progress: there is no partial length on
// failure. ctx must carry p's task's AccessState.
func (p Ptr[T]) CheckNullTerminated(ctx context.Context, at memarch.AccessType) (memarch.Addr, uint64, error) {
	layout := memarch.LayoutOf[T]()
	if !p.addr.IsAligned(layout.Align) {
		return 0, 0, kernelerr.EFAULT
	}

	var zero T
	page := p.addr.RoundDown()
	var n uint64

	err := stateFromContext(ctx).do(func() error {
		for {
			elem, ok := p.addr.AddLength(n * layout.Size)
			if !ok {
				// Ran off the end of the address space.
				return kernelerr.EFAULT
			}
			for elem >= page {
				// Validate permission only. The page may not be mapped yet:
				// populating it here would be wasted work if the terminator
				// is found first, and the read below may fault and be
				// resolved by the regular demand-paging path regardless.
				ar, ok := memarch.AddrRangeFromSize(page, memarch.PageSize)
				if !ok {
					return kernelerr.EFAULT
				}
				if !p.as.CheckRegionAccess(ar, at) {
					return kernelerr.EFAULT
				}
				page = ar.End
			}
			// This read may trigger a page fault.
			if p.loadAt(n) == zero {
				return nil
			}
			n++
		}
	})
	if err != nil {
		return 0, 0, err
	}
	return p.addr, n, nil
}
