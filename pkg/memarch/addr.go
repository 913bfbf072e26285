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

import "fmt"

// Addr represents a generic virtual address in a user address space. It is an
// untrusted value: any bit pattern, including zero, is representable, and
// holding an Addr implies nothing about the validity of the memory it names.
type Addr uint64

// AddLength returns the end of the range of length l starting at v. If the
// computation overflows the address space, ok is false.
func (v Addr) AddLength(l uint64) (end Addr, ok bool) {
	end = v + Addr(l)
	ok = end >= v
	return
}

// RoundDown returns the address rounded down to the nearest page boundary.
func (v Addr) RoundDown() Addr {
	return v &^ PageMask
}

// RoundUp returns the address rounded up to the nearest page boundary. ok is
// true iff rounding up did not wrap around.
func (v Addr) RoundUp() (addr Addr, ok bool) {
	addr = Addr(v + PageMask).RoundDown()
	ok = addr >= v
	return
}

// MustRoundUp is equivalent to RoundUp, but panics if rounding up wraps
// around.
func (v Addr) MustRoundUp() Addr {
	addr, ok := v.RoundUp()
	if !ok {
		panic(fmt.Sprintf("memarch.Addr(%#x).RoundUp() wraps", uint64(v)))
	}
	return addr
}

// PageOffset returns the offset of v into the page containing it.
func (v Addr) PageOffset() uint64 {
	return uint64(v & PageMask)
}

// IsPageAligned returns true if v.PageOffset() == 0.
func (v Addr) IsPageAligned() bool {
	return v.PageOffset() == 0
}

// IsAligned returns true if v is a multiple of align, which must be a power
// of two.
func (v Addr) IsAligned(align uint64) bool {
	return uint64(v)&(align-1) == 0
}
