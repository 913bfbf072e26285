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

// Package memarch defines the types used to address and describe user
// virtual memory: addresses, address ranges, access types, and layouts.
package memarch

// Page size constants. The core assumes 4K pages; the AddressSpace provider
// is expected to operate at the same granularity.
const (
	// PageShift is the binary log of the page size.
	PageShift = 12

	// PageSize is the size of a page in bytes.
	PageSize = 1 << PageShift

	// PageMask masks the offset of an address within a page.
	PageMask = PageSize - 1
)
