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
	"sync"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"gokern.dev/gokern/pkg/context"
	"gokern.dev/gokern/pkg/errors/kernelerr"
	"gokern.dev/gokern/pkg/memarch"
)

// testAddressSpace simulates per-page permissions and demand paging over a
// window of real, page-aligned memory standing in for a user address space.
// Pages outside the window, or without an entry in perms, deny all access.
type testAddressSpace struct {
	perms map[memarch.Addr]memarch.AccessType

	mu            sync.Mutex
	accessCalls   int
	populateCalls []memarch.AddrRange
	populateErr   error

	// onAccess, if set, runs on every CheckRegionAccess call.
	onAccess func()
}

// CheckRegionAccess implements AddressSpace.CheckRegionAccess.
func (as *testAddressSpace) CheckRegionAccess(ar memarch.AddrRange, at memarch.AccessType) bool {
	as.mu.Lock()
	as.accessCalls++
	hook := as.onAccess
	as.mu.Unlock()
	if hook != nil {
		hook()
	}
	if ar.Length() == 0 {
		return true
	}
	for page := ar.Start.RoundDown(); page < ar.End; page += memarch.PageSize {
		if !as.perms[page].SupersetOf(at) {
			return false
		}
	}
	return true
}

// PopulateArea implements AddressSpace.PopulateArea.
func (as *testAddressSpace) PopulateArea(start memarch.Addr, length uint64) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	end, _ := start.AddLength(length)
	as.populateCalls = append(as.populateCalls, memarch.AddrRange{Start: start, End: end})
	return as.populateErr
}

const testPages = 4

// testMemory couples a testAddressSpace with the backing bytes its window
// covers. base is page-aligned.
type testMemory struct {
	as   *testAddressSpace
	base memarch.Addr
	mem  []byte
}

func newTestMemory() *testMemory {
	buf := make([]byte, (testPages+1)*memarch.PageSize)
	p := uintptr(unsafe.Pointer(&buf[0]))
	off := (memarch.PageSize - p%memarch.PageSize) % memarch.PageSize
	mem := buf[off : off+testPages*memarch.PageSize]

	base := memarch.Addr(uintptr(unsafe.Pointer(&mem[0])))
	as := &testAddressSpace{perms: make(map[memarch.Addr]memarch.AccessType)}
	for i := 0; i < testPages; i++ {
		as.perms[base+memarch.Addr(i*memarch.PageSize)] = memarch.ReadWrite
	}
	return &testMemory{as: as, base: base, mem: mem}
}

// denyPage revokes all access to the i'th page of the window.
func (tm *testMemory) denyPage(i int) {
	tm.as.perms[tm.base+memarch.Addr(i*memarch.PageSize)] = memarch.NoAccess
}

// taskContext is a Context carrying an AccessState, as a kernel task's
// context would.
type taskContext struct {
	context.Context
	state *AccessState
}

// Value implements context.Context.Value.
func (c *taskContext) Value(key any) any {
	if key == CtxAccessState {
		return c.state
	}
	return c.Context.Value(key)
}

func newTaskContext() (*taskContext, *AccessState) {
	s := &AccessState{}
	return &taskContext{Context: context.Background(), state: s}, s
}

func TestCheckRegionMisalignedIgnoresProvider(t *testing.T) {
	tm := newTestMemory()
	layout := memarch.LayoutOf[uint32]()
	err := CheckRegion(tm.as, tm.base+2, layout, memarch.Read)
	if err != kernelerr.EFAULT {
		t.Errorf("CheckRegion: got %v, wanted %v", err, kernelerr.EFAULT)
	}
	if tm.as.accessCalls != 0 || len(tm.as.populateCalls) != 0 {
		t.Errorf("provider consulted for a misaligned address: %d access calls, %d populate calls",
			tm.as.accessCalls, len(tm.as.populateCalls))
	}
}

func TestCheckRegionSuccess(t *testing.T) {
	tm := newTestMemory()

	// A 16-byte region straddling the first page boundary.
	start := tm.base + memarch.PageSize - 8
	err := CheckRegion(tm.as, start, memarch.Layout{Size: 16, Align: 8}, memarch.ReadWrite)
	if err != nil {
		t.Fatalf("CheckRegion: got %v, wanted nil", err)
	}

	// Backing must be ensured over the page-aligned superset of the exact
	// byte range: both pages it touches.
	want := []memarch.AddrRange{
		{Start: tm.base, End: tm.base + 2*memarch.PageSize},
	}
	if diff := cmp.Diff(want, tm.as.populateCalls); diff != "" {
		t.Errorf("populate calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRegionDenied(t *testing.T) {
	tm := newTestMemory()
	tm.as.perms[tm.base] = memarch.Read

	err := CheckRegion(tm.as, tm.base, memarch.Layout{Size: 64, Align: 8}, memarch.ReadWrite)
	if err != kernelerr.EFAULT {
		t.Errorf("CheckRegion: got %v, wanted %v", err, kernelerr.EFAULT)
	}
	if len(tm.as.populateCalls) != 0 {
		t.Errorf("populate called for a denied region: %v", tm.as.populateCalls)
	}
}

func TestCheckRegionPopulateError(t *testing.T) {
	tm := newTestMemory()
	tm.as.populateErr = kernelerr.ENOMEM

	err := CheckRegion(tm.as, tm.base, memarch.Layout{Size: 8, Align: 8}, memarch.Read)
	if err != kernelerr.ENOMEM {
		t.Errorf("CheckRegion: got %v, wanted %v", err, kernelerr.ENOMEM)
	}
}

func TestCheckRegionWraparound(t *testing.T) {
	tm := newTestMemory()
	start := memarch.Addr(0).RoundDown() - memarch.PageSize // top page
	err := CheckRegion(tm.as, start, memarch.Layout{Size: 2 * memarch.PageSize, Align: 1}, memarch.Read)
	if err != kernelerr.EFAULT {
		t.Errorf("CheckRegion: got %v, wanted %v", err, kernelerr.EFAULT)
	}
}

func TestCheckRegionIdempotent(t *testing.T) {
	tm := newTestMemory()
	layout := memarch.Layout{Size: memarch.PageSize, Align: 8}

	for i := 0; i < 2; i++ {
		if err := CheckRegion(tm.as, tm.base, layout, memarch.ReadWrite); err != nil {
			t.Fatalf("CheckRegion call %d: got %v, wanted nil", i, err)
		}
	}
	want := []memarch.AddrRange{
		{Start: tm.base, End: tm.base + memarch.PageSize},
		{Start: tm.base, End: tm.base + memarch.PageSize},
	}
	if diff := cmp.Diff(want, tm.as.populateCalls); diff != "" {
		t.Errorf("populate calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRegionConcurrent(t *testing.T) {
	tm := newTestMemory()
	layout := memarch.Layout{Size: 128, Align: 8}

	var eg errgroup.Group
	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			return CheckRegion(tm.as, tm.base, layout, memarch.ReadWrite)
		})
	}
	if err := eg.Wait(); err != nil {
		t.Errorf("concurrent CheckRegion: got %v, wanted nil", err)
	}
}
