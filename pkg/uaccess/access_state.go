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
	"gokern.dev/gokern/pkg/atomicbitops"
	"gokern.dev/gokern/pkg/context"
)

// An AccessState records whether its execution context is currently touching
// user memory from kernel code. The host kernel's page-fault handler consults
// it to distinguish an expected fault while validating user memory (resolved
// by demand paging, or surfaced as an error) from a kernel bug (fatal).
//
// Each kernel task owns exactly one AccessState and attaches it to the task's
// Context under CtxAccessState. The zero value is ready for use.
//
// The flag is local to its context: no other context ever sets it. It is
// atomic only because the fault handler may inspect it from a different
// goroutine than the task goroutine it belongs to.
type AccessState struct {
	accessingUser atomicbitops.Bool
}

// AccessingUserMemory returns true if the owning context is inside a
// user-memory access scope.
func (s *AccessState) AccessingUserMemory() bool {
	return s.accessingUser.Load()
}

// do runs fn with the flag set, restoring it on every exit path. It is the
// only way raw reads of user memory are issued from this package.
//
// Nested scopes are a kernel bug: a fault taken while validating user memory
// must never itself begin validating user memory. The flag is a plain
// boolean, not a counter, so reentry panics rather than silently clearing the
// outer scope early.
func (s *AccessState) do(fn func() error) error {
	if s.accessingUser.Swap(true) {
		panic("uaccess: nested user-memory access scope")
	}
	defer s.accessingUser.Store(false)
	return fn()
}

// contextID is this package's type for context.Context.Value keys.
type contextID int

const (
	// CtxAccessState is a Context.Value key for a *AccessState.
	CtxAccessState contextID = iota
)

// FromContext returns the AccessState attached to ctx, or nil if there is
// none.
func FromContext(ctx context.Context) *AccessState {
	if v := ctx.Value(CtxAccessState); v != nil {
		return v.(*AccessState)
	}
	return nil
}

// AccessingUserMemory returns true if the task represented by ctx is inside a
// user-memory access scope. This is the query the host's page-fault handler
// uses for faults taken in kernel mode on a user address.
func AccessingUserMemory(ctx context.Context) bool {
	if s := FromContext(ctx); s != nil {
		return s.AccessingUserMemory()
	}
	return false
}

// stateFromContext returns the AccessState attached to ctx, and panics if
// there is none. Contexts that reach user-memory scans without an attached
// state are misconfigured kernel tasks, not a runtime condition.
func stateFromContext(ctx context.Context) *AccessState {
	s := FromContext(ctx)
	if s == nil {
		panic("uaccess: context carries no AccessState")
	}
	return s
}
