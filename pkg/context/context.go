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

// Package context defines the kernel's Context type.
package context

import (
	"gokern.dev/gokern/pkg/log"
)

// A Context represents a thread of kernel execution (hereafter "goroutine" to
// reflect Go idiosyncrasy). It carries state associated with the goroutine
// across API boundaries.
//
// While Context exists for essentially the same reasons as Go's standard
// context.Context, the standard type represents the state of an operation
// rather than that of a goroutine. This is a critical distinction:
//
//   - Unlike context.Context, which "may be passed to functions running in
//     different goroutines", it is *not safe* to use the same Context in
//     multiple concurrent goroutines.
//
//   - It is *not safe* to retain a Context passed to a function beyond the
//     scope of that function call.
//
// In both cases, values extracted from the Context should be used instead.
type Context interface {
	log.Logger

	// Value returns the value associated with this Context for key, or nil
	// if no value is associated with key. Successive calls to Value with the
	// same key return the same result.
	//
	// A key identifies a specific value in a Context. Packages should define
	// keys as an unexported type to avoid collisions.
	Value(key any) any
}

type logContext struct {
	log.Logger
}

// Value implements Context.Value.
func (logContext) Value(key any) any {
	return nil
}

// bgContext is the context returned by context.Background.
var bgContext = &logContext{Logger: log.Log()}

// Background returns an empty context using the default logger.
//
// Users should be wary of using a Background context: operations that expect
// per-task state attached to the context (for example the user-memory access
// state) will not find it there. Using a Background context for tests is fine,
// as long as no values are needed from the context in the tested code paths.
func Background() Context {
	return bgContext
}
