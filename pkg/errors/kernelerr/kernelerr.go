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

// Package kernelerr contains the syscall error codes surfaced by the kernel,
// exported as error interface pointers. This allows for fast comparison and
// return operations comparable to unix.Errno constants.
package kernelerr

import (
	"golang.org/x/sys/unix"

	"gokern.dev/gokern/pkg/errors"
)

// The following errors are semantically identical to their unix.Errno
// counterparts, but since they are distinct values (*errors.Error), they are
// comparable by pointer. The Errno method returns a number such that the
// error can still be compared against unix.Errno
// (e.g. unix.Errno(EFAULT.Errno()) == unix.EFAULT is true).
var (
	EPERM   = errors.New(unix.EPERM, "operation not permitted")
	EINTR   = errors.New(unix.EINTR, "interrupted system call")
	EAGAIN  = errors.New(unix.EAGAIN, "try again")
	ENOMEM  = errors.New(unix.ENOMEM, "out of memory")
	EACCES  = errors.New(unix.EACCES, "permission denied")
	EFAULT  = errors.New(unix.EFAULT, "bad address")
	EINVAL  = errors.New(unix.EINVAL, "invalid argument")
	E2BIG   = errors.New(unix.E2BIG, "argument list too long")
	ENOSYS  = errors.New(unix.ENOSYS, "invalid system call number")
	ESRCH   = errors.New(unix.ESRCH, "no such process")
	EEXIST  = errors.New(unix.EEXIST, "file exists")
	ENOSPC  = errors.New(unix.ENOSPC, "no space left on device")
	ERANGE  = errors.New(unix.ERANGE, "math result not representable")
	EBUSY   = errors.New(unix.EBUSY, "device or resource busy")
	ENODEV  = errors.New(unix.ENODEV, "no such device")
	EBADF   = errors.New(unix.EBADF, "bad file number")
	ENOENT  = errors.New(unix.ENOENT, "no such file or directory")
	EISDIR  = errors.New(unix.EISDIR, "is a directory")
	ENOTDIR = errors.New(unix.ENOTDIR, "not a directory")
)

// Equals compares a *errors.Error to a generic error. It returns true when
// err is exactly e, or when err is a unix.Errno with the same errno number.
func Equals(e *errors.Error, err error) bool {
	if err == nil {
		return e == nil
	}
	if e == nil {
		return false
	}
	if e2, ok := err.(*errors.Error); ok {
		return e == e2 || e.Errno() == e2.Errno()
	}
	if errno, ok := err.(unix.Errno); ok {
		return e.Errno() == errno
	}
	return false
}
