// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceUnavailable means no compatible GPU adapter or logical
	// device could be obtained. This is a construction-time, fatal
	// condition: no component can function without a device.
	ErrDeviceUnavailable = errors.New("gpu: no compatible device available")

	// ErrUnknownBufferID means a buffer identifier does not exist
	// in the registry it was presented to.
	ErrUnknownBufferID = errors.New("gpu: unknown buffer id")

	// ErrSizeMismatch means an upload length, render array length,
	// or buffer element count did not match what was required.
	ErrSizeMismatch = errors.New("gpu: size mismatch")

	// ErrInvalidGridSize means a kernel dispatch was requested with a
	// non-positive grid size. It is reported before any GPU submission.
	ErrInvalidGridSize = errors.New("gpu: grid size must be positive")

	// ErrKernelNotFound means the kernel source compiled but does not
	// contain a compute entry point with the requested name.
	ErrKernelNotFound = errors.New("gpu: kernel not found")

	// ErrRendererClosed means the window was closed and no further
	// frames can be rendered.
	ErrRendererClosed = errors.New("gpu: renderer window is closed")
)

// CompileError reports a failure to turn kernel source into a usable
// compute pipeline: either the source itself is malformed, or it does
// not define the named kernel. The two cases are distinguished by
// errors.Is(err, [ErrKernelNotFound]).
type CompileError struct {
	// Kernel is the requested entry point name.
	Kernel string

	// Err is the underlying cause.
	Err error
}

func (e *CompileError) Error() string {
	if e.Kernel != "" {
		return fmt.Sprintf("gpu: compiling kernel %q: %v", e.Kernel, e.Err)
	}
	return fmt.Sprintf("gpu: compiling kernel source: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
