// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/compute/base/errors"
)

// BufferModes are the allocation modes for a [BufferDescriptor].
// Exactly one mode is active per descriptor.
type BufferModes int32

const (
	// WithData allocates len(Data) elements and copies Data in.
	WithData BufferModes = iota

	// Scalar allocates a single element holding Value.
	Scalar

	// ZeroFilled allocates Size zero-initialized elements.
	ZeroFilled
)

var bufferModeNames = map[BufferModes]string{
	WithData:   "WithData",
	Scalar:     "Scalar",
	ZeroFilled: "ZeroFilled",
}

func (bm BufferModes) String() string {
	return bufferModeNames[bm]
}

// BufferDescriptor configures one kernel argument buffer for the
// named-configuration dispatch path ([KernelExecutor.RunKernel]).
// Use the [BufferData], [BufferScalar], and [BufferZeros] constructors,
// which set the Mode and the one field it reads; the other fields are
// ignored. Name must be unique within one dispatch call.
type BufferDescriptor struct {
	// Name is the logical name of this buffer, which keys the
	// result mapping returned by RunKernel.
	Name string

	// Type is the element type of the buffer.
	Type Types

	// Mode selects which of Data, Value, or Size is used.
	Mode BufferModes

	// Data is the initial contents, for [WithData] mode.
	Data []float64

	// Value is the single value, for [Scalar] mode.
	Value float64

	// Size is the zero-initialized element count, for [ZeroFilled] mode.
	Size int
}

// BufferData returns a descriptor for a buffer initialized
// with the given values.
func BufferData(name string, tp Types, data []float64) BufferDescriptor {
	return BufferDescriptor{Name: name, Type: tp, Mode: WithData, Data: data}
}

// BufferScalar returns a descriptor for a single-element scalar buffer
// holding the given value.
func BufferScalar(name string, tp Types, value float64) BufferDescriptor {
	return BufferDescriptor{Name: name, Type: tp, Mode: Scalar, Value: value}
}

// BufferZeros returns a descriptor for a zero-initialized buffer
// of the given element count.
func BufferZeros(name string, tp Types, size int) BufferDescriptor {
	return BufferDescriptor{Name: name, Type: tp, Mode: ZeroFilled, Size: size}
}

// Validate checks that the descriptor is usable:
// a known element type, and for [ZeroFilled] mode a non-negative Size.
func (bd *BufferDescriptor) Validate() error {
	if bd.Type == UndefinedType {
		return errors.Log(fmt.Errorf("gpu: BufferDescriptor %q has undefined element type", bd.Name))
	}
	if bd.Mode == ZeroFilled && bd.Size < 0 {
		return errors.Log(fmt.Errorf("%w: BufferDescriptor %q has negative size %d", ErrSizeMismatch, bd.Name, bd.Size))
	}
	return nil
}

// ElementCount returns the number of elements the descriptor allocates.
func (bd *BufferDescriptor) ElementCount() int {
	switch bd.Mode {
	case Scalar:
		return 1
	case ZeroFilled:
		return bd.Size
	default:
		return len(bd.Data)
	}
}
