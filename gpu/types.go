// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// Types is the list of supported element types for GPU buffers.
// These are the 4-byte scalar types that work as WGSL storage array
// elements without alignment complications.
type Types int32

const (
	UndefinedType Types = iota

	// Float32 is a 32-bit float, f32 in WGSL.
	Float32

	// Int32 is a 32-bit signed integer, i32 in WGSL.
	Int32

	// Uint32 is a 32-bit unsigned integer, u32 in WGSL.
	Uint32
)

// TypeSizes gives the data type sizes in bytes.
var TypeSizes = map[Types]int{
	Float32: 4,
	Int32:   4,
	Uint32:  4,
}

// TypeNames gives the WGSL type names.
var TypeNames = map[Types]string{
	UndefinedType: "undefined",
	Float32:       "f32",
	Int32:         "i32",
	Uint32:        "u32",
}

// TypeToVertexFormat maps Types to the WebGPU VertexFormat
// used when binding a buffer of this type as vertex data.
var TypeToVertexFormat = map[Types]wgpu.VertexFormat{
	UndefinedType: wgpu.VertexFormatUndefined,
	Float32:       wgpu.VertexFormatFloat32,
	Int32:         wgpu.VertexFormatSint32,
	Uint32:        wgpu.VertexFormatUint32,
}

// Bytes returns the number of bytes for this type.
func (tp Types) Bytes() int {
	return TypeSizes[tp]
}

// VertexFormat returns the WebGPU VertexFormat for this type.
func (tp Types) VertexFormat() wgpu.VertexFormat {
	return TypeToVertexFormat[tp]
}

func (tp Types) String() string {
	return TypeNames[tp]
}

// toDeviceBytes converts host-side float64 values into the device
// representation for the given element type. Values are truncated
// per the type: float64 to float32 drops excess precision, and the
// integer types drop the fractional part, as in a C cast.
func toDeviceBytes(tp Types, vals []float64) []byte {
	switch tp {
	case Int32:
		iv := make([]int32, len(vals))
		for i, v := range vals {
			iv[i] = int32(v)
		}
		return wgpu.ToBytes(iv)
	case Uint32:
		uv := make([]uint32, len(vals))
		for i, v := range vals {
			uv[i] = uint32(v)
		}
		return wgpu.ToBytes(uv)
	default:
		fv := make([]float32, len(vals))
		for i, v := range vals {
			fv[i] = float32(v)
		}
		return wgpu.ToBytes(fv)
	}
}

// fromDeviceBytes widens device memory of the given element type into
// float64 values. Integer types widen losslessly; float32 roundtrips
// exactly through float64.
func fromDeviceBytes(tp Types, b []byte) []float64 {
	n := len(b) / tp.Bytes()
	vals := make([]float64, n)
	for i := range vals {
		w := binary.LittleEndian.Uint32(b[i*4:])
		switch tp {
		case Int32:
			vals[i] = float64(int32(w))
		case Uint32:
			vals[i] = float64(w)
		default:
			vals[i] = float64(math.Float32frombits(w))
		}
	}
	return vals
}
