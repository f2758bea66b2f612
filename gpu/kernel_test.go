// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"cogentcore.org/compute/base/errors"
	"github.com/stretchr/testify/assert"
)

const saxpySource = `
@group(0) @binding(0)
var<storage, read_write> alpha: f32;

@group(0) @binding(1)
var<storage, read_write> x: array<f32>;

@group(0) @binding(2)
var<storage, read_write> y: array<f32>;

@compute @workgroup_size(1)
fn saxpy(@builtin(global_invocation_id) gid: vec3<u32>) {
	y[gid.x] = alpha * x[gid.x] + y[gid.x];
}
`

func testExecutor(t *testing.T) *KernelExecutor {
	t.Helper()
	ke := NewKernelExecutor(testRegistry(t))
	t.Cleanup(ke.Release)
	return ke
}

func TestRunKernel(t *testing.T) {
	ke := testExecutor(t)
	res, err := ke.RunKernel(testKernelSource, "double", 3, []BufferDescriptor{
		BufferData("src", Float32, []float64{1, 2, 3}),
		BufferZeros("dst", Float32, 3),
	})
	assert.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, res["src"])
	assert.Equal(t, []float64{2, 4, 6}, res["dst"])
}

func TestRunKernelScalar(t *testing.T) {
	ke := testExecutor(t)
	res, err := ke.RunKernel(saxpySource, "saxpy", 3, []BufferDescriptor{
		BufferScalar("alpha", Float32, 2),
		BufferData("x", Float32, []float64{1, 2, 3}),
		BufferData("y", Float32, []float64{10, 20, 30}),
	})
	assert.NoError(t, err)
	assert.Equal(t, []float64{2}, res["alpha"])
	assert.Equal(t, []float64{12, 24, 36}, res["y"])
}

func TestRunKernelIDs(t *testing.T) {
	ke := testExecutor(t)
	res, ids, err := ke.RunKernelIDs(testKernelSource, "double", 2, []BufferDescriptor{
		BufferData("src", Float32, []float64{3, 4}),
		BufferZeros("dst", Float32, 2),
	})
	assert.NoError(t, err)
	assert.Len(t, ids, 2)
	got, err := ke.Registry.Download(ids[1])
	assert.NoError(t, err)
	assert.Equal(t, res["dst"], got)
}

func TestRunKernelWithBuffers(t *testing.T) {
	ke := testExecutor(t)
	reg := ke.Registry
	src, err := reg.AllocateWithData(Float32, []float64{5, 6, 7, 8})
	assert.NoError(t, err)
	dst, err := reg.Allocate(Float32, 4)
	assert.NoError(t, err)

	assert.NoError(t, ke.RunKernelWithBuffers(testKernelSource, "double", 4, []int{src, dst}))
	got, err := reg.Download(dst)
	assert.NoError(t, err)
	assert.Equal(t, []float64{10, 12, 14, 16}, got)

	// re-dispatch on the same buffers composes: dst doubles again
	// when fed back as the source.
	assert.NoError(t, ke.RunKernelWithBuffers(testKernelSource, "double", 4, []int{dst, src}))
	got, err = reg.Download(src)
	assert.NoError(t, err)
	assert.Equal(t, []float64{20, 24, 28, 32}, got)
}

func TestRunKernelWarps(t *testing.T) {
	ke := testExecutor(t)
	reg := ke.Registry
	n := 100
	vals := make([]float64, n)
	want := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
		want[i] = float64(i) * 0.5
	}
	src, err := reg.AllocateWithData(Float32, vals)
	assert.NoError(t, err)
	dst, err := reg.Allocate(Float32, n)
	assert.NoError(t, err)
	// halve declares @workgroup_size(64); threads past n write
	// out of range, which WebGPU clamps to no-ops.
	assert.NoError(t, ke.RunKernelWithBuffers(testKernelSource, "halve", Warps(n, 64), []int{src, dst}))
	got, err := reg.Download(dst)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunKernelErrors(t *testing.T) {
	ke := testExecutor(t)

	_, err := ke.RunKernel(testKernelSource, "double", 0, []BufferDescriptor{
		BufferZeros("src", Float32, 1),
		BufferZeros("dst", Float32, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidGridSize)

	_, err = ke.RunKernel(testKernelSource, "double", -3, nil)
	assert.ErrorIs(t, err, ErrInvalidGridSize)

	_, err = ke.RunKernel(testKernelSource, "triple", 1, nil)
	assert.ErrorIs(t, err, ErrKernelNotFound)
	var ce *CompileError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "triple", ce.Kernel)

	// malformed source is a compile error, not kernel-not-found.
	_, err = ke.RunKernel("@compute fn nope( {", "nope", 1, nil)
	assert.True(t, errors.As(err, &ce))
	assert.NotErrorIs(t, err, ErrKernelNotFound)

	// duplicate configuration names are rejected before allocation.
	_, err = ke.RunKernel(testKernelSource, "double", 1, []BufferDescriptor{
		BufferZeros("a", Float32, 1),
		BufferZeros("a", Float32, 1),
	})
	assert.Error(t, err)
}

func TestDispatchBindingMismatch(t *testing.T) {
	ke := testExecutor(t)
	src, err := ke.Registry.AllocateWithData(Float32, []float64{1})
	assert.NoError(t, err)
	err = ke.RunKernelWithBuffers(testKernelSource, "double", 1, []int{src})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	err = ke.RunKernelWithBuffers(testKernelSource, "double", 1, []int{src, 99})
	assert.ErrorIs(t, err, ErrUnknownBufferID)
}

func TestKernelLaunch(t *testing.T) {
	ke := testExecutor(t)
	kn := &Kernel{Source: testKernelSource, Name: "double"}
	res, err := kn.Launch(ke, 2, []BufferDescriptor{
		BufferData("src", Float32, []float64{1.5, 2.5}),
		BufferZeros("dst", Float32, 2),
	})
	assert.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, res["dst"])
}

func TestWarps(t *testing.T) {
	assert.Equal(t, 1, Warps(1, 64))
	assert.Equal(t, 1, Warps(64, 64))
	assert.Equal(t, 2, Warps(65, 64))
	assert.Equal(t, 0, Warps(0, 64))
}
