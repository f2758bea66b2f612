// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu provides a unified layer for dispatching compute kernels
// on the GPU and rendering their results, sharing the same device-resident
// buffers between the compute and render pipelines (zero-copy interop).
//
// The four main types are:
//   - [GPU] and [Device]: the physical adapter and the logical device
//     with its single command queue, which everything else depends on.
//   - [BufferRegistry]: allocates, types, and tracks GPU-resident buffers,
//     addressed by opaque integer identifiers.
//   - [KernelExecutor]: compiles WGSL kernel source and dispatches it
//     against registry buffers, either allocated fresh from named
//     [BufferDescriptor] configurations or given as existing identifiers.
//   - [Renderer]: displays per-point position / velocity data in a window,
//     from host arrays or directly from registry buffers.
//
// All operations assume a single driving thread, in the typical
// simulate, dispatch, render frame loop.
package gpu

import (
	"fmt"

	"cogentcore.org/compute/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug enables verbose logging of GPU initialization and dispatch.
var Debug = false

var theInstance *wgpu.Instance

// Instance returns the shared WebGPU instance, creating it on first use.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// GPU represents the physical GPU hardware, as a WebGPU adapter,
// with its limits. Use [NewGPU] to get one, and [NewDevice] to make
// the logical [Device] that everything runs on.
type GPU struct {
	// Adapter is the WebGPU adapter for the physical device.
	Adapter *wgpu.Adapter

	// Limits has the memory and feature limits supported by the adapter.
	Limits wgpu.SupportedLimits
}

// NewGPU returns a new GPU for the best available adapter compatible
// with the given surface, which may be nil for compute-only use.
// Returns an error wrapping [ErrDeviceUnavailable] if no compatible
// adapter is found; nothing else can function in that case, so callers
// should treat it as fatal.
func NewGPU(sf *wgpu.Surface) (*GPU, error) {
	opts := &wgpu.RequestAdapterOptions{
		CompatibleSurface: sf,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	}
	ad, err := Instance().RequestAdapter(opts)
	if err != nil || ad == nil {
		return nil, errors.Log(fmt.Errorf("%w: %v", ErrDeviceUnavailable, err))
	}
	gp := &GPU{Adapter: ad}
	gp.Limits = ad.GetLimits()
	return gp, nil
}

// NoDisplayGPU returns a GPU and Device configured for compute-only,
// headless use, with no display surface.
func NoDisplayGPU() (*GPU, *Device, error) {
	gp, err := NewGPU(nil)
	if err != nil {
		return nil, nil, err
	}
	dev, err := NewDevice(gp)
	if err != nil {
		return nil, nil, err
	}
	return gp, dev, nil
}

// Release releases the adapter. Call after all dependent Devices,
// registries, and pipelines have been released.
func (gp *GPU) Release() {
	if gp.Adapter == nil {
		return
	}
	gp.Adapter.Release()
	gp.Adapter = nil
}
