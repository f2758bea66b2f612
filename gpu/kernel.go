// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"math"

	"cogentcore.org/compute/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// KernelExecutor compiles WGSL compute kernels and dispatches them
// against buffers in a [BufferRegistry]. Kernel arguments are bound
// strictly positionally: @binding(i) in the kernel gets the i-th
// configuration or buffer identifier. Compiled pipelines are cached
// per (source, kernel) so repeated dispatches in a frame loop do not
// recompile. Not safe for concurrent use without external locking.
type KernelExecutor struct {
	// Registry supplies and owns the buffers kernels run against.
	Registry *BufferRegistry

	device *Device

	// compiled pipelines, keyed by kernel name + source.
	pipelines map[string]*computePipeline
}

// NewKernelExecutor returns a new executor dispatching on the given
// registry's device.
func NewKernelExecutor(reg *BufferRegistry) *KernelExecutor {
	return &KernelExecutor{
		Registry:  reg,
		device:    reg.Device(),
		pipelines: make(map[string]*computePipeline),
	}
}

// RunKernel compiles source, allocates a fresh registry buffer for each
// configuration in order, binds them positionally, dispatches gridSize
// invocation units, waits for completion, and returns each
// configuration's final contents under its name. Scalar results are
// returned as a one-element slice for uniformity. The registry retains
// ownership of the allocated buffers; use [KernelExecutor.RunKernelIDs]
// to also get their identifiers for chaining further operations.
func (ke *KernelExecutor) RunKernel(source, kernelName string, gridSize int, configs []BufferDescriptor) (map[string][]float64, error) {
	res, _, err := ke.RunKernelIDs(source, kernelName, gridSize, configs)
	return res, err
}

// RunKernelIDs is [KernelExecutor.RunKernel], additionally returning the
// registry identifiers of the freshly allocated buffers, in
// configuration order.
func (ke *KernelExecutor) RunKernelIDs(source, kernelName string, gridSize int, configs []BufferDescriptor) (map[string][]float64, []int, error) {
	pl, err := ke.pipeline(source, kernelName)
	if err != nil {
		return nil, nil, err
	}
	if gridSize <= 0 {
		return nil, nil, errors.Log(fmt.Errorf("%w: %d", ErrInvalidGridSize, gridSize))
	}
	seen := make(map[string]bool, len(configs))
	for i := range configs {
		if seen[configs[i].Name] {
			return nil, nil, errors.Log(fmt.Errorf("gpu: duplicate buffer name %q in kernel configuration", configs[i].Name))
		}
		seen[configs[i].Name] = true
	}
	ids := make([]int, len(configs))
	for i := range configs {
		ids[i], err = ke.Registry.FromDescriptor(&configs[i])
		if err != nil {
			return nil, nil, err
		}
	}
	if err := ke.dispatch(pl, ids, gridSize); err != nil {
		return nil, nil, err
	}
	results := make(map[string][]float64, len(configs))
	for i := range configs {
		vals, err := ke.Registry.Download(ids[i])
		if err != nil {
			return nil, nil, err
		}
		results[configs[i].Name] = vals
	}
	return results, ids, nil
}

// RunKernelWithBuffers compiles source and dispatches gridSize
// invocation units with kernel arguments bound, in order, to the
// existing registry buffers named by bufferIDs. It does not allocate
// and does not read anything back: inspect results afterward via
// [BufferRegistry.Download] or render them directly with
// [Renderer.RenderFrameFromBuffers].
func (ke *KernelExecutor) RunKernelWithBuffers(source, kernelName string, gridSize int, bufferIDs []int) error {
	pl, err := ke.pipeline(source, kernelName)
	if err != nil {
		return err
	}
	if gridSize <= 0 {
		return errors.Log(fmt.Errorf("%w: %d", ErrInvalidGridSize, gridSize))
	}
	return ke.dispatch(pl, bufferIDs, gridSize)
}

// Release releases all cached pipelines. The Registry is not released:
// it owns its buffers independently.
func (ke *KernelExecutor) Release() {
	for _, pl := range ke.pipelines {
		pl.release()
	}
	ke.pipelines = nil
}

// computePipeline is the compiled form of one kernel: module, pipeline,
// and the bind group layout its buffers attach through.
type computePipeline struct {
	shader      *Shader
	pipeline    *wgpu.ComputePipeline
	layout      *wgpu.BindGroupLayout
	numBindings int
}

func (pl *computePipeline) release() {
	if pl.layout != nil {
		pl.layout.Release()
		pl.layout = nil
	}
	if pl.pipeline != nil {
		pl.pipeline.Release()
		pl.pipeline = nil
	}
	if pl.shader != nil {
		pl.shader.Release()
		pl.shader = nil
	}
}

// pipeline returns the cached or newly compiled pipeline for the given
// source and kernel name. Failures are [CompileError]s: malformed
// source, or a missing entry point (errors.Is ErrKernelNotFound).
func (ke *KernelExecutor) pipeline(source, kernelName string) (*computePipeline, error) {
	key := kernelName + "\x00" + source
	if pl, ok := ke.pipelines[key]; ok {
		return pl, nil
	}
	sh := NewShader(kernelName, ke.device)
	if err := sh.OpenCode(source); err != nil {
		return nil, err
	}
	if !hasComputeEntry(source, kernelName) {
		sh.Release()
		return nil, errors.Log(&CompileError{Kernel: kernelName, Err: ErrKernelNotFound})
	}
	cp, err := ke.device.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: kernelName,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     sh.module,
			EntryPoint: kernelName,
		},
	})
	if err != nil {
		sh.Release()
		return nil, errors.Log(&CompileError{Kernel: kernelName, Err: err})
	}
	bgl := cp.GetBindGroupLayout(0)
	pl := &computePipeline{
		shader:      sh,
		pipeline:    cp,
		layout:      bgl,
		numBindings: numBindings(source),
	}
	ke.pipelines[key] = pl
	return pl, nil
}

// dispatch binds the given registry buffers positionally, encodes one
// compute pass of gridSize workgroups along x, and submits it,
// blocking until the GPU signals completion. Mismatched binding and
// buffer counts fail before anything is submitted.
func (ke *KernelExecutor) dispatch(pl *computePipeline, ids []int, gridSize int) error {
	if len(ids) != pl.numBindings {
		return errors.Log(fmt.Errorf("%w: kernel declares %d bindings, %d buffers given", ErrSizeMismatch, pl.numBindings, len(ids)))
	}
	entries := make([]wgpu.BindGroupEntry, len(ids))
	for i, id := range ids {
		gb, err := ke.Registry.get(id)
		if err != nil {
			return errors.Log(err)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i),
			Buffer:  gb.buffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}
	bg, err := ke.device.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "kernel_args",
		Layout:  pl.layout,
		Entries: entries,
	})
	if errors.Log(err) != nil {
		return err
	}
	defer bg.Release()

	cmd, err := ke.device.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return err
	}
	cp := cmd.BeginComputePass(nil)
	cp.SetPipeline(pl.pipeline)
	cp.SetBindGroup(0, bg, nil)
	cp.DispatchWorkgroups(uint32(gridSize), 1, 1)
	cp.End()
	err = ke.submitAndWait(cmd)
	cp.Release()
	cmd.Release()
	return err
}

// submitAndWait is the single submission point for compute work:
// it finishes the encoder, submits to the queue, and blocks until the
// device is done.
func (ke *KernelExecutor) submitAndWait(cmd *wgpu.CommandEncoder) error {
	cb, err := cmd.Finish(nil)
	if errors.Log(err) != nil {
		return err
	}
	ke.device.Queue.Submit(cb)
	cb.Release()
	ke.device.WaitDone()
	return nil
}

// Warps returns the number of workgroups sufficient to cover n
// elements with the given number of threads per workgroup:
// Ceil(n / threads). Use as the gridSize for kernels that declare a
// workgroup size larger than 1.
func Warps(n, threads int) int {
	return int(math.Ceil(float64(n) / float64(threads)))
}

// Kernel bundles kernel source with its entry-point name, for callers
// that dispatch the same kernel repeatedly.
type Kernel struct {
	// Source is the WGSL source text, which may define several kernels.
	Source string

	// Name is the entry point this Kernel dispatches.
	Name string
}

// Launch dispatches the kernel over gridSize invocation units with
// fresh buffers from the given configurations, returning the
// name-to-values result mapping. See [KernelExecutor.RunKernel].
func (kn *Kernel) Launch(ke *KernelExecutor, gridSize int, configs []BufferDescriptor) (map[string][]float64, error) {
	return ke.RunKernel(kn.Source, kn.Name, gridSize, configs)
}

// LaunchWithBuffers dispatches the kernel over gridSize invocation
// units against existing registry buffers.
// See [KernelExecutor.RunKernelWithBuffers].
func (kn *Kernel) LaunchWithBuffers(ke *KernelExecutor, gridSize int, bufferIDs []int) error {
	return ke.RunKernelWithBuffers(kn.Source, kn.Name, gridSize, bufferIDs)
}
