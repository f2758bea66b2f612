// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/compute/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// bufferUsages is the usage set for all registry buffers: storage for
// compute binding, copy src/dst for upload and readback, and vertex so
// the Renderer can read them directly (zero-copy interop).
const bufferUsages = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc |
	wgpu.BufferUsageCopyDst | wgpu.BufferUsageVertex

// GpuBuffer is one device-resident allocation owned by a [BufferRegistry].
type GpuBuffer struct {
	// buffer is the device memory, accessible to the GPU.
	buffer *wgpu.Buffer

	// Type is the element type.
	Type Types

	// N is the element count, 1 for a scalar.
	N int

	// IsScalar distinguishes a scalar buffer from a one-element array.
	IsScalar bool
}

// BufferHandle is an opaque capability token referencing one registry
// buffer, for zero-copy consumers such as the [Renderer]. It does not
// own the buffer and is only valid while the registry is alive.
type BufferHandle struct {
	buf *wgpu.Buffer
	n   int
}

// BufferRegistry allocates and exclusively owns GPU-resident buffers,
// assigning each an opaque positive integer identifier. Identifiers are
// monotonic starting at 1 and never reused while the registry is alive;
// they are not stable across registry instances. Buffers live until
// [BufferRegistry.Release]; there is no per-buffer deallocation.
// Not safe for concurrent use without external locking.
type BufferRegistry struct {
	device  *Device
	buffers map[int]*GpuBuffer
	nextID  int
}

// NewBufferRegistry returns a new registry allocating on the given device.
// The registry must be released before the device.
func NewBufferRegistry(dev *Device) *BufferRegistry {
	return &BufferRegistry{
		device:  dev,
		buffers: make(map[int]*GpuBuffer),
		nextID:  1,
	}
}

// Device returns the device this registry allocates on.
func (br *BufferRegistry) Device() *Device { return br.device }

func (br *BufferRegistry) add(gb *GpuBuffer) int {
	id := br.nextID
	br.nextID++
	br.buffers[id] = gb
	return id
}

// get returns the buffer for id, or an error wrapping ErrUnknownBufferID.
func (br *BufferRegistry) get(id int) (*GpuBuffer, error) {
	gb, ok := br.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBufferID, id)
	}
	return gb, nil
}

// Allocate creates a zero-initialized buffer of count elements of the
// given type, returning its identifier. Fails if count is negative.
func (br *BufferRegistry) Allocate(tp Types, count int) (int, error) {
	if count < 0 {
		return 0, errors.Log(fmt.Errorf("%w: negative element count %d", ErrSizeMismatch, count))
	}
	buf, err := br.device.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("buffer_%d", br.nextID),
		Size:  uint64(count * tp.Bytes()),
		Usage: bufferUsages,
	})
	if errors.Log(err) != nil {
		return 0, err
	}
	return br.add(&GpuBuffer{buffer: buf, Type: tp, N: count}), nil
}

// AllocateWithData creates a buffer of len(values) elements and copies
// the values in, converted per the element type (float32 truncation of
// higher-precision input is expected, not an error).
func (br *BufferRegistry) AllocateWithData(tp Types, values []float64) (int, error) {
	return br.allocInit(tp, values, false)
}

// AllocateScalar creates a single-element buffer tagged as scalar,
// holding the given value.
func (br *BufferRegistry) AllocateScalar(tp Types, value float64) (int, error) {
	return br.allocInit(tp, []float64{value}, true)
}

func (br *BufferRegistry) allocInit(tp Types, values []float64, scalar bool) (int, error) {
	buf, err := br.device.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("buffer_%d", br.nextID),
		Contents: toDeviceBytes(tp, values),
		Usage:    bufferUsages,
	})
	if errors.Log(err) != nil {
		return 0, err
	}
	return br.add(&GpuBuffer{buffer: buf, Type: tp, N: len(values), IsScalar: scalar}), nil
}

// FromDescriptor allocates a buffer per the descriptor's mode,
// returning its identifier. Used by the named-configuration kernel
// dispatch path, and usable directly.
func (br *BufferRegistry) FromDescriptor(bd *BufferDescriptor) (int, error) {
	if err := bd.Validate(); err != nil {
		return 0, err
	}
	switch bd.Mode {
	case Scalar:
		return br.AllocateScalar(bd.Type, bd.Value)
	case ZeroFilled:
		return br.Allocate(bd.Type, bd.Size)
	default:
		return br.AllocateWithData(bd.Type, bd.Data)
	}
}

// Upload overwrites an existing buffer's contents with the given values,
// converted per the buffer's element type. The length must equal the
// buffer's element count: there is no implicit resize. On a length
// mismatch the buffer's prior contents are unchanged.
func (br *BufferRegistry) Upload(id int, values []float64) error {
	gb, err := br.get(id)
	if err != nil {
		return errors.Log(err)
	}
	if len(values) != gb.N {
		return errors.Log(fmt.Errorf("%w: Upload of %d values to buffer %d with %d elements", ErrSizeMismatch, len(values), id, gb.N))
	}
	if gb.N == 0 {
		return nil
	}
	return errors.Log(br.device.Queue.WriteBuffer(gb.buffer, 0, toDeviceBytes(gb.Type, values)))
}

// SetScalar overwrites a scalar buffer's single value.
// Fails if the buffer is not scalar.
func (br *BufferRegistry) SetScalar(id int, value float64) error {
	gb, err := br.get(id)
	if err != nil {
		return errors.Log(err)
	}
	if !gb.IsScalar {
		return errors.Log(fmt.Errorf("%w: SetScalar on non-scalar buffer %d", ErrSizeMismatch, id))
	}
	return errors.Log(br.device.Queue.WriteBuffer(gb.buffer, 0, toDeviceBytes(gb.Type, []float64{value})))
}

// Download reads back the buffer's current device contents as float64
// values, regardless of the stored element type (integer types widen
// losslessly). It waits for any outstanding compute work that wrote the
// buffer to complete before reading.
func (br *BufferRegistry) Download(id int) ([]float64, error) {
	gb, err := br.get(id)
	if err != nil {
		return nil, errors.Log(err)
	}
	if gb.N == 0 {
		return []float64{}, nil
	}
	b, err := br.readSync(gb)
	if err != nil {
		return nil, err
	}
	return fromDeviceBytes(gb.Type, b), nil
}

// readSync copies the buffer into a transient staging buffer, waits for
// the queue to go idle, and returns the mapped bytes.
// note: WriteBuffer is the preferred method for writing, so only reading
// needs the staging copy.
func (br *BufferRegistry) readSync(gb *GpuBuffer) ([]byte, error) {
	sz := gb.N * gb.Type.Bytes()
	st, err := br.device.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback",
		Size:  uint64(sz),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	defer st.Release()
	cmd, err := br.device.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return nil, err
	}
	if err := cmd.CopyBufferToBuffer(gb.buffer, 0, st, 0, uint64(sz)); errors.Log(err) != nil {
		return nil, err
	}
	cb, err := cmd.Finish(nil)
	if errors.Log(err) != nil {
		return nil, err
	}
	br.device.Queue.Submit(cb)
	cb.Release()
	cmd.Release()

	var status wgpu.BufferMapAsyncStatus
	err = st.MapAsync(wgpu.MapModeRead, 0, uint64(sz), func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	br.device.WaitDone()
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, errors.Log(fmt.Errorf("gpu: buffer map failed: %s", status.String()))
	}
	b := make([]byte, sz)
	copy(b, st.GetMappedRange(0, uint(sz)))
	st.Unmap()
	return b, nil
}

// RawHandle returns an opaque handle to the buffer's device memory,
// for zero-copy consumers. The handle does not own the memory.
func (br *BufferRegistry) RawHandle(id int) (BufferHandle, error) {
	gb, err := br.get(id)
	if err != nil {
		return BufferHandle{}, errors.Log(err)
	}
	return BufferHandle{buf: gb.buffer, n: gb.N}, nil
}

// ElementCount returns the buffer's element count (1 for a scalar).
func (br *BufferRegistry) ElementCount(id int) (int, error) {
	gb, err := br.get(id)
	if err != nil {
		return 0, errors.Log(err)
	}
	return gb.N, nil
}

// IsScalar reports whether the buffer is a scalar buffer.
func (br *BufferRegistry) IsScalar(id int) (bool, error) {
	gb, err := br.get(id)
	if err != nil {
		return false, errors.Log(err)
	}
	return gb.IsScalar, nil
}

// Release waits for outstanding work and releases all buffers.
// The registry is unusable afterward.
func (br *BufferRegistry) Release() {
	if br.device != nil {
		br.device.WaitDone()
	}
	for _, gb := range br.buffers {
		if gb.buffer != nil {
			gb.buffer.Release()
			gb.buffer = nil
		}
	}
	br.buffers = nil
}
