// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/compute/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device holds the logical Device and its single command Queue.
// All compute dispatches and render submissions for one Device go
// through this queue, which serializes them. The [BufferRegistry]
// and any pipeline state created from a Device are logically children
// of it and must be released before the Device itself.
type Device struct {
	// Device is the logical device.
	Device *wgpu.Device

	// Queue is the command submission queue for the device.
	Queue *wgpu.Queue
}

// NewDevice returns a new logical device and queue for the given GPU.
// Returns an error wrapping [ErrDeviceUnavailable] on failure.
func NewDevice(gp *GPU) (*Device, error) {
	wdev, err := gp.Adapter.RequestDevice(nil)
	if err != nil {
		return nil, errors.Log(fmt.Errorf("%w: %v", ErrDeviceUnavailable, err))
	}
	return &Device{Device: wdev, Queue: wdev.GetQueue()}, nil
}

// WaitDone blocks until the device is done with all submitted work.
// This is the queue-wide completion wait that [BufferRegistry.Download]
// and the zero-copy render path rely on before reading GPU memory.
func (dv *Device) WaitDone() {
	if dv.Device == nil {
		return
	}
	dv.Device.Poll(true, nil)
}

// Release waits for outstanding work and releases the device.
func (dv *Device) Release() {
	if dv.Device == nil {
		return
	}
	dv.WaitDone()
	dv.Device.Release()
	dv.Device = nil
	dv.Queue = nil
}
