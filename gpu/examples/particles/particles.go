// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"cogentcore.org/compute/base/errors"
	"cogentcore.org/compute/gpu"
	"github.com/chewxy/math32"
)

// step advances each particle by one time step and bounces it off the
// walls of the unit square.
const step = `
@group(0) @binding(0)
var<storage, read_write> dt: f32;

@group(0) @binding(1)
var<storage, read_write> px: array<f32>;

@group(0) @binding(2)
var<storage, read_write> py: array<f32>;

@group(0) @binding(3)
var<storage, read_write> vx: array<f32>;

@group(0) @binding(4)
var<storage, read_write> vy: array<f32>;

@compute @workgroup_size(1)
fn step(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	var x = px[i] + vx[i] * dt;
	var y = py[i] + vy[i] * dt;
	if (x < 0.0 || x > 1.0) {
		vx[i] = -vx[i];
		x = clamp(x, 0.0, 1.0);
	}
	if (y < 0.0 || y > 1.0) {
		vy[i] = -vy[i];
		y = clamp(y, 0.0, 1.0);
	}
	px[i] = x;
	py[i] = y;
}
`

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	if err := gpu.Init(); err != nil {
		fmt.Println("windowing init failed:", err)
		return
	}
	defer gpu.Terminate()

	rd, err := gpu.NewRenderer(0, 0, "Particles")
	if err != nil {
		fmt.Println("renderer init failed:", err)
		return
	}
	defer rd.Release()

	// compute shares the renderer's device so frames draw the kernel's
	// buffers in place.
	reg := gpu.NewBufferRegistry(rd.Device)
	defer reg.Release()
	ke := gpu.NewKernelExecutor(reg)
	defer ke.Release()

	n := 2000
	px := make([]float64, n)
	py := make([]float64, n)
	vx := make([]float64, n)
	vy := make([]float64, n)
	for i := range n {
		px[i] = rand.Float64()
		py[i] = rand.Float64()
		ang := math32.Pi * 2 * rand.Float32()
		speed := 0.5 + 1.5*rand.Float32()
		vx[i] = float64(speed * math32.Cos(ang))
		vy[i] = float64(speed * math32.Sin(ang))
	}

	dt := errors.Log1(reg.AllocateScalar(gpu.Float32, 1.0/60))
	pxID := errors.Log1(reg.AllocateWithData(gpu.Float32, px))
	pyID := errors.Log1(reg.AllocateWithData(gpu.Float32, py))
	vxID := errors.Log1(reg.AllocateWithData(gpu.Float32, vx))
	vyID := errors.Log1(reg.AllocateWithData(gpu.Float32, vy))

	kn := &gpu.Kernel{Source: step, Name: "step"}
	ids := []int{dt, pxID, pyID, vxID, vyID}

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for rd.PollEvents() {
		<-ticker.C
		if err := kn.LaunchWithBuffers(ke, n, ids); err != nil {
			fmt.Println("step failed:", err)
			return
		}
		if err := rd.RenderFrameFromBuffers(reg, pxID, pyID, vxID, vyID); err != nil {
			fmt.Println("render failed:", err)
			return
		}
	}
}
