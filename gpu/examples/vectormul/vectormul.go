// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"cogentcore.org/compute/gpu"
)

// vecmul scales one vector by another elementwise, plus a scalar bias.
const vecmul = `
@group(0) @binding(0)
var<storage, read_write> a: array<f32>;

@group(0) @binding(1)
var<storage, read_write> b: array<f32>;

@group(0) @binding(2)
var<storage, read_write> out: array<f32>;

@group(0) @binding(3)
var<storage, read_write> bias: f32;

@compute @workgroup_size(1)
fn vecmul(@builtin(global_invocation_id) gid: vec3<u32>) {
	out[gid.x] = a[gid.x] * b[gid.x] + bias;
}
`

func main() {
	gp, dev, err := gpu.NoDisplayGPU()
	if err != nil {
		fmt.Println("no GPU available:", err)
		return
	}
	defer gp.Release()
	defer dev.Release()

	reg := gpu.NewBufferRegistry(dev)
	defer reg.Release()
	ke := gpu.NewKernelExecutor(reg)
	defer ke.Release()

	n := 16
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = float64(i)
		b[i] = 0.5
	}

	res, err := ke.RunKernel(vecmul, "vecmul", n, []gpu.BufferDescriptor{
		gpu.BufferData("a", gpu.Float32, a),
		gpu.BufferData("b", gpu.Float32, b),
		gpu.BufferZeros("out", gpu.Float32, n),
		gpu.BufferScalar("bias", gpu.Float32, 100),
	})
	if err != nil {
		fmt.Println("kernel failed:", err)
		return
	}
	for i := range n {
		fmt.Printf("%6.2f * %4.2f + %5.1f = %7.2f\n", a[i], b[i], res["bias"][0], res["out"][i])
	}
}
