// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/compute/base/errors"
)

// pointsShader is the fixed graphics pipeline for the [Renderer]:
// four float32 vertex streams (position x, y and velocity x, y per
// point), positions in the [0,1] x [0,1] domain mapped to clip space,
// color driven by velocity magnitude.
const pointsShader = `
struct VertexOutput {
	@builtin(position) position: vec4<f32>,
	@location(0) color: vec4<f32>,
}

@vertex
fn vs_main(@location(0) px: f32, @location(1) py: f32,
	@location(2) vx: f32, @location(3) vy: f32) -> VertexOutput {
	var out: VertexOutput;
	out.position = vec4<f32>(px * 2.0 - 1.0, py * 2.0 - 1.0, 0.0, 1.0);
	let speed = clamp(sqrt(vx * vx + vy * vy) * 0.25, 0.0, 1.0);
	out.color = vec4<f32>(0.2 + 0.8 * speed, 0.35, 1.0 - 0.8 * speed, 1.0);
	return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	return in.color;
}
`

// frameLen checks that the four per-point streams for one frame have
// equal lengths, returning the point count.
func frameLen(posX, posY, velX, velY int) (int, error) {
	if posX != posY || posX != velX || posX != velY {
		return 0, errors.Log(fmt.Errorf("%w: frame arrays have lengths %d, %d, %d, %d", ErrSizeMismatch, posX, posY, velX, velY))
	}
	return posX, nil
}
