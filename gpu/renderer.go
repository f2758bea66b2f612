// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package gpu

import (
	"image"

	"cogentcore.org/compute/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Renderer displays per-point position and velocity data in a window,
// using a fixed point-list graphics pipeline. Each frame it draws
// either host-side arrays ([Renderer.RenderFrame]) or registry buffers
// read in place with no host round trip
// ([Renderer.RenderFrameFromBuffers]).
//
// A Renderer either owns its GPU and Device ([NewRenderer]) or borrows
// a caller-supplied pair ([NewRendererShared]); shared mode is required
// for the zero-copy path, so that compute and render use the same
// device and queue. In shared mode the Renderer never releases the
// borrowed device and must not outlive it.
//
// Once the windowing system reports closure the Renderer is closed for
// good: [Renderer.IsOpen] stays false and RenderFrame calls return
// [ErrRendererClosed] without drawing.
type Renderer struct {
	// GPU is the physical device adapter.
	GPU *GPU

	// Device is the logical device and queue frames are submitted on.
	Device *Device

	// Size is the current window size in pixels.
	Size image.Point

	window   *glfw.Window
	surface  *wgpu.Surface
	format   wgpu.TextureFormat
	shader   *wgpu.ShaderModule
	pipeline *wgpu.RenderPipeline

	// frame holds the host-path vertex buffers: pos x, pos y, vel x, vel y.
	frame [4]*wgpu.Buffer

	// frameN is the element capacity of the frame buffers.
	frameN int

	open       bool
	ownsDevice bool
	ownsGPU    bool
}

// DefaultSize is the window size used when width or height are <= 0,
// 800 x 800.
var DefaultSize = image.Point{800, 800}

// NewRenderer returns a Renderer that creates and owns its own GPU and
// Device (standalone mode), with a window of the given size and title.
// Pass width, height <= 0 for [DefaultSize].
// IMPORTANT: must be called on the main initial thread, with the main
// thread locked (runtime.LockOSThread).
func NewRenderer(width, height int, title string) (*Renderer, error) {
	rd := &Renderer{ownsDevice: true, ownsGPU: true}
	return rd.init(nil, nil, width, height, title)
}

// NewRendererShared returns a Renderer attached to the caller-supplied
// GPU and Device (shared mode), required for zero-copy rendering of
// compute buffers. The Renderer does not own the device and must be
// released before it.
// IMPORTANT: must be called on the main initial thread, with the main
// thread locked (runtime.LockOSThread).
func NewRendererShared(gp *GPU, dev *Device, width, height int, title string) (*Renderer, error) {
	rd := &Renderer{}
	return rd.init(gp, dev, width, height, title)
}

func (rd *Renderer) init(gp *GPU, dev *Device, width, height int, title string) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		width, height = DefaultSize.X, DefaultSize.Y
	}
	if err := Init(); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Log(err)
	}
	rd.window = window
	rd.surface = Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	if gp == nil {
		gp, err = NewGPU(rd.surface)
		if err != nil {
			return nil, err
		}
	}
	if dev == nil {
		dev, err = NewDevice(gp)
		if err != nil {
			return nil, err
		}
	}
	rd.GPU = gp
	rd.Device = dev
	rd.Size = image.Point{width, height}

	caps := rd.surface.GetCapabilities(gp.Adapter)
	rd.format = caps.Formats[0]
	rd.surface.Configure(gp.Adapter, dev.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      rd.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	})
	if err := rd.config(); err != nil {
		return nil, err
	}
	rd.open = true
	return rd, nil
}

// config builds the fixed point-rendering pipeline.
func (rd *Renderer) config() error {
	shader, err := rd.Device.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "points",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: pointsShader},
	})
	if errors.Log(err) != nil {
		return err
	}
	rd.shader = shader

	// one single-attribute buffer layout per stream, so compute buffers
	// can bind directly without interleaving.
	vbls := make([]wgpu.VertexBufferLayout, 4)
	for i := range vbls {
		vbls[i] = wgpu.VertexBufferLayout{
			ArrayStride: uint64(Float32.Bytes()),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         wgpu.VertexFormatFloat32,
				Offset:         0,
				ShaderLocation: uint32(i),
			}},
		}
	}
	replace := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	}
	pipeline, err := rd.Device.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "points",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    vbls,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyPointList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    rd.format,
				Blend:     &wgpu.BlendState{Color: replace, Alpha: replace},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	rd.pipeline = pipeline
	return nil
}

// RenderFrame uploads the given host-side per-point arrays and draws
// them as points, presenting the result. All four arrays must have
// equal length, the point count for this frame.
func (rd *Renderer) RenderFrame(posX, posY, velX, velY []float32) error {
	if !rd.open {
		return errors.Log(ErrRendererClosed)
	}
	n, err := frameLen(len(posX), len(posY), len(velX), len(velY))
	if err != nil {
		return err
	}
	if err := rd.ensureFrameBuffers(n); err != nil {
		return err
	}
	for i, vals := range [][]float32{posX, posY, velX, velY} {
		if n == 0 {
			break
		}
		if err := rd.Device.Queue.WriteBuffer(rd.frame[i], 0, wgpu.ToBytes(vals)); errors.Log(err) != nil {
			return err
		}
	}
	return rd.draw(n, rd.frame)
}

// RenderFrameFromBuffers draws directly from the given registry's
// buffers, resolved by identifier at draw time: the same device memory
// last written by a kernel dispatch is read by the graphics pipeline,
// with no host round trip. All four buffers must currently have equal
// element counts. Requires a Renderer in shared mode on the registry's
// device.
func (rd *Renderer) RenderFrameFromBuffers(reg *BufferRegistry, posXID, posYID, velXID, velYID int) error {
	if !rd.open {
		return errors.Log(ErrRendererClosed)
	}
	var bufs [4]*wgpu.Buffer
	var ns [4]int
	for i, id := range [4]int{posXID, posYID, velXID, velYID} {
		h, err := reg.RawHandle(id)
		if err != nil {
			return err
		}
		bufs[i] = h.buf
		ns[i] = h.n
	}
	n, err := frameLen(ns[0], ns[1], ns[2], ns[3])
	if err != nil {
		return err
	}
	// prior compute writes must land before the graphics pipeline reads.
	rd.Device.WaitDone()
	return rd.draw(n, bufs)
}

// ensureFrameBuffers sizes the host-path vertex buffers to hold n
// elements, recreating them only on growth.
func (rd *Renderer) ensureFrameBuffers(n int) error {
	if n <= rd.frameN {
		return nil
	}
	streams := [4]string{"pos_x", "pos_y", "vel_x", "vel_y"}
	for i := range rd.frame {
		if rd.frame[i] != nil {
			rd.frame[i].Release()
		}
		buf, err := rd.Device.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "frame_" + streams[i],
			Size:  uint64(n * Float32.Bytes()),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if errors.Log(err) != nil {
			return err
		}
		rd.frame[i] = buf
	}
	rd.frameN = n
	return nil
}

// draw encodes and submits one render pass over n points from the four
// given vertex buffers, then presents.
func (rd *Renderer) draw(n int, bufs [4]*wgpu.Buffer) error {
	tex, err := rd.surface.GetCurrentTexture()
	if errors.Log(err) != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if errors.Log(err) != nil {
		return err
	}
	cmd, err := rd.Device.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return err
	}
	rp := cmd.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			StoreOp:    wgpu.StoreOpStore,
		}},
	})
	rp.SetPipeline(rd.pipeline)
	if n > 0 {
		for i, b := range bufs {
			rp.SetVertexBuffer(uint32(i), b, 0, wgpu.WholeSize)
		}
		rp.Draw(uint32(n), 1, 0, 0)
	}
	rp.End()
	rp.Release()
	cb, err := cmd.Finish(nil)
	if errors.Log(err) != nil {
		return err
	}
	rd.Device.Queue.Submit(cb)
	cb.Release()
	cmd.Release()
	rd.surface.Present()
	view.Release()
	tex.Release()
	return nil
}

// PollEvents drains pending windowing events without blocking,
// returning whether the window is still open. Safe to call every
// frame. Once the user requests close, the Renderer transitions to
// closed permanently.
func (rd *Renderer) PollEvents() bool {
	if !rd.open {
		return false
	}
	if rd.window.ShouldClose() {
		rd.open = false
		return false
	}
	glfw.PollEvents()
	if rd.window.ShouldClose() {
		rd.open = false
		return false
	}
	return true
}

// IsOpen reports whether the window is still open. Closure is
// terminal: after the windowing system reports close this stays false.
func (rd *Renderer) IsOpen() bool {
	return rd.open
}

// Release destroys the window and releases the pipeline and, in
// standalone mode only, the Device and GPU. A shared Device is left
// untouched for its owner.
func (rd *Renderer) Release() {
	rd.open = false
	if rd.Device != nil {
		rd.Device.WaitDone()
	}
	for i := range rd.frame {
		if rd.frame[i] != nil {
			rd.frame[i].Release()
			rd.frame[i] = nil
		}
	}
	if rd.pipeline != nil {
		rd.pipeline.Release()
		rd.pipeline = nil
	}
	if rd.shader != nil {
		rd.shader.Release()
		rd.shader = nil
	}
	if rd.surface != nil {
		rd.surface.Release()
		rd.surface = nil
	}
	if rd.ownsDevice && rd.Device != nil {
		rd.Device.Release()
	}
	rd.Device = nil
	if rd.ownsGPU && rd.GPU != nil {
		rd.GPU.Release()
	}
	rd.GPU = nil
	if rd.window != nil {
		rd.window.Destroy()
		rd.window = nil
	}
}
