// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"regexp"
	"strconv"

	"cogentcore.org/compute/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// Shader manages a single shader module compiled from WGSL source.
// A single shader can have multiple entry points.
type Shader struct {
	// Name is used for error messages and labeling.
	Name string

	module *wgpu.ShaderModule

	device *Device
}

// NewShader returns a new Shader with the given name, for the device.
func NewShader(name string, dev *Device) *Shader {
	return &Shader{Name: name, device: dev}
}

// OpenCode compiles the given WGSL source into the shader module.
// Malformed source is reported as a [CompileError], before anything
// reaches the device.
func (sh *Shader) OpenCode(code string) error {
	if err := validateWGSL(code); err != nil {
		return errors.Log(&CompileError{Kernel: sh.Name, Err: err})
	}
	module, err := sh.device.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          sh.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return errors.Log(&CompileError{Kernel: sh.Name, Err: err})
	}
	sh.module = module
	return nil
}

// Release releases the shader module.
func (sh *Shader) Release() {
	if sh.module == nil {
		return
	}
	sh.module.Release()
	sh.module = nil
}

// validateWGSL runs the WGSL front-end over the source, surfacing
// parse and type errors host-side without involving the device.
func validateWGSL(code string) error {
	_, err := naga.Compile(code)
	return err
}

var (
	computeEntryRx = regexp.MustCompile(`@compute(?:\s*@[\w]+\([^)]*\))*\s*fn\s+([A-Za-z_][A-Za-z0-9_]*)`)
	bindingRx      = regexp.MustCompile(`@group\(0\)\s*@binding\((\d+)\)`)
)

// computeEntries returns the names of the @compute entry points
// declared in WGSL source, in declaration order.
func computeEntries(code string) []string {
	ms := computeEntryRx.FindAllStringSubmatch(code, -1)
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m[1]
	}
	return names
}

// hasComputeEntry reports whether the WGSL source declares a @compute
// entry point with the given name.
func hasComputeEntry(code, name string) bool {
	for _, en := range computeEntries(code) {
		if en == name {
			return true
		}
	}
	return false
}

// numBindings returns the number of @group(0) @binding declarations in
// WGSL source, as max binding index + 1. Kernel argument binding is
// strictly positional, so this is the argument count the dispatch
// paths check buffer lists against.
func numBindings(code string) int {
	n := 0
	for _, m := range bindingRx.FindAllStringSubmatch(code, -1) {
		bi, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if bi+1 > n {
			n = bi + 1
		}
	}
	return n
}
