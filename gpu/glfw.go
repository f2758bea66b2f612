// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package gpu

import (
	"cogentcore.org/compute/base/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// note: this file contains the glfw dependencies, for desktop platform builds.

var glfwInitialized = false

// Init initializes the windowing system for display-enabled use.
// It is called automatically by [NewRenderer]; call directly only when
// managing windows yourself.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	if glfwInitialized {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return errors.Log(err)
	}
	glfwInitialized = true
	return nil
}

// Terminate shuts down the windowing system; call as the last thing
// before quitting, after all Renderers have been released.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	if !glfwInitialized {
		return
	}
	glfw.Terminate()
	glfwInitialized = false
}
