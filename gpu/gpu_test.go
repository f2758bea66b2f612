// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"
)

// testGPU returns a headless GPU and Device for tests, skipping the
// test when no adapter is available (e.g., CI without a software GPU).
func testGPU(t *testing.T) (*GPU, *Device) {
	t.Helper()
	gp, dev, err := NoDisplayGPU()
	if err != nil {
		t.Skipf("skipping: no GPU available: %v", err)
	}
	t.Cleanup(func() {
		dev.Release()
		gp.Release()
	})
	return gp, dev
}

// testRegistry returns a registry on a test device, released in cleanup
// order before the device.
func testRegistry(t *testing.T) *BufferRegistry {
	t.Helper()
	_, dev := testGPU(t)
	reg := NewBufferRegistry(dev)
	t.Cleanup(reg.Release)
	return reg
}
