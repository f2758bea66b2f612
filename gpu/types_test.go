// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSizes(t *testing.T) {
	for _, tp := range []Types{Float32, Int32, Uint32} {
		assert.Equal(t, 4, tp.Bytes(), tp.String())
	}
}

func TestDeviceBytesRoundtrip(t *testing.T) {
	vals := []float64{0, 1, -2, 3.5, 1e6}
	got := fromDeviceBytes(Float32, toDeviceBytes(Float32, vals))
	assert.Equal(t, vals, got)

	ivals := []float64{0, 1, -2, 2147483647, -2147483648}
	got = fromDeviceBytes(Int32, toDeviceBytes(Int32, ivals))
	assert.Equal(t, ivals, got)

	uvals := []float64{0, 1, 4294967295}
	got = fromDeviceBytes(Uint32, toDeviceBytes(Uint32, uvals))
	assert.Equal(t, uvals, got)
}

func TestDeviceBytesTruncation(t *testing.T) {
	// integer types drop the fractional part, as in a C cast.
	got := fromDeviceBytes(Int32, toDeviceBytes(Int32, []float64{3.9, -3.9}))
	assert.Equal(t, []float64{3, -3}, got)

	// float32 drops excess float64 precision but widens back exactly.
	in := []float64{0.1}
	got = fromDeviceBytes(Float32, toDeviceBytes(Float32, in))
	assert.Equal(t, float64(float32(0.1)), got[0])
	assert.NotEqual(t, in[0], got[0])
}

func TestDeviceBytesEmpty(t *testing.T) {
	assert.Empty(t, fromDeviceBytes(Float32, toDeviceBytes(Float32, nil)))
}
