// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryIDs(t *testing.T) {
	reg := testRegistry(t)
	a, err := reg.Allocate(Float32, 4)
	assert.NoError(t, err)
	assert.Equal(t, 1, a)
	b, err := reg.AllocateWithData(Int32, []float64{1, 2})
	assert.NoError(t, err)
	assert.Equal(t, 2, b)
	c, err := reg.AllocateScalar(Float32, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestRegistryRoundtrip(t *testing.T) {
	reg := testRegistry(t)
	vals := []float64{1, -2, 3.5, 0}
	id, err := reg.AllocateWithData(Float32, vals)
	assert.NoError(t, err)
	got, err := reg.Download(id)
	assert.NoError(t, err)
	assert.Equal(t, vals, got)

	iid, err := reg.AllocateWithData(Int32, []float64{7.9, -7.9})
	assert.NoError(t, err)
	got, err = reg.Download(iid)
	assert.NoError(t, err)
	assert.Equal(t, []float64{7, -7}, got)
}

func TestRegistryZeroFilled(t *testing.T) {
	reg := testRegistry(t)
	id, err := reg.Allocate(Uint32, 5)
	assert.NoError(t, err)
	got, err := reg.Download(id)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, got)

	_, err = reg.Allocate(Float32, -2)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestRegistryUpload(t *testing.T) {
	reg := testRegistry(t)
	id, err := reg.Allocate(Float32, 3)
	assert.NoError(t, err)
	assert.NoError(t, reg.Upload(id, []float64{4, 5, 6}))
	got, err := reg.Download(id)
	assert.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, got)

	// a length mismatch fails and leaves the contents alone.
	err = reg.Upload(id, []float64{1, 2})
	assert.ErrorIs(t, err, ErrSizeMismatch)
	got, err = reg.Download(id)
	assert.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, got)
}

func TestRegistryScalar(t *testing.T) {
	reg := testRegistry(t)
	id, err := reg.AllocateScalar(Float32, 2.5)
	assert.NoError(t, err)
	sc, err := reg.IsScalar(id)
	assert.NoError(t, err)
	assert.True(t, sc)
	n, err := reg.ElementCount(id)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoError(t, reg.SetScalar(id, -1))
	got, err := reg.Download(id)
	assert.NoError(t, err)
	assert.Equal(t, []float64{-1}, got)

	// SetScalar is rejected on a one-element array buffer.
	arr, err := reg.AllocateWithData(Float32, []float64{9})
	assert.NoError(t, err)
	sc, err = reg.IsScalar(arr)
	assert.NoError(t, err)
	assert.False(t, sc)
	assert.ErrorIs(t, reg.SetScalar(arr, 3), ErrSizeMismatch)
}

func TestRegistryUnknownID(t *testing.T) {
	reg := testRegistry(t)
	_, err := reg.Download(42)
	assert.ErrorIs(t, err, ErrUnknownBufferID)
	assert.ErrorIs(t, reg.Upload(42, nil), ErrUnknownBufferID)
	assert.ErrorIs(t, reg.SetScalar(42, 0), ErrUnknownBufferID)
	_, err = reg.RawHandle(42)
	assert.ErrorIs(t, err, ErrUnknownBufferID)
	_, err = reg.ElementCount(0)
	assert.ErrorIs(t, err, ErrUnknownBufferID)
}

func TestRegistryEmptyBuffer(t *testing.T) {
	reg := testRegistry(t)
	id, err := reg.AllocateWithData(Float32, nil)
	assert.NoError(t, err)
	got, err := reg.Download(id)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, reg.Upload(id, nil))
}

func TestRegistryFromDescriptor(t *testing.T) {
	reg := testRegistry(t)
	bd := BufferScalar("alpha", Float32, 3)
	id, err := reg.FromDescriptor(&bd)
	assert.NoError(t, err)
	sc, err := reg.IsScalar(id)
	assert.NoError(t, err)
	assert.True(t, sc)
	got, err := reg.Download(id)
	assert.NoError(t, err)
	assert.Equal(t, []float64{3}, got)
}
