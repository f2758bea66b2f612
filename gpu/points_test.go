// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameLen(t *testing.T) {
	n, err := frameLen(4, 4, 4, 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = frameLen(0, 0, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = frameLen(4, 4, 3, 4)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}
