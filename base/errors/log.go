// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import "log/slog"

// Log takes the given error and logs it if it is non-nil,
// returning it either way. The point is to allow an error
// to be logged at the site where it occurs, while still
// returning it up the call stack.
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error(), "caller", CallerInfo())
	}
	return err
}

// Log1 is a version of [Log] that takes an additional argument
// of any type before the error, and returns that argument,
// for convenient one-line handling of function call results.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error(), "caller", CallerInfo())
	}
	return v
}
