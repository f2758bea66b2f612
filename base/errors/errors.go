// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error handling helpers,
// extending the standard library errors package.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target, and if one is
// found, sets target to that error value and returns true. Otherwise, it
// returns false.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type contains an Unwrap method returning error. Otherwise, Unwrap returns nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// CallerInfo returns string information about the caller of the
// function that called CallerInfo, including file and line number.
func CallerInfo() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	res := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		res = fn.Name() + " "
	}
	return res + "[" + file + ":" + strconv.Itoa(line) + "]"
}

// Must panics if the given error is non-nil.
func Must(err error) {
	if err != nil {
		panic(fmt.Errorf("%s %w", CallerInfo(), err))
	}
}

// Must1 panics if the given error is non-nil,
// and returns the first argument otherwise.
func Must1[T any](v T, err error) T {
	Must(err)
	return v
}

// Ignore1 ignores the given error and returns the first argument.
// It is useful in cases where the error is known to always be nil,
// or irrelevant to the caller.
func Ignore1[T any](v T, err error) T {
	return v
}
