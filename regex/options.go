// Copyright 2026 The scie Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package regex

import (
	"time"

	"github.com/dlclark/regexp2"
)

type options struct {
	timeout time.Duration
	flags   regexp2.RegexOptions
}

// An Option is a configuration option for Compile.
//
type Option func(*options)

// MatchTimeout sets the maximum duration of a single search with the
// compiled pattern. A search that runs longer fails with an error instead of
// returning a match. Zero, the default, means no limit.
//
func MatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// IgnoreCase makes the pattern match case-insensitively.
//
func IgnoreCase() Option {
	return func(o *options) {
		o.flags |= regexp2.IgnoreCase
	}
}

func defOptions() options {
	// ^ and $ are line anchors in Oniguruma's Ruby syntax.
	return options{flags: regexp2.Multiline}
}
