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

package grammar

import (
	"log/slog"
	"time"
)

type options struct {
	log     *slog.Logger
	timeout time.Duration
	resolve func(scopeName string) (*RawGrammar, error)
}

// An Option is a configuration option for Compile.
//
type Option func(*options)

// WithLogger sets the logger used by the compiler and by tokenizers running
// the compiled grammar. The default is slog.Default().
//
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithMatchTimeout limits the duration of a single regular expression search.
// This guards interactive callers against patterns with catastrophic
// backtracking. A search that times out is treated as not matching.
//
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithIncludeResolver sets the function used to look up other grammars by
// scope name when a rule includes "source.other" or "source.other#key".
// Without a resolver, such includes are reported as errors.
//
func WithIncludeResolver(f func(scopeName string) (*RawGrammar, error)) Option {
	return func(o *options) {
		o.resolve = f
	}
}

func defOptions() options {
	return options{log: slog.Default()}
}
