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

package scie

import (
	"fmt"

	"github.com/isgasho/scie/grammar"
)

// PatternError reports an end or while pattern that could not be compiled
// once the begin captures it refers to were substituted. The tokenizer logs
// these errors and treats the pattern as never matching; they are never
// returned.
//
type PatternError struct {
	RuleID grammar.RuleID
	Source string
	Err    error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rule %d: pattern %q: %v", e.RuleID, e.Source, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
