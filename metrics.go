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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scie",
		Subsystem: "tokenizer",
		Name:      "lines_total",
		Help:      "Number of lines tokenized, by grammar scope",
	}, []string{"scope"})
	metricPatternErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scie",
		Subsystem: "tokenizer",
		Name:      "pattern_errors_total",
		Help:      "Number of end or while patterns that failed to compile after back reference substitution",
	}, []string{"scope"})
	metricRegexTimeoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scie",
		Subsystem: "tokenizer",
		Name:      "regex_timeouts_total",
		Help:      "Number of pattern searches abandoned because they failed or ran past their match timeout",
	}, []string{"scope"})
	metricGrammarLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scie",
		Subsystem: "registry",
		Name:      "grammar_loads_total",
		Help:      "Number of grammar loads by the registry, by result",
	}, []string{"result"})
)
