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
	"io/fs"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/isgasho/scie/grammar"
)

// A Loader returns the raw grammar for a scope name.
//
type Loader interface {
	Load(scopeName string) (*grammar.RawGrammar, error)
}

// LoaderFunc adapts a function to the Loader interface.
//
type LoaderFunc func(scopeName string) (*grammar.RawGrammar, error)

// Load calls f(scopeName).
//
func (f LoaderFunc) Load(scopeName string) (*grammar.RawGrammar, error) {
	return f(scopeName)
}

// FSLoader returns a Loader that reads grammars from fsys. files maps scope
// names to file names; files may be in JSON or YAML format.
//
func FSLoader(fsys fs.FS, files map[string]string) Loader {
	return LoaderFunc(func(scopeName string) (*grammar.RawGrammar, error) {
		name, ok := files[scopeName]
		if !ok {
			return nil, errors.Errorf("no grammar for scope %q", scopeName)
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		raw, err := grammar.Parse(data)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		return raw, nil
	})
}

// A Registry loads and compiles grammars on first use and keeps them until
// they are explicitly reloaded. Includes of other grammars are resolved
// through the same Loader. A Registry is safe for concurrent use.
//
type Registry struct {
	loader Loader
	opts   []grammar.Option

	mu       sync.Mutex
	grammars map[string]*grammar.Grammar
}

// NewRegistry returns a new Registry. opts are passed to grammar.Compile.
//
func NewRegistry(loader Loader, opts ...grammar.Option) *Registry {
	return &Registry{
		loader:   loader,
		opts:     opts,
		grammars: make(map[string]*grammar.Grammar),
	}
}

// Grammar returns the compiled grammar for scopeName.
//
func (r *Registry) Grammar(scopeName string) (*grammar.Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.grammars[scopeName]; ok {
		return g, nil
	}
	raw, err := r.loader.Load(scopeName)
	if err != nil {
		metricGrammarLoadsTotal.WithLabelValues("load_error").Inc()
		return nil, errors.Wrapf(err, "loading grammar %q", scopeName)
	}
	if raw == nil {
		metricGrammarLoadsTotal.WithLabelValues("load_error").Inc()
		return nil, errors.Errorf("grammar %q not found", scopeName)
	}
	opts := append(r.opts[:len(r.opts):len(r.opts)], grammar.WithIncludeResolver(r.loader.Load))
	g, err := grammar.Compile(raw, opts...)
	if err != nil {
		metricGrammarLoadsTotal.WithLabelValues("compile_error").Inc()
		return nil, errors.Wrapf(err, "compiling grammar %q", scopeName)
	}
	metricGrammarLoadsTotal.WithLabelValues("ok").Inc()
	r.grammars[scopeName] = g
	return g, nil
}

// Reload drops the compiled grammar for scopeName. The next call to Grammar
// loads it again.
//
func (r *Registry) Reload(scopeName string) {
	r.mu.Lock()
	delete(r.grammars, scopeName)
	r.mu.Unlock()
}

// Scopes returns the scope names of the grammars currently loaded.
//
func (r *Registry) Scopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	scopes := make([]string, 0, len(r.grammars))
	for s := range r.grammars {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	return scopes
}
