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
	"fmt"
	"sort"
	"strconv"
)

// RawGrammar is a grammar definition as written by its author, before
// includes are resolved and patterns compiled.
//
type RawGrammar struct {
	ScopeName      string
	Name           string
	FileTypes      []string
	FirstLineMatch string
	Patterns       []*RawRule
	Repository     map[string]*RawRule
}

// RawRule is a single rule of a RawGrammar. Which fields are set determines
// the kind of rule: Include, Match, Begin with End or While, or a bare list
// of Patterns.
//
type RawRule struct {
	Include             string
	Name                string
	ContentName         string
	Match               string
	Begin               string
	End                 string
	While               string
	Captures            map[int]*RawRule
	BeginCaptures       map[int]*RawRule
	EndCaptures         map[int]*RawRule
	WhileCaptures       map[int]*RawRule
	Patterns            []*RawRule
	Repository          map[string]*RawRule
	ApplyEndPatternLast bool

	path string // location in the source document
}

// Path returns the location of the rule in the document it was decoded from.
//
func (r *RawRule) Path() string {
	return r.path
}

// Decode converts a generic grammar document, as produced by decoding JSON
// or YAML into an interface{}, into a RawGrammar. Values of the wrong type
// are reported as a *GrammarError naming their location. Keys that play no
// part in tokenization are ignored.
//
func Decode(doc interface{}) (*RawGrammar, error) {
	m, err := asMap(doc, "")
	if err != nil {
		return nil, err
	}
	g := &RawGrammar{}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"scopeName", &g.ScopeName},
		{"name", &g.Name},
		{"firstLineMatch", &g.FirstLineMatch},
	} {
		if *f.dst, err = optString(m, f.key, ""); err != nil {
			return nil, err
		}
	}
	if v, ok := m["fileTypes"]; ok {
		l, err := asList(v, "fileTypes")
		if err != nil {
			return nil, err
		}
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, typeError(fmt.Sprintf("fileTypes[%d]", i), "string", e)
			}
			g.FileTypes = append(g.FileTypes, s)
		}
	}
	if g.Patterns, err = decodePatterns(m, "patterns", ""); err != nil {
		return nil, err
	}
	if g.Repository, err = decodeRepository(m, "repository", ""); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeRule(v interface{}, path string) (*RawRule, error) {
	m, err := asMap(v, path)
	if err != nil {
		return nil, err
	}
	r := &RawRule{path: path}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"include", &r.Include},
		{"name", &r.Name},
		{"contentName", &r.ContentName},
		{"match", &r.Match},
		{"begin", &r.Begin},
		{"end", &r.End},
		{"while", &r.While},
	} {
		if *f.dst, err = optString(m, f.key, path); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		key string
		dst *map[int]*RawRule
	}{
		{"captures", &r.Captures},
		{"beginCaptures", &r.BeginCaptures},
		{"endCaptures", &r.EndCaptures},
		{"whileCaptures", &r.WhileCaptures},
	} {
		if *f.dst, err = decodeCaptures(m, f.key, path); err != nil {
			return nil, err
		}
	}
	if r.Patterns, err = decodePatterns(m, "patterns", path); err != nil {
		return nil, err
	}
	if r.Repository, err = decodeRepository(m, "repository", path); err != nil {
		return nil, err
	}
	if v, ok := m["applyEndPatternLast"]; ok {
		switch b := v.(type) {
		case bool:
			r.ApplyEndPatternLast = b
		case float64:
			r.ApplyEndPatternLast = b != 0
		case int:
			r.ApplyEndPatternLast = b != 0
		default:
			return nil, typeError(join(path, "applyEndPatternLast"), "boolean", v)
		}
	}
	return r, nil
}

func decodePatterns(m map[string]interface{}, key, path string) ([]*RawRule, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	path = join(path, key)
	l, err := asList(v, path)
	if err != nil {
		return nil, err
	}
	rules := make([]*RawRule, 0, len(l))
	for i, e := range l {
		r, err := decodeRule(e, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func decodeRepository(m map[string]interface{}, key, path string) (map[string]*RawRule, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	path = join(path, key)
	rm, err := asMap(v, path)
	if err != nil {
		return nil, err
	}
	repo := make(map[string]*RawRule, len(rm))
	for _, name := range sortedKeys(rm) {
		r, err := decodeRule(rm[name], join(path, name))
		if err != nil {
			return nil, err
		}
		repo[name] = r
	}
	return repo, nil
}

// decodeCaptures accepts both the usual map keyed by group number and a
// list indexed by group number.
func decodeCaptures(m map[string]interface{}, key, path string) (map[int]*RawRule, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	path = join(path, key)
	caps := make(map[int]*RawRule)
	switch c := v.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(c) {
			n, err := strconv.Atoi(k)
			if err != nil || n < 0 {
				return nil, errorf(path, "capture key %q is not a group number", k)
			}
			r, err := decodeRule(c[k], join(path, k))
			if err != nil {
				return nil, err
			}
			caps[n] = r
		}
	case []interface{}:
		for i, e := range c {
			r, err := decodeRule(e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			caps[i] = r
		}
	default:
		return nil, typeError(path, "map or list", v)
	}
	return caps, nil
}

func asMap(v interface{}, path string) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, typeError(path, "map", v)
	}
	return m, nil
}

func asList(v interface{}, path string) ([]interface{}, error) {
	l, ok := v.([]interface{})
	if !ok {
		return nil, typeError(path, "list", v)
	}
	return l, nil
}

func optString(m map[string]interface{}, key, path string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(join(path, key), "string", v)
	}
	return s, nil
}

func typeError(path, want string, got interface{}) *GrammarError {
	return errorf(path, "expected %s, got %s", want, kindOf(got))
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "map"
	case []interface{}:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
