// Package pretty recognizes common C++ data structures in debuggee
// memory and renders them as one-line summaries, console trees and
// node/edge outlines. Recognition is a registry of regular expressions
// over type names, backed by member-shape heuristics for types no
// pattern claims.
package pretty

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/XtremeXSPC/dsviz/pkg/logflags"
	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// SummaryFunc renders a recognized variable as a one-line summary.
type SummaryFunc func(v *target.Variable, opts *Options) string

// ChildrenFunc is a synthetic provider: it exposes the ordered
// elements of a recognized container as child variables.
type ChildrenFunc func(v *target.Variable, opts *Options) ([]*target.Variable, error)

type rule struct {
	pattern  string
	re       *regexp.Regexp
	summary  SummaryFunc
	children ChildrenFunc
}

// Registry matches runtime type names to formatting strategies.
// Registration order is priority order: the first matching pattern
// wins.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns an empty registry. Most callers want
// NewDefaultRegistry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterSummary attaches a summary provider to a type name pattern.
func (r *Registry) RegisterSummary(pattern string, fn SummaryFunc) error {
	return r.register(pattern, fn, nil)
}

// RegisterChildren attaches a synthetic children provider to a type
// name pattern.
func (r *Registry) RegisterChildren(pattern string, fn ChildrenFunc) error {
	return r.register(pattern, nil, fn)
}

func (r *Registry) register(pattern string, sfn SummaryFunc, cfn ChildrenFunc) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid type pattern %q: %w", pattern, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rules {
		if r.rules[i].pattern == pattern {
			if sfn != nil {
				r.rules[i].summary = sfn
			}
			if cfn != nil {
				r.rules[i].children = cfn
			}
			return nil
		}
	}
	logflags.RegistryLogger().Debugf("registered pattern %q", pattern)
	r.rules = append(r.rules, rule{pattern: pattern, re: re, summary: sfn, children: cfn})
	return nil
}

// Patterns returns the registered type name patterns in priority order.
func (r *Registry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.rules))
	for i := range r.rules {
		out[i] = r.rules[i].pattern
	}
	return out
}

func (r *Registry) lookup(typeName string) *rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.rules {
		if r.rules[i].re.MatchString(typeName) {
			return &r.rules[i]
		}
	}
	return nil
}

// Summary renders v using the first matching registered provider, the
// shape heuristics, or the generic struct fallback. It never fails:
// malformed layouts degrade to bracketed markers inside the summary.
func (r *Registry) Summary(v *target.Variable, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	if rl := r.lookup(v.TypeName()); rl != nil && rl.summary != nil {
		logflags.RegistryLogger().Debugf("type %s matched pattern %q", v.TypeName(), rl.pattern)
		return rl.summary(v, opts)
	}
	switch detectShape(v) {
	case shapeVector:
		return vectorSummary(v, opts)
	case shapeLinear:
		return linearSummary(v, opts)
	case shapeTree:
		return treeSummary(v, opts)
	case shapeGraph:
		return graphSummary(v, opts)
	}
	return fallbackSummary(v, opts)
}

// Children returns the synthetic children of v: container elements for
// recognized containers, plain struct members otherwise.
func (r *Registry) Children(v *target.Variable, opts *Options) ([]*target.Variable, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if rl := r.lookup(v.TypeName()); rl != nil && rl.children != nil {
		return rl.children(v, opts)
	}
	switch detectShape(v) {
	case shapeVector:
		return vectorChildren(v, opts)
	case shapeLinear:
		return linearChildren(v, opts)
	case shapeTree:
		return treeChildren(v, opts)
	case shapeGraph:
		return graphChildren(v, opts)
	}
	children := make([]*target.Variable, 0, v.NumChildren())
	for i := 0; i < v.NumChildren(); i++ {
		child, err := v.Child(i)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// Built-in type name patterns, mirroring the common naming of exercise
// and interview-style C++ containers plus libc++/libstdc++ vectors.
const (
	listPattern   = `^(Custom|My)?(Linked|Doubly|Singly)?(Linked)?List<.*>$`
	stackPattern  = `^(Custom|My)?Stack<.*>$`
	queuePattern  = `^(Custom|My)?Queue<.*>$`
	vectorPattern = `^std::(__1::)?vector<.*>$`
	treePattern   = `^(Custom|My)?(Binary|Search|BinarySearch|AVL|RB)?Tree<.*>$`
	graphPattern  = `^(Custom|My)?(Di)?Graph<.*>$`
)

// NewDefaultRegistry returns a registry with all built-in formatters
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, pattern := range []string{listPattern, stackPattern, queuePattern} {
		mustRegister(r.RegisterSummary(pattern, linearSummary))
		mustRegister(r.RegisterChildren(pattern, linearChildren))
	}
	mustRegister(r.RegisterSummary(vectorPattern, vectorSummary))
	mustRegister(r.RegisterChildren(vectorPattern, vectorChildren))
	mustRegister(r.RegisterSummary(treePattern, treeSummary))
	mustRegister(r.RegisterChildren(treePattern, treeChildren))
	mustRegister(r.RegisterSummary(graphPattern, graphSummary))
	mustRegister(r.RegisterChildren(graphPattern, graphChildren))
	return r
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
