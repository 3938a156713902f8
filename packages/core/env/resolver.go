package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/msgmap/packages/builtin"
	"github.com/abdul-hamid-achik/msgmap/packages/messagemap"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver expands {{expr}} placeholders against a message map, built-in
// functions and the OS environment.
type Resolver struct {
	mu       sync.RWMutex
	values   *messagemap.Map
	funcs    *builtin.Registry
	warnFunc WarnFunc
}

type ResolverOption func(*Resolver)

// WithRegistry replaces the default builtin registry.
func WithRegistry(reg *builtin.Registry) ResolverOption {
	return func(r *Resolver) {
		if reg != nil {
			r.funcs = reg
		}
	}
}

// WithWarnFunc sets the warning hook at construction.
func WithWarnFunc(fn WarnFunc) ResolverOption {
	return func(r *Resolver) {
		r.warnFunc = fn
	}
}

// NewResolver returns a Resolver reading from m. A nil m gets a fresh map.
func NewResolver(m *messagemap.Map, opts ...ResolverOption) *Resolver {
	if m == nil {
		m = messagemap.New()
	}
	r := &Resolver{values: m}
	for _, opt := range opts {
		opt(r)
	}
	if r.funcs == nil {
		r.funcs = builtin.NewRegistry()
	}
	return r
}

// Map returns the message map backing the resolver.
func (r *Resolver) Map() *messagemap.Map {
	return r.values
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.values.PutAll(vars)
}

func (r *Resolver) SetVariable(name string, value any) {
	r.values.Put(name, value)
}

// Lookup resolves a single placeholder body. Live map keys are refreshed on
// every call.
func (r *Resolver) Lookup(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", false
	}

	if strings.HasPrefix(expr, "$") {
		if val := os.Getenv(expr[1:]); val != "" {
			return val, true
		}
		return "", false
	}

	if strings.Contains(expr, "(") {
		if result, ok := r.funcs.Call(expr); ok {
			return fmt.Sprintf("%v", result), true
		}
		return "", false
	}

	if val, ok := r.values.Get(expr); ok {
		return fmt.Sprintf("%v", val), true
	}

	return r.lookupPath(expr)
}

// lookupPath resolves head.rest where head names a map entry holding JSON
// text or a nested map[string]any.
func (r *Resolver) lookupPath(expr string) (string, bool) {
	head, rest, found := strings.Cut(expr, ".")
	if !found || rest == "" {
		return "", false
	}

	val, ok := r.values.Get(head)
	if !ok {
		return "", false
	}

	switch v := val.(type) {
	case string:
		if !gjson.Valid(v) {
			return "", false
		}
		res := gjson.Get(v, rest)
		return res.String(), res.Exists()
	case []byte:
		if !gjson.ValidBytes(v) {
			return "", false
		}
		res := gjson.GetBytes(v, rest)
		return res.String(), res.Exists()
	case map[string]any:
		return walkMap(v, rest)
	}
	return "", false
}

func walkMap(m map[string]any, path string) (string, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = next[part]; !ok {
			return "", false
		}
	}
	return fmt.Sprintf("%v", cur), true
}

func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := r.Lookup(expr); ok {
			return val
		}

		switch {
		case strings.HasPrefix(expr, "$"):
			r.warn("unresolved environment variable: %s", expr)
		case strings.Contains(expr, "("):
			r.warn("unresolved function call: %s", expr)
		default:
			r.warn("unresolved variable: %s", expr)
		}
		return match
	})
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

// GetUnresolvedVariables returns the placeholder bodies in input that would
// not resolve, in order of first appearance. Live keys count as resolvable
// and are not refreshed.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var unresolved []string
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if seen[expr] || r.canResolve(expr) {
			continue
		}
		seen[expr] = true
		unresolved = append(unresolved, expr)
	}
	return unresolved
}

func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}

func (r *Resolver) canResolve(expr string) bool {
	if messagemap.IsLive(expr) || r.values.Has(expr) {
		return true
	}
	if strings.HasPrefix(expr, "$") || strings.Contains(expr, "(") || strings.Contains(expr, ".") {
		_, ok := r.Lookup(expr)
		return ok
	}
	return false
}

func (r *Resolver) HasVariable(name string) bool {
	return r.values.Has(name)
}

// GetVariable reads name through the message map, refreshing live keys.
func (r *Resolver) GetVariable(name string) (any, bool) {
	return r.values.Get(name)
}

// Clone returns a resolver over a copy of the map sharing the same functions
// and warning hook.
func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Resolver{
		values:   r.values.Clone(),
		funcs:    r.funcs,
		warnFunc: r.warnFunc,
	}
}
