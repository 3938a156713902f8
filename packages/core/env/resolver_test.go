package env

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/msgmap/packages/builtin"
	"github.com/abdul-hamid-achik/msgmap/packages/messagemap"
)

var epoch = time.UnixMilli(1_700_000_000_000)

func seqIDs() messagemap.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func stepClock() messagemap.ClockFunc {
	calls := 0
	return func() time.Time {
		t := epoch.Add(time.Duration(calls) * time.Millisecond)
		calls++
		return t
	}
}

// newTestResolver seeds uuid=id-1, dynamic_uuid=id-2, current_ts=epoch,
// initial_ts=epoch+1ms.
func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	m := messagemap.New(messagemap.WithIDFunc(seqIDs()), messagemap.WithClock(stepClock()))
	reg := builtin.NewRegistry(
		builtin.WithIDFunc(func() string { return "fn-uuid" }),
		builtin.WithClock(func() time.Time { return epoch }),
	)
	return NewResolver(m, WithRegistry(reg))
}

func TestResolverResolve(t *testing.T) {
	initial := fmt.Sprint(epoch.Add(time.Millisecond).UnixMilli())

	tests := []struct {
		name      string
		input     string
		variables map[string]any
		env       map[string]string
		expected  string
	}{
		{
			name:     "no placeholders",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:      "simple variable",
			input:     "hello {{name}}",
			variables: map[string]any{"name": "world"},
			expected:  "hello world",
		},
		{
			name:      "whitespace inside braces",
			input:     "{{ greeting }} {{name}}!",
			variables: map[string]any{"greeting": "Hello", "name": "World"},
			expected:  "Hello World!",
		},
		{
			name:     "stable uuid",
			input:    "{{uuid}}/{{uuid}}",
			expected: "id-1/id-1",
		},
		{
			name:     "dynamic uuid per occurrence",
			input:    "{{dynamic_uuid}} {{dynamic_uuid}}",
			expected: "id-3 id-4",
		},
		{
			name:     "timestamp aliases initial_ts",
			input:    "{{timestamp}}={{initial_ts}}",
			expected: initial + "=" + initial,
		},
		{
			name:     "builtin function",
			input:    "{{uuid()}} at {{timestampMs()}}",
			expected: fmt.Sprintf("fn-uuid at %d", epoch.UnixMilli()),
		},
		{
			name:     "environment variable",
			input:    "region={{$MSGMAP_TEST_REGION}}",
			env:      map[string]string{"MSGMAP_TEST_REGION": "eu"},
			expected: "region=eu",
		},
		{
			name:      "json path",
			input:     "{{payload.user.name}} #{{payload.items.#}}",
			variables: map[string]any{"payload": `{"user":{"name":"ada"},"items":[1,2,3]}`},
			expected:  "ada #3",
		},
		{
			name:      "json bytes path",
			input:     "{{raw.id}}",
			variables: map[string]any{"raw": []byte(`{"id":17}`)},
			expected:  "17",
		},
		{
			name:      "nested map path",
			input:     "{{meta.owner.team}}",
			variables: map[string]any{"meta": map[string]any{"owner": map[string]any{"team": "core"}}},
			expected:  "core",
		},
		{
			name:      "integer value",
			input:     "retries={{retries}}",
			variables: map[string]any{"retries": 3},
			expected:  "retries=3",
		},
		{
			name:     "unresolved stays as-is",
			input:    "hello {{unknown}} {{nope()}} {{$MSGMAP_TEST_UNSET}} {{payload.x}}",
			expected: "hello {{unknown}} {{nope()}} {{$MSGMAP_TEST_UNSET}} {{payload.x}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			r := newTestResolver(t)
			r.SetVariables(tt.variables)

			assert.Equal(t, tt.expected, r.Resolve(tt.input))
		})
	}
}

func TestResolverLiveKeyWritesBack(t *testing.T) {
	r := newTestResolver(t)

	out := r.Resolve("{{current_ts}}")

	stored, ok := r.Map().Peek(messagemap.KeyCurrentTS)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprint(stored), out)
	assert.Equal(t, fmt.Sprint(epoch.Add(2*time.Millisecond).UnixMilli()), out)
}

func TestResolverWarnings(t *testing.T) {
	r := newTestResolver(t)
	var warnings []string
	r.SetWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	r.Resolve("{{missing}} {{$MSGMAP_TEST_UNSET}} {{nope()}} {{uuid}}")

	assert.Equal(t, []string{
		"unresolved variable: missing",
		"unresolved environment variable: $MSGMAP_TEST_UNSET",
		"unresolved function call: nope()",
	}, warnings)
}

func TestResolverGetUnresolvedVariables(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		variables map[string]any
		expected  []string
	}{
		{
			name:     "no placeholders",
			input:    "hello world",
			expected: nil,
		},
		{
			name:      "resolved variable",
			input:     "{{foo}}",
			variables: map[string]any{"foo": "bar"},
			expected:  nil,
		},
		{
			name:     "reserved keys always resolve",
			input:    "{{uuid}} {{dynamic_uuid}} {{current_ts}} {{initial_ts}} {{timestamp}}",
			expected: nil,
		},
		{
			name:     "multiple unresolved",
			input:    "{{foo}} and {{bar}} and {{foo}}",
			expected: []string{"foo", "bar"},
		},
		{
			name:      "mixed",
			input:     "{{foo}} and {{bar}} and {{baz}}",
			variables: map[string]any{"bar": "middle"},
			expected:  []string{"foo", "baz"},
		},
		{
			name:     "dotted path unresolved",
			input:    "{{setup.projectId}}/tasks",
			expected: []string{"setup.projectId"},
		},
		{
			name:      "dotted path resolved",
			input:     "{{setup.projectId}}/tasks",
			variables: map[string]any{"setup": `{"projectId":"p1"}`},
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t)
			r.SetVariables(tt.variables)

			assert.Equal(t, tt.expected, r.GetUnresolvedVariables(tt.input))
			assert.Equal(t, tt.expected != nil, r.HasUnresolvedVariables(tt.input))
		})
	}
}

func TestResolverUnresolvedDoesNotRefreshLiveKeys(t *testing.T) {
	r := newTestResolver(t)

	r.GetUnresolvedVariables("{{dynamic_uuid}}")

	v, _ := r.Map().Peek(messagemap.KeyDynamicUUID)
	assert.Equal(t, "id-2", v)
}

func TestResolverResolveAll(t *testing.T) {
	r := newTestResolver(t)
	r.SetVariable("host", "example.com")

	got := r.ResolveAll(map[string]string{
		"url": "https://{{host}}/{{uuid}}",
		"raw": "plain",
	})

	assert.Equal(t, map[string]string{
		"url": "https://example.com/id-1",
		"raw": "plain",
	}, got)
}

func TestResolverVariables(t *testing.T) {
	r := newTestResolver(t)
	r.SetVariable("a", 1)

	assert.True(t, r.HasVariable("a"))
	assert.True(t, r.HasVariable(messagemap.KeyTimestamp))
	assert.False(t, r.HasVariable("b"))

	v, ok := r.GetVariable("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestResolverClone(t *testing.T) {
	r := newTestResolver(t)
	r.SetVariable("a", "original")

	c := r.Clone()
	c.SetVariable("a", "changed")

	assert.Equal(t, "original", r.Resolve("{{a}}"))
	assert.Equal(t, "changed", c.Resolve("{{a}}"))
	assert.Equal(t, r.Resolve("{{uuid}}"), c.Resolve("{{uuid}}"))
}

func TestNewResolverNilMap(t *testing.T) {
	r := NewResolver(nil)
	require.NotNil(t, r.Map())
	assert.True(t, r.HasVariable(messagemap.KeyUUID))
}
