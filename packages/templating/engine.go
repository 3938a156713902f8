package templating

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/valyala/fasttemplate"

	"github.com/abdul-hamid-achik/msgmap/packages/core/env"
)

// ErrUnresolved is returned by a strict Engine when a tag cannot be resolved.
var ErrUnresolved = errors.New("unresolved placeholder")

// Engine expands templates through a Resolver.
type Engine struct {
	StartTag string
	EndTag   string

	// Strict turns unresolved tags into errors.
	Strict bool

	Resolver *env.Resolver

	// Warn is called for each unresolved tag in non-strict mode.
	Warn env.WarnFunc

	// Stdout receives ExpandFile output when no output path is given.
	Stdout io.Writer
}

// NewEngine returns an Engine with default tags.
func NewEngine(r *env.Resolver) *Engine {
	return &Engine{Resolver: r}
}

// tags returns the configured start/end tags, falling
// back to double-brace defaults.
func (en *Engine) tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = "{{"
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = "}}"
	}

	return startTag, endTag
}

// Execute expands tpl and writes the result to w.
func (en *Engine) Execute(w io.Writer, tpl string) error {
	const errCtx = "executing template"

	if en.Resolver == nil {
		return fmt.Errorf("%s: no resolver configured", errCtx)
	}

	startTag, endTag := en.tags()

	_, err := fasttemplate.ExecuteFunc(tpl, startTag, endTag, w, en.tagFunc(startTag, endTag))
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// ExpandString expands tpl and returns the result.
func (en *Engine) ExpandString(tpl string) (string, error) {
	var buf bytes.Buffer
	if err := en.Execute(&buf, tpl); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (en *Engine) tagFunc(startTag, endTag string) fasttemplate.TagFunc {
	return func(w io.Writer, tag string) (int, error) {
		if val, ok := en.Resolver.Lookup(tag); ok {
			return w.Write([]byte(val))
		}

		if en.Strict {
			return 0, fmt.Errorf("%w: %s%s%s", ErrUnresolved, startTag, tag, endTag)
		}

		if en.Warn != nil {
			en.Warn("unresolved placeholder: %s", tag)
		}
		return io.WriteString(w, startTag+tag+endTag)
	}
}

// ExpandFile reads a template, expands it, and writes the result. If outPath
// is empty it writes to Stdout (os.Stdout when unset). The output file is
// replaced atomically, so a failed expansion leaves any previous output intact.
func (en *Engine) ExpandFile(tplPath, outPath string) error {
	const errCtx = "expanding template"

	content, err := os.ReadFile(tplPath) //nolint:gosec // path from CLI args
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var buf bytes.Buffer
	if err := en.Execute(&buf, string(content)); err != nil {
		return fmt.Errorf("%s %s: %w", errCtx, tplPath, err)
	}

	if outPath == "" {
		out := en.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := buf.WriteTo(out); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
		return nil
	}

	_, statErr := os.Stat(outPath)
	isNew := errors.Is(statErr, os.ErrNotExist)

	if err := atomic.WriteFile(outPath, &buf); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if isNew {
		if err := os.Chmod(outPath, 0o644); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}
