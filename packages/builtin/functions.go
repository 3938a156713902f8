package builtin

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/msgmap/packages/messagemap"
)

type Func func(args []string) any

type Registry struct {
	funcs map[string]Func
	newID messagemap.IDFunc
	now   messagemap.ClockFunc
}

type Option func(*Registry)

// WithIDFunc sets the identifier source behind uuid().
func WithIDFunc(fn messagemap.IDFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithClock sets the clock behind now(), timestamp(), timestampMs() and date().
func WithClock(fn messagemap.ClockFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.now = fn
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		newID: messagemap.NewUUID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["now"] = r.funcNow
	r.funcs["timestamp"] = r.funcTimestamp
	r.funcs["timestampMs"] = r.funcTimestampMs
	r.funcs["date"] = r.funcDate
	r.funcs["uuid"] = r.funcUUID
	r.funcs["random"] = funcRandom
	r.funcs["randomString"] = funcRandomString
	r.funcs["base64"] = unary(func(s string) any {
		return base64.StdEncoding.EncodeToString([]byte(s))
	})
	r.funcs["base64Decode"] = unary(func(s string) any {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return ""
		}
		return string(decoded)
	})
	r.funcs["md5"] = unary(func(s string) any {
		sum := md5.Sum([]byte(s))
		return hex.EncodeToString(sum[:])
	})
	r.funcs["sha256"] = unary(func(s string) any {
		sum := sha256.Sum256([]byte(s))
		return hex.EncodeToString(sum[:])
	})
	r.funcs["urlEncode"] = unary(func(s string) any { return url.QueryEscape(s) })
	r.funcs["urlDecode"] = unary(func(s string) any {
		decoded, err := url.QueryUnescape(s)
		if err != nil {
			return s
		}
		return decoded
	})
	r.funcs["upper"] = unary(func(s string) any { return strings.ToUpper(s) })
	r.funcs["lower"] = unary(func(s string) any { return strings.ToLower(s) })
}

// unary adapts a single-argument function; a missing argument yields "".
func unary(fn func(string) any) Func {
	return func(args []string) any {
		if len(args) < 1 {
			return ""
		}
		return fn(args[0])
	}
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates expr of the form name(arg, ...). It reports false when expr
// is not a call or names an unknown function.
func (r *Registry) Call(expr string) (any, bool) {
	matches := funcCallPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if matches == nil {
		return nil, false
	}

	fn, ok := r.funcs[matches[1]]
	if !ok {
		return nil, false
	}

	var args []string
	if matches[2] != "" {
		args = parseArgs(matches[2])
	}

	return fn(args), true
}

func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
		case inQuote && ch == quoteChar:
			inQuote = false
			quoteChar = 0
		case !inQuote && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}

	return args
}

func (r *Registry) funcNow(_ []string) any {
	return r.now().UTC().Format(time.RFC3339)
}

func (r *Registry) funcTimestamp(_ []string) any {
	return r.now().Unix()
}

func (r *Registry) funcTimestampMs(_ []string) any {
	return r.now().UnixMilli()
}

func (r *Registry) funcDate(args []string) any {
	layout := "2006-01-02"
	if len(args) >= 1 && args[0] != "" {
		layout = args[0]
	}
	return r.now().UTC().Format(layout)
}

func (r *Registry) funcUUID(_ []string) any {
	return r.newID()
}

func intArg(fn string, args []string, i, def int) int {
	if len(args) <= i {
		return def
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		slog.Warn("builtin argument is not a valid integer", "func", fn, "arg", args[i])
		return def
	}
	return v
}

func funcRandom(args []string) any {
	lo, hi := 0, 100
	if len(args) >= 2 {
		lo = intArg("random", args, 0, lo)
		hi = intArg("random", args, 1, hi)
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	// hi-lo can exceed MaxInt, so the span is unsigned.
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return int(rand.Uint64())
	}
	return lo + int(rand.Uint64N(span+1))
}

// MaxRandomStringLength caps randomString(n).
const MaxRandomStringLength = 4096

func funcRandomString(args []string) any {
	length := intArg("randomString", args, 0, 16)
	if length < 0 {
		length = 0
	}
	if length > MaxRandomStringLength {
		slog.Warn("randomString length clamped", "requested", length, "max", MaxRandomStringLength)
		length = MaxRandomStringLength
	}
	return randomString(length, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = charset[rand.IntN(len(charset))]
	}
	return string(result)
}
