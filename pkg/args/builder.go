package args

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// ErrUnsupportedType is returned by Put for type tokens with no packing rule.
var ErrUnsupportedType = errors.New("unsupported argument type")

// Builder packs arguments the way the host does. Words are 8-byte aligned.
type Builder struct {
	words []uint64
}

// NewBuilder creates an empty builder with room for n arguments
func NewBuilder(n int) *Builder {
	return &Builder{words: make([]uint64, 0, n)}
}

// PutInt appends an int
func (b *Builder) PutInt(v chuck.Int) *Builder {
	b.words = append(b.words, uint64(v))
	return b
}

// PutUint appends a uint
func (b *Builder) PutUint(v chuck.Uint) *Builder {
	b.words = append(b.words, v)
	return b
}

// PutFloat appends a float
func (b *Builder) PutFloat(v chuck.Float) *Builder {
	b.words = append(b.words, math.Float64bits(v))
	return b
}

// PutObject appends an object reference
func (b *Builder) PutObject(v chuck.Object) *Builder {
	b.words = append(b.words, uint64(v))
	return b
}

// Put appends a value for the given type token. Numeric Go values are
// converted; anything else is an error.
func (b *Builder) Put(token string, v any) error {
	switch token {
	case chuck.TypeInt:
		n, ok := toInt(v)
		if !ok {
			return errors.Errorf("argument %v (%T) is not an int", v, v)
		}
		b.PutInt(n)
	case chuck.TypeFloat, chuck.TypeDur, chuck.TypeTime:
		f, ok := toFloat(v)
		if !ok {
			return errors.Errorf("argument %v (%T) is not a float", v, v)
		}
		b.PutFloat(f)
	default:
		return errors.Wrapf(ErrUnsupportedType, "token %q", token)
	}
	return nil
}

// Len returns the packed size in bytes
func (b *Builder) Len() int {
	return len(b.words) * 8
}

// Pointer returns the start of the packed buffer, or nil when empty. The
// pointer stays valid as long as the builder is reachable and unchanged.
func (b *Builder) Pointer() unsafe.Pointer {
	if len(b.words) == 0 {
		return nil
	}
	return unsafe.Pointer(&b.words[0])
}

func toInt(v any) (chuck.Int, bool) {
	switch n := v.(type) {
	case int:
		return chuck.Int(n), true
	case int32:
		return chuck.Int(n), true
	case int64:
		return n, true
	case uint64:
		return chuck.Int(n), true
	case float64:
		if n == math.Trunc(n) {
			return chuck.Int(n), true
		}
	}
	return 0, false
}

func toFloat(v any) (chuck.Float, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return chuck.Float(n), true
	case int:
		return chuck.Float(n), true
	case int64:
		return chuck.Float(n), true
	}
	return 0, false
}
