package dom

import (
	"math"
	"unsafe"

	jsonval "github.com/jsonval/jsonval"
	"github.com/jsonval/jsonval/errors"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is one element of a JSON document. Scalars are stored inline; string
// payloads are allocated from the owning resource, which is what makes deep
// copies failure-capable and destruction meaningful.
//
// A Value is bound to the resource it was constructed with. Copies into a
// different resource go through CloneTo.
type Value struct {
	res  jsonval.Resource
	str  unsafe.Pointer // string payload, nil when empty or non-string
	strN int            // string payload length in bytes
	num  uint64         // scalar payload bits
	kind Kind
}

// NewValue constructs the default value of the given kind. It never
// allocates: the default string is empty.
func NewValue(kind Kind, res jsonval.Resource) Value {
	return Value{res: res, kind: kind}
}

// NullValue constructs a null value bound to res.
func NullValue(res jsonval.Resource) Value {
	return Value{res: res, kind: KindNull}
}

// BoolValue constructs a boolean value.
func BoolValue(b bool, res jsonval.Resource) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{res: res, kind: KindBool, num: bits}
}

// Int64Value constructs a signed integer value.
func Int64Value(i int64, res jsonval.Resource) Value {
	return Value{res: res, kind: KindInt64, num: uint64(i)}
}

// Uint64Value constructs an unsigned integer value.
func Uint64Value(u uint64, res jsonval.Resource) Value {
	return Value{res: res, kind: KindUint64, num: u}
}

// Float64Value constructs a floating point value.
func Float64Value(f float64, res jsonval.Resource) Value {
	return Value{res: res, kind: KindFloat64, num: math.Float64bits(f)}
}

// StringValue constructs a string value whose payload is allocated from res.
func StringValue(s string, res jsonval.Resource) (Value, error) {
	v := Value{res: res, kind: KindString}
	if len(s) == 0 {
		return v, nil
	}
	p, err := res.Allocate(len(s), 1)
	if err != nil {
		return Value{}, errors.Wrap(errors.PhaseConstruct, errors.KindAllocation, err, "string payload")
	}
	copy(unsafe.Slice((*byte)(p), len(s)), s)
	v.str = p
	v.strN = len(s)
	return v, nil
}

// CloneTo copy-constructs the value with res as the target resource. String
// payloads are deep-copied into res; the clone never aliases the original.
func (v *Value) CloneTo(res jsonval.Resource) (Value, error) {
	if v.kind != KindString {
		c := *v
		c.res = res
		return c, nil
	}
	return StringValue(v.String(), res)
}

// Release destroys the value, returning any owned payload to the resource.
// The value is left null. Releasing a zero or already-released value is a
// no-op.
func (v *Value) Release() {
	if v.kind == KindString && v.str != nil {
		v.res.Deallocate(v.str, v.strN, 1)
	}
	v.str = nil
	v.strN = 0
	v.num = 0
	v.kind = KindNull
}

// Kind returns the variant stored in the value.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload, or false if the kind differs.
func (v *Value) Bool() bool { return v.kind == KindBool && v.num != 0 }

// Int64 returns the signed integer payload, or 0 if the kind differs.
func (v *Value) Int64() int64 {
	if v.kind != KindInt64 {
		return 0
	}
	return int64(v.num)
}

// Uint64 returns the unsigned integer payload, or 0 if the kind differs.
func (v *Value) Uint64() uint64 {
	if v.kind != KindUint64 {
		return 0
	}
	return v.num
}

// Float64 returns the floating point payload, or 0 if the kind differs.
func (v *Value) Float64() float64 {
	if v.kind != KindFloat64 {
		return 0
	}
	return math.Float64frombits(v.num)
}

// String returns a copy of the string payload, or "" if the kind differs.
func (v *Value) String() string {
	if v.kind != KindString || v.str == nil {
		return ""
	}
	return string(unsafe.Slice((*byte)(v.str), v.strN))
}

// Resource returns the resource the value is bound to.
func (v *Value) Resource() jsonval.Resource { return v.res }

// Equal reports whether two values hold the same kind and payload. Resource
// identity is not part of equality.
func (v *Value) Equal(other *Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindString {
		return v.String() == other.String()
	}
	return v.num == other.num
}
