package value

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	// KindAbsent marks a value that vanishes before serialization.
	// It never appears in generator output.
	KindAbsent
	// KindCallable wraps an invocable function.
	// It never appears in generator output.
	KindCallable
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindAbsent:
		return "absent"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Value is the interface implemented by every datum in the model.
// The set of implementations is closed: Null, Bool, Int, Float, String,
// List, *Map, Absent and Func.
type Value interface {
	// Kind reports the dynamic type.
	Kind() Kind
	// String renders the value for display and error messages. Containers
	// render as compact JSON; a top-level string renders unquoted.
	String() string

	value() // Marker method to close the implementation set
}

// Null is the null value.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }
func (Null) value()         {}

// Bool is a boolean.
type Bool bool

func (b Bool) Kind() Kind     { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (Bool) value()           {}

// Int is a 64-bit signed integer.
type Int int64

func (i Int) Kind() Kind     { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) value()           {}

// Float is a 64-bit float.
type Float float64

func (f Float) Kind() Kind     { return KindFloat }
func (f Float) String() string { return formatFloat(float64(f)) }
func (Float) value()           {}

// String is a UTF-8 string.
type String string

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return string(s) }
func (String) value()           {}

// List is an ordered sequence of values.
type List []Value

func (l List) Kind() Kind     { return KindList }
func (l List) String() string { return displayString(l) }
func (List) value()           {}

// Absent marks a value the vanisher removes before output. A cond with no
// matching arm evaluates to Absent.
type Absent struct{}

func (Absent) Kind() Kind     { return KindAbsent }
func (Absent) String() string { return "<absent>" }
func (Absent) value()         {}

// Kwarg is a named argument in a function call. Declaration order is
// preserved through parsing and evaluation.
type Kwarg struct {
	Name  string
	Value Value
}

// Callable is a function invocable from a schema.
type Callable interface {
	// Name is the identifier the function table registers the callable under.
	Name() string
	// Call invokes the callable. Positional arguments arrive fully
	// evaluated, left to right; kwargs follow in declaration order.
	Call(ctx context.Context, args []Value, kwargs []Kwarg) (Value, error)
}

// Func adapts a Callable to the Value interface.
type Func struct {
	Callable
}

func (Func) Kind() Kind       { return KindCallable }
func (f Func) String() string { return "<function " + f.Callable.Name() + ">" }
func (Func) value()           {}

// formatFloat renders f the way JSON numbers are written, always keeping a
// decimal point or exponent so the value reads back as a float.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
