package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	filled := NewMap()
	filled.Set("k", Null{})

	tests := []struct {
		name string
		in   Value
		want bool
	}{
		{"null", Null{}, false},
		{"false", Bool(false), false},
		{"zero int", Int(0), false},
		{"zero float", Float(0), false},
		{"empty string", String(""), false},
		{"empty list", List{}, false},
		{"empty map", NewMap(), false},
		{"true", Bool(true), true},
		{"negative int", Int(-1), true},
		{"nonzero float", Float(0.5), true},
		{"string", String("x"), true},
		{"list with null element", List{Null{}}, true},
		{"filled map", filled, true},
		{"absent", Absent{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.in))
		})
	}
}

func TestEqual(t *testing.T) {
	ab := NewMap()
	ab.Set("a", Int(1))
	ab.Set("b", Int(2))
	ba := NewMap()
	ba.Set("b", Int(2))
	ba.Set("a", Int(1))

	call := &stubCallable{name: "f"}

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null", Null{}, Null{}, true},
		{"null vs false", Null{}, Bool(false), false},
		{"int", Int(3), Int(3), true},
		{"int cross float", Int(1), Float(1.0), true},
		{"float cross int", Float(2.0), Int(2), true},
		{"int vs near float", Int(1), Float(1.5), false},
		{"bool vs int stays distinct", Bool(true), Int(1), false},
		{"string", String("a"), String("a"), true},
		{"string vs int", String("1"), Int(1), false},
		{"list deep", List{Int(1), List{String("x")}}, List{Float(1), List{String("x")}}, true},
		{"list length", List{Int(1)}, List{Int(1), Int(2)}, false},
		{"map ignores order", ab, ba, true},
		{"map value differs", ab, NewMap(), false},
		{"absent", Absent{}, Absent{}, true},
		{"same callable", Func{Callable: call}, Func{Callable: call}, true},
		{"different callable", Func{Callable: call}, Func{Callable: &stubCallable{name: "f"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"int lt", Int(1), Int(2), -1},
		{"int eq", Int(2), Int(2), 0},
		{"int gt float", Int(2), Float(1.5), 1},
		{"float lt int", Float(0.5), Int(1), -1},
		{"string", String("apple"), String("banana"), -1},
		{"list element wins", List{Int(2)}, List{Int(1), Int(9)}, 1},
		{"list prefix shorter first", List{Int(1)}, List{Int(1), Int(0)}, -1},
		{"list equal", List{Int(1), Int(2)}, List{Int(1), Int(2)}, 0},
		{"equal unorderable elements pass through", List{Null{}, Int(1)}, List{Null{}, Int(2)}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareUnordered(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
	}{
		{"bools", Bool(true), Bool(false)},
		{"int vs string", Int(1), String("1")},
		{"nulls", Null{}, Null{}},
		{"maps", NewMap(), NewMap()},
		{"list element mismatch", List{Int(1), Null{}}, List{Int(1), Bool(false)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(tt.a, tt.b)
			assert.Error(t, err)
		})
	}
}
