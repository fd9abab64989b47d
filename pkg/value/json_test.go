package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"b":1,"a":[true,null,1.5,"x"]}`))
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, m.Keys())

	b, _ := m.Get("b")
	assert.Equal(t, Int(1), b)

	a, _ := m.Get("a")
	assert.Equal(t, List{Bool(true), Null{}, Float(1.5), String("x")}, a)
}

func TestDecodeJSONNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"int", "42", Int(42)},
		{"negative int", "-7", Int(-7)},
		{"fraction", "1.5", Float(1.5)},
		{"exponent is float", "1e2", Float(100)},
		{"beyond int64 widens to float", "9223372036854775808", Float(9.223372036854776e18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	_, err := DecodeJSON([]byte(""))
	assert.Error(t, err)

	_, err = DecodeJSON([]byte("{} {}"))
	assert.Error(t, err)

	_, err = DecodeJSON([]byte(`{"a":}`))
	assert.Error(t, err)
}

func TestEncodeJSON(t *testing.T) {
	m := NewMap()
	m.Set("b", Int(1))
	inner := List{Bool(true), Null{}, Float(1.5), String("x")}
	m.Set("a", inner)

	data, err := EncodeJSON(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,1.5,"x"]}`, string(data))
}

func TestEncodeJSONText(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"float keeps decimal point", Float(2), "2.0"},
		{"non-ascii verbatim", String("héllo ✓"), `"héllo ✓"`},
		{"html chars unescaped", String(`<a href="x">&`), `"<a href=\"x\">&"`},
		{"newline escaped", String("a\nb"), `"a\nb"`},
		{"control char escaped", String("a\x01b"), `"ab"`},
		{"empty containers", List{NewMap()}, "[{}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestEncodeJSONRejectsInternalKinds(t *testing.T) {
	_, err := EncodeJSON(Absent{})
	assert.Error(t, err)

	_, err = EncodeJSON(List{Int(1), Absent{}})
	assert.Error(t, err)

	_, err = EncodeJSON(Func{Callable: &stubCallable{name: "f"}})
	assert.Error(t, err)
}

func TestEncodeJSONIndent(t *testing.T) {
	m := NewMap()
	m.Set("a", Int(1))

	data, err := EncodeJSONIndent(m)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(data))
}

func TestJSONRoundTripPreservesOrder(t *testing.T) {
	in := `{"z":1,"a":2,"m":[1,{"y":true,"b":null}]}`
	v, err := DecodeJSON([]byte(in))
	require.NoError(t, err)

	out, err := EncodeJSON(v)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}
