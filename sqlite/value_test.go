package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf_SupportedTypes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Boolean(true)},
		{"int", 42, Integer(42)},
		{"int64", int64(-7), Integer(-7)},
		{"uint32", uint32(7), Integer(7)},
		{"float64", 3.5, Real(3.5)},
		{"string", "hello", Text("hello")},
		{"bytes", []byte{1, 2, 3}, Blob([]byte{1, 2, 3})},
		{"value passthrough", Text("x"), Text("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestValueOf_Time(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	v, err := ValueOf(ts)
	require.NoError(t, err)
	assert.Equal(t, KindText, v.Kind())

	back, ok := v.Time()
	require.True(t, ok)
	assert.True(t, back.Equal(ts))
}

func TestValueOf_Unsupported(t *testing.T) {
	_, err := ValueOf(struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValue_Accessors(t *testing.T) {
	i, ok := Integer(5).Int()
	require.True(t, ok)
	assert.Equal(t, int64(5), i)

	_, ok = Text("x").Int()
	assert.False(t, ok)

	f, ok := Real(2.5).Float()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	// Integers convert to float on demand.
	f, ok = Integer(4).Float()
	require.True(t, ok)
	assert.Equal(t, 4.0, f)

	s, ok := Text("hello").Text()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	b, ok := Blob([]byte("abc")).Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), b)

	v, ok := Boolean(true).Bool()
	require.True(t, ok)
	assert.True(t, v)

	// Stored booleans come back from the driver as integers.
	v, ok = Integer(1).Bool()
	require.True(t, ok)
	assert.True(t, v)

	_, ok = Integer(2).Bool()
	assert.False(t, ok)
}

func TestValue_NullAndEqual(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.True(t, Value{}.IsNull(), "zero value is null")

	assert.True(t, Null().Equal(Null()))
	assert.False(t, Integer(1).Equal(Real(1)))
	assert.True(t, Blob([]byte{1}).Equal(Blob([]byte{1})))
	assert.False(t, Blob([]byte{1}).Equal(Blob([]byte{2})))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, "42", Integer(42).String())
	assert.Equal(t, "true", Boolean(true).String())
	assert.Equal(t, "hi", Text("hi").String())
	assert.Equal(t, "blob(3 bytes)", Blob([]byte{1, 2, 3}).String())
}

func TestValueFrom_DriverTypes(t *testing.T) {
	assert.True(t, valueFrom(nil).IsNull())
	assert.True(t, valueFrom(int64(3)).Equal(Integer(3)))
	assert.True(t, valueFrom(1.5).Equal(Real(1.5)))
	assert.True(t, valueFrom("x").Equal(Text("x")))
	assert.True(t, valueFrom([]byte{9}).Equal(Blob([]byte{9})))
}

func TestValueFrom_CopiesBlob(t *testing.T) {
	buf := []byte{1, 2, 3}
	v := valueFrom(buf)
	buf[0] = 9

	got, ok := v.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
}
