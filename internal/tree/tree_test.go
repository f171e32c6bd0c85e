package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaide/seaconfig/internal/schemaerr"
)

func TestFromJSONKeepsIntegerAndFloatApart(t *testing.T) {
	v, err := FromJSON([]byte(`{"a": 2, "b": 2.0, "c": 1e3, "d": [1, "x", null, true]}`))
	require.NoError(t, err)
	m := v.(Map)
	assert.Equal(t, int64(2), m["a"])
	assert.Equal(t, 2.0, m["b"])
	assert.Equal(t, 1000.0, m["c"])
	assert.Equal(t, []any{int64(1), "x", nil, true}, m["d"])
}

func TestFromJSONRejectsTrailingData(t *testing.T) {
	_, err := FromJSON([]byte(`{} {}`))
	assert.Error(t, err)
}

func TestFromYAMLNormalizes(t *testing.T) {
	v, err := FromYAML([]byte("a: 3\nb: 0.5\nnested:\n  list: [1, 2]\n"))
	require.NoError(t, err)
	m := v.(Map)
	assert.Equal(t, int64(3), m["a"])
	assert.Equal(t, 0.5, m["b"])
	assert.Equal(t, Map{"list": []any{int64(1), int64(2)}}, m["nested"])
}

func TestCloneIsDeep(t *testing.T) {
	orig := Map{"grid": Map{"num_x": int64(1)}, "list": []any{Map{"a": "b"}}}
	cp := Clone(orig).(Map)
	cp["grid"].(Map)["num_x"] = int64(5)
	cp["list"].([]any)[0].(Map)["a"] = "c"
	assert.Equal(t, int64(1), orig["grid"].(Map)["num_x"])
	assert.Equal(t, "b", orig["list"].([]any)[0].(Map)["a"])
}

func TestReaderCoercesNumbers(t *testing.T) {
	r, err := Object(Map{"i": 3.9, "f": int64(2), "neg": -2.5}, "grid")
	require.NoError(t, err)

	i, err := r.Int("i")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	neg, err := r.Int("neg")
	require.NoError(t, err)
	assert.Equal(t, -2, neg)

	f, err := r.Float("f")
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)
}

func TestReaderReportsPathAndKind(t *testing.T) {
	r, err := Object(Map{"num_x": "three", "flag": int64(1)}, "grid")
	require.NoError(t, err)

	_, err = r.Int("num_x")
	var fe *schemaerr.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "grid.num_x", fe.Path)
	assert.True(t, errors.Is(err, schemaerr.ErrStructural))

	_, err = r.Bool("flag")
	assert.True(t, errors.Is(err, schemaerr.ErrStructural))

	_, err = r.String("missing")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "grid.missing", fe.Path)
}

func TestReaderOptionalDefaults(t *testing.T) {
	r, err := Object(Map{"nullable": nil}, "")
	require.NoError(t, err)

	b, err := r.OptBool("enabled", true)
	require.NoError(t, err)
	assert.True(t, b)

	s, err := r.OptStringPtr("nullable")
	require.NoError(t, err)
	assert.Nil(t, s)

	_, ok, err := r.OptList("mask")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObjectRejectsNonObjects(t *testing.T) {
	_, err := Object([]any{}, "grid")
	assert.True(t, errors.Is(err, schemaerr.ErrStructural))
}

func TestReaderOnly(t *testing.T) {
	r, err := Object(Map{"num_x": int64(1), "zeta": true, "beta": true}, "grid")
	require.NoError(t, err)
	require.NoError(t, r.Only("num_x", "zeta", "beta"))

	err = r.Only("num_x")
	var fe *schemaerr.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "grid.beta", fe.Path)
}
