package jsonvalue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

func TestGet(t *testing.T) {
	doc := jsonvalue.MustParse(`{"a":{"b":[10,20,{"c":"x"}]},"s":"str"}`)
	t.Run("can get nested value", func(t *testing.T) {
		got, err := jsonvalue.Get(doc, jsonvalue.NewPath("a", "b", 2, "c"))
		if assert.NoError(t, err) {
			assert.True(t, got.Equal(jsonvalue.NewString("x")))
		}
	})
	t.Run("should return root for empty path", func(t *testing.T) {
		got, err := jsonvalue.Get(doc, jsonvalue.Root)
		if assert.NoError(t, err) {
			assert.True(t, got.Equal(doc))
		}
	})
	cases := []struct {
		name string
		path jsonvalue.Path
	}{
		{"missing key", jsonvalue.NewPath("x")},
		{"missing intermediate key", jsonvalue.NewPath("x", "b")},
		{"key on array", jsonvalue.NewPath("a", "b", "0")},
		{"index on object", jsonvalue.NewPath("a", 0)},
		{"segment on scalar", jsonvalue.NewPath("s", "x")},
		{"index out of range", jsonvalue.NewPath("a", "b", 3)},
		{"negative index", jsonvalue.NewPath("a", "b", -1)},
	}
	for _, tc := range cases {
		t.Run("should return error for "+tc.name, func(t *testing.T) {
			_, err := jsonvalue.Get(doc, tc.path)
			assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
			var pe *jsonvalue.PathError
			if assert.ErrorAs(t, err, &pe) {
				assert.Equal(t, "get", pe.Op)
			}
		})
	}
}

func TestSet(t *testing.T) {
	doc := jsonvalue.MustParse(`{"a":{"b":[10,20]},"c":true}`)
	t.Run("can replace value and keep original", func(t *testing.T) {
		got, err := jsonvalue.Set(doc, jsonvalue.NewPath("a", "b", 1), jsonvalue.NewString("x"))
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":[10,"x"]},"c":true}`, got.String())
		assert.Equal(t, `{"a":{"b":[10,20]},"c":true}`, doc.String())
	})
	t.Run("should add missing key at the end", func(t *testing.T) {
		got, err := jsonvalue.Set(doc, jsonvalue.NewPath("a", "new"), jsonvalue.NewNumber(1))
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":[10,20],"new":1},"c":true}`, got.String())
	})
	t.Run("should append when index equals length", func(t *testing.T) {
		got, err := jsonvalue.Set(doc, jsonvalue.NewPath("a", "b", 2), jsonvalue.NewNull())
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":[10,20,null]},"c":true}`, got.String())
	})
	t.Run("should return error when index is beyond length", func(t *testing.T) {
		_, err := jsonvalue.Set(doc, jsonvalue.NewPath("a", "b", 3), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrIndexOutOfRange)
	})
	t.Run("should return error for negative index", func(t *testing.T) {
		_, err := jsonvalue.Set(doc, jsonvalue.NewPath("a", "b", -1), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrIndexOutOfRange)
	})
	t.Run("should return error when intermediate does not exist", func(t *testing.T) {
		_, err := jsonvalue.Set(doc, jsonvalue.NewPath("x", "y"), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("should return error when parent is a scalar", func(t *testing.T) {
		_, err := jsonvalue.Set(doc, jsonvalue.NewPath("c", "y"), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("should return error for key on array", func(t *testing.T) {
		_, err := jsonvalue.Set(doc, jsonvalue.NewPath("a", "b", "k"), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("can replace root", func(t *testing.T) {
		got, err := jsonvalue.Set(doc, jsonvalue.Root, jsonvalue.NewArray())
		require.NoError(t, err)
		assert.Equal(t, `[]`, got.String())
	})
	t.Run("set then get should return the value", func(t *testing.T) {
		v := jsonvalue.MustParse(`{"x":[1,{"y":2}]}`)
		paths := []jsonvalue.Path{
			jsonvalue.NewPath("a"),
			jsonvalue.NewPath("c"),
			jsonvalue.NewPath("a", "b"),
			jsonvalue.NewPath("a", "b", 0),
			jsonvalue.NewPath("a", "b", 2),
			jsonvalue.NewPath("a", "new"),
			jsonvalue.Root,
		}
		for _, p := range paths {
			d2, err := jsonvalue.Set(doc, p, v)
			require.NoError(t, err, p.String())
			got, err := jsonvalue.Get(d2, p)
			require.NoError(t, err, p.String())
			assert.True(t, got.Equal(v), p.String())
		}
	})
}

func TestDelete(t *testing.T) {
	doc := jsonvalue.MustParse(`{"a":{"b":[10,20,30]},"c":true,"d":1}`)
	t.Run("can delete key", func(t *testing.T) {
		got, err := jsonvalue.Delete(doc, jsonvalue.NewPath("c"))
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":[10,20,30]},"d":1}`, got.String())
	})
	t.Run("can delete array item and shift others", func(t *testing.T) {
		got, err := jsonvalue.Delete(doc, jsonvalue.NewPath("a", "b", 0))
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":[20,30]},"c":true,"d":1}`, got.String())
		assert.Equal(t, `{"a":{"b":[10,20,30]},"c":true,"d":1}`, doc.String())
	})
	t.Run("should return error for missing key", func(t *testing.T) {
		_, err := jsonvalue.Delete(doc, jsonvalue.NewPath("x"))
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("should return error for missing index", func(t *testing.T) {
		_, err := jsonvalue.Delete(doc, jsonvalue.NewPath("a", "b", 3))
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("should never delete the root", func(t *testing.T) {
		for _, s := range []string{`{}`, `[]`, `{"a":1}`, `[1,2]`, `1`, `null`} {
			_, err := jsonvalue.Delete(jsonvalue.MustParse(s), jsonvalue.Root)
			assert.ErrorIs(t, err, jsonvalue.ErrRootDeletionForbidden, s)
		}
	})
	t.Run("delete then reinsert should restore equal document", func(t *testing.T) {
		p := jsonvalue.NewPath("a")
		v, err := jsonvalue.Get(doc, p)
		require.NoError(t, err)
		d2, err := jsonvalue.Delete(doc, p)
		require.NoError(t, err)
		d3, _, err := jsonvalue.Insert(d2, jsonvalue.Root, v, "a")
		require.NoError(t, err)
		assert.True(t, jsonvalue.Equal(doc, d3))
		assert.Equal(t, []string{"c", "d", "a"}, d3.Keys())
	})
}

func TestRename(t *testing.T) {
	doc := jsonvalue.MustParse(`{"a":1,"b":{"c":2},"d":[1]}`)
	t.Run("can rename key in place", func(t *testing.T) {
		got, err := jsonvalue.Rename(doc, jsonvalue.NewPath("b"), "x")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"x":{"c":2},"d":[1]}`, got.String())
	})
	t.Run("can rename nested key", func(t *testing.T) {
		got, err := jsonvalue.Rename(doc, jsonvalue.NewPath("b", "c"), "e")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"b":{"e":2},"d":[1]}`, got.String())
	})
	t.Run("should do nothing when renaming to same key", func(t *testing.T) {
		got, err := jsonvalue.Rename(doc, jsonvalue.NewPath("a"), "a")
		require.NoError(t, err)
		assert.Equal(t, doc.String(), got.String())
	})
	t.Run("should return error when key exists", func(t *testing.T) {
		_, err := jsonvalue.Rename(doc, jsonvalue.NewPath("a"), "d")
		assert.ErrorIs(t, err, jsonvalue.ErrKeyExists)
	})
	t.Run("should return error for missing key", func(t *testing.T) {
		_, err := jsonvalue.Rename(doc, jsonvalue.NewPath("z"), "y")
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("should return error for array items and root", func(t *testing.T) {
		_, err := jsonvalue.Rename(doc, jsonvalue.NewPath("d", 0), "y")
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
		_, err = jsonvalue.Rename(doc, jsonvalue.Root, "y")
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
}

func TestInsert(t *testing.T) {
	doc := jsonvalue.MustParse(`{"o":{"newProperty2":1},"a":[1],"s":"x"}`)
	t.Run("can append to array", func(t *testing.T) {
		got, p, err := jsonvalue.Insert(doc, jsonvalue.NewPath("a"), jsonvalue.NewObject())
		require.NoError(t, err)
		assert.Equal(t, "$.a[1]", p.String())
		assert.Equal(t, `{"o":{"newProperty2":1},"a":[1,{}],"s":"x"}`, got.String())
	})
	t.Run("can add object member with key", func(t *testing.T) {
		got, p, err := jsonvalue.Insert(doc, jsonvalue.NewPath("o"), jsonvalue.NewArray(), "k")
		require.NoError(t, err)
		assert.Equal(t, "$.o.k", p.String())
		assert.Equal(t, `{"o":{"newProperty2":1,"k":[]},"a":[1],"s":"x"}`, got.String())
	})
	t.Run("should generate unused key", func(t *testing.T) {
		got, p, err := jsonvalue.Insert(doc, jsonvalue.NewPath("o"), jsonvalue.NewObject())
		require.NoError(t, err)
		assert.Equal(t, "$.o.newProperty3", p.String())
		assert.Equal(t, []string{"newProperty2", "newProperty3"}, mustGet(t, got, "o").Keys())
	})
	t.Run("should return error when key exists", func(t *testing.T) {
		_, _, err := jsonvalue.Insert(doc, jsonvalue.NewPath("o"), jsonvalue.NewNull(), "newProperty2")
		assert.ErrorIs(t, err, jsonvalue.ErrKeyExists)
	})
	t.Run("should return error for scalar parent", func(t *testing.T) {
		_, _, err := jsonvalue.Insert(doc, jsonvalue.NewPath("s"), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
	t.Run("should return error for missing parent", func(t *testing.T) {
		_, _, err := jsonvalue.Insert(doc, jsonvalue.NewPath("x"), jsonvalue.NewNull())
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
	})
}

func TestNewKeyName(t *testing.T) {
	assert.Equal(t, "newProperty1", jsonvalue.NewKeyName(jsonvalue.NewObject()))
	assert.Equal(t, "newProperty3", jsonvalue.NewKeyName(jsonvalue.MustParse(`{"a":1,"b":2}`)))
	assert.Equal(t, "newProperty3", jsonvalue.NewKeyName(jsonvalue.MustParse(`{"a":1,"newProperty2":2}`)))
}

func mustGet(t *testing.T, doc jsonvalue.Value, elems ...any) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Get(doc, jsonvalue.NewPath(elems...))
	require.NoError(t, err)
	return v
}
