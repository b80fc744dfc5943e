package jsonvalue_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

func TestParse(t *testing.T) {
	t.Run("can parse values of all types", func(t *testing.T) {
		v, err := jsonvalue.ParseString(`{"s":"abc","n":-1.5e2,"b":true,"z":null,"a":[1,[]],"o":{}}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"s", "n", "b", "z", "a", "o"}, v.Keys())
		types := make([]jsonvalue.Type, 0)
		for _, m := range v.Members() {
			types = append(types, m.Value.Type())
		}
		want := []jsonvalue.Type{
			jsonvalue.String,
			jsonvalue.Number,
			jsonvalue.Boolean,
			jsonvalue.Null,
			jsonvalue.Array,
			jsonvalue.Object,
		}
		assert.Equal(t, want, types)
		n, _ := v.Field("n")
		x, _ := n.Number()
		assert.Equal(t, -150.0, x)
	})
	t.Run("can parse scalar documents", func(t *testing.T) {
		v, err := jsonvalue.ParseString(`42`)
		if assert.NoError(t, err) {
			assert.True(t, v.Equal(jsonvalue.NewNumber(42)))
		}
		v, err = jsonvalue.ParseString(` "x" `)
		if assert.NoError(t, err) {
			assert.True(t, v.Equal(jsonvalue.NewString("x")))
		}
	})
	t.Run("can parse numbers at end of input", func(t *testing.T) {
		for s, want := range map[string]float64{`42`: 42, `-0.5`: -0.5, `1e3 `: 1000} {
			v, err := jsonvalue.ParseString(s)
			if assert.NoError(t, err, "input: %q", s) {
				x, _ := v.Number()
				assert.Equal(t, want, x)
			}
		}
	})
	t.Run("can parse empty keys", func(t *testing.T) {
		v, err := jsonvalue.ParseString(`{"":1,"a":2}`)
		if assert.NoError(t, err) {
			assert.Equal(t, []string{"", "a"}, v.Keys())
		}
	})
	t.Run("should let the last duplicate key win", func(t *testing.T) {
		v, err := jsonvalue.ParseString(`{"a":1,"b":2,"a":3}`)
		if assert.NoError(t, err) {
			assert.Equal(t, `{"a":3,"b":2}`, v.String())
		}
	})
	t.Run("should return error for invalid JSON", func(t *testing.T) {
		for _, s := range []string{``, `   `, `{`, `{"a":}`, `[1,2`, `not json`, `{"a":1} x`, `[1] [2]`, `{"a":1`, `[1`, `[1,2.5`, `{"articles":[{"id":"article_7","n":12`} {
			_, err := jsonvalue.ParseString(s)
			assert.ErrorIs(t, err, jsonvalue.ErrInvalidJSON, "input: %q", s)
		}
	})
}

func TestMarshal(t *testing.T) {
	t.Run("can marshal compact", func(t *testing.T) {
		v := jsonvalue.MustParse(`{ "b" : [ true, null, "x<y" ], "a": 1.25, "e": {}, "f": [] }`)
		got, err := jsonvalue.Marshal(v)
		if assert.NoError(t, err) {
			assert.Equal(t, `{"b":[true,null,"x<y"],"a":1.25,"e":{},"f":[]}`, string(got))
		}
	})
	t.Run("can marshal indented", func(t *testing.T) {
		v := jsonvalue.MustParse(`{"a":[1,2],"b":{"c":"d"},"e":{}}`)
		got, err := jsonvalue.MarshalIndent(v)
		if assert.NoError(t, err) {
			want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {\n    \"c\": \"d\"\n  },\n  \"e\": {}\n}"
			assert.Equal(t, want, string(got))
		}
	})
	t.Run("should escape strings", func(t *testing.T) {
		got, err := jsonvalue.Marshal(jsonvalue.NewString("a\"b\\c\n"))
		if assert.NoError(t, err) {
			assert.Equal(t, `"a\"b\\c\n"`, string(got))
		}
	})
	t.Run("should round trip documents", func(t *testing.T) {
		s := `{"articles":[{"id":"article_7","title":"x","count":3,"tags":["a","b"],"draft":false,"note":null}],"z":-0.5}`
		v := jsonvalue.MustParse(s)
		got, err := jsonvalue.Marshal(v)
		if assert.NoError(t, err) {
			assert.Equal(t, s, string(got))
		}
	})
	t.Run("should agree with encoding/json on data", func(t *testing.T) {
		v := jsonvalue.MustParse(`{"a":[1,"x",{"b":null}]}`)
		b, err := json.Marshal(v)
		require.NoError(t, err)
		var got any
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, v.ToAny(), got)
	})
	t.Run("can be used with encoding/json", func(t *testing.T) {
		var x struct {
			Data jsonvalue.Value `json:"data"`
		}
		err := json.Unmarshal([]byte(`{"data":{"k":[1,2]}}`), &x)
		if assert.NoError(t, err) {
			assert.Equal(t, `{"k":[1,2]}`, x.Data.String())
		}
	})
}
