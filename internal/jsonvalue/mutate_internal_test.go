package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuralSharing(t *testing.T) {
	doc := MustParse(`{"left":{"x":[1,2,3]},"right":{"y":[4,5]}}`)
	t.Run("should share untouched subtrees after set", func(t *testing.T) {
		got, err := Set(doc, NewPath("right", "y", 0), NewNumber(9))
		require.NoError(t, err)
		oldLeft, _ := doc.Field("left")
		newLeft, _ := got.Field("left")
		oldX, _ := oldLeft.Field("x")
		newX, _ := newLeft.Field("x")
		assert.Same(t, &oldX.items[0], &newX.items[0])
		oldRight, _ := doc.Field("right")
		newRight, _ := got.Field("right")
		assert.NotSame(t, &oldRight.members[0], &newRight.members[0])
	})
	t.Run("should share untouched subtrees after delete", func(t *testing.T) {
		got, err := Delete(doc, NewPath("left", "x", 2))
		require.NoError(t, err)
		oldRight, _ := doc.Field("right")
		newRight, _ := got.Field("right")
		assert.Same(t, &oldRight.members[0], &newRight.members[0])
	})
	t.Run("should not change original when appending", func(t *testing.T) {
		right, _ := doc.Field("right")
		y, _ := right.Field("y")
		got, err := Set(doc, NewPath("right", "y", 2), NewNumber(6))
		require.NoError(t, err)
		assert.Equal(t, 2, y.Len())
		assert.Equal(t, `{"left":{"x":[1,2,3]},"right":{"y":[4,5,6]}}`, got.String())
		again, err := Set(doc, NewPath("right", "y", 2), NewNumber(7))
		require.NoError(t, err)
		assert.Equal(t, `{"left":{"x":[1,2,3]},"right":{"y":[4,5,7]}}`, again.String())
		assert.Equal(t, `{"left":{"x":[1,2,3]},"right":{"y":[4,5,6]}}`, got.String())
	})
}

func TestPutMember(t *testing.T) {
	mm := putMember(nil, "a", NewNumber(1))
	mm = putMember(mm, "b", NewNumber(2))
	mm = putMember(mm, "a", NewNumber(3))
	assert.Len(t, mm, 2)
	assert.Equal(t, 0, indexOfKey(mm, "a"))
	assert.Equal(t, -1, indexOfKey(mm, "c"))
}
