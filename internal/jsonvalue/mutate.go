package jsonvalue

import (
	"fmt"
	"slices"
)

// Get returns the value at path p.
func Get(doc Value, p Path) (Value, error) {
	v := doc
	for i, s := range p {
		c, err := v.child(s)
		if err != nil {
			return Value{}, newPathError("get", slices.Clone(p[:i+1]), err)
		}
		v = c
	}
	return v, nil
}

// Set returns a new document where the value at p is replaced by v.
//
// A missing final key is added to its object and a final index
// equal to the length of its array appends v to that array.
// The empty path replaces the whole document.
func Set(doc Value, p Path, v Value) (Value, error) {
	if p.IsRoot() {
		return v, nil
	}
	return update("set", doc, p, func(parent Value, s Segment) (Value, error) {
		switch {
		case parent.typ == Object && !s.isIndex:
			mm := make([]Member, len(parent.members), len(parent.members)+1)
			copy(mm, parent.members)
			if i := indexOfKey(mm, s.key); i != -1 {
				mm[i].Value = v
			} else {
				mm = append(mm, Member{Key: s.key, Value: v})
			}
			return Value{typ: Object, members: mm}, nil
		case parent.typ == Array && s.isIndex:
			n := len(parent.items)
			if s.index < 0 || s.index > n {
				return Value{}, ErrIndexOutOfRange
			}
			items := make([]Value, n, n+1)
			copy(items, parent.items)
			if s.index == n {
				items = append(items, v)
			} else {
				items[s.index] = v
			}
			return Value{typ: Array, items: items}, nil
		}
		return Value{}, ErrPathNotFound
	})
}

// Delete returns a new document without the node at p.
// Array items behind a deleted item move down by one.
func Delete(doc Value, p Path) (Value, error) {
	if p.IsRoot() {
		return Value{}, newPathError("delete", Root, ErrRootDeletionForbidden)
	}
	return update("delete", doc, p, func(parent Value, s Segment) (Value, error) {
		switch {
		case parent.typ == Object && !s.isIndex:
			i := indexOfKey(parent.members, s.key)
			if i == -1 {
				break
			}
			mm := slices.Delete(slices.Clone(parent.members), i, i+1)
			return Value{typ: Object, members: mm}, nil
		case parent.typ == Array && s.isIndex:
			if s.index < 0 || s.index >= len(parent.items) {
				break
			}
			items := slices.Delete(slices.Clone(parent.items), s.index, s.index+1)
			return Value{typ: Array, items: items}, nil
		}
		return Value{}, ErrPathNotFound
	})
}

// Rename returns a new document where the object key at p is renamed to newKey.
// The member keeps its value and its position within the object.
func Rename(doc Value, p Path, newKey string) (Value, error) {
	last, ok := p.Last()
	if !ok || last.isIndex {
		return Value{}, newPathError("rename", p, ErrPathNotFound)
	}
	return update("rename", doc, p, func(parent Value, s Segment) (Value, error) {
		if parent.typ != Object {
			return Value{}, ErrPathNotFound
		}
		i := indexOfKey(parent.members, s.key)
		if i == -1 {
			return Value{}, ErrPathNotFound
		}
		if s.key == newKey {
			return parent, nil
		}
		if indexOfKey(parent.members, newKey) != -1 {
			return Value{}, ErrKeyExists
		}
		mm := slices.Clone(parent.members)
		mm[i].Key = newKey
		return Value{typ: Object, members: mm}, nil
	})
}

// Insert returns a new document where v is added as new child of the node at parent
// and the path of the new child.
//
// Items are appended to arrays. Objects use the optional key,
// or a generated key from [NewKeyName] when no key is given.
func Insert(doc Value, parent Path, v Value, key ...string) (Value, Path, error) {
	pv, err := Get(doc, parent)
	if err != nil {
		return Value{}, nil, newPathError("insert", parent, ErrPathNotFound)
	}
	var child Path
	switch pv.typ {
	case Array:
		child = parent.Child(Index(len(pv.items)))
	case Object:
		var k string
		if len(key) > 0 {
			k = key[0]
		} else {
			k = NewKeyName(pv)
		}
		if _, found := pv.Field(k); found {
			return Value{}, nil, newPathError("insert", parent.Child(Key(k)), ErrKeyExists)
		}
		child = parent.Child(Key(k))
	default:
		return Value{}, nil, newPathError("insert", parent, ErrPathNotFound)
	}
	doc2, err := Set(doc, child, v)
	if err != nil {
		return Value{}, nil, err
	}
	return doc2, child, nil
}

// NewKeyName returns an unused key for a new member of obj, e.g. "newProperty3".
func NewKeyName(obj Value) string {
	for n := obj.Len() + 1; ; n++ {
		k := fmt.Sprintf("newProperty%d", n)
		if _, found := obj.Field(k); !found {
			return k
		}
	}
}

func (v Value) child(s Segment) (Value, error) {
	switch {
	case v.typ == Object && !s.isIndex:
		if x, ok := v.Field(s.key); ok {
			return x, nil
		}
	case v.typ == Array && s.isIndex:
		if x, ok := v.Index(s.index); ok {
			return x, nil
		}
	}
	return Value{}, ErrPathNotFound
}

// withChild returns a copy of v with the existing child at s replaced by c.
// Only the direct storage of v is copied, all other children are shared.
func (v Value) withChild(s Segment, c Value) Value {
	switch v.typ {
	case Object:
		mm := slices.Clone(v.members)
		mm[indexOfKey(mm, s.key)].Value = c
		return Value{typ: Object, members: mm}
	case Array:
		items := slices.Clone(v.items)
		items[s.index] = c
		return Value{typ: Array, items: items}
	}
	panic("withChild called on scalar")
}

// update rebuilds the chain of ancestors from the root down to the parent of p,
// where fn produces the replacement for that parent.
func update(op string, doc Value, p Path, fn func(parent Value, last Segment) (Value, error)) (Value, error) {
	var rec func(v Value, depth int) (Value, error)
	rec = func(v Value, depth int) (Value, error) {
		s := p[depth]
		if depth == len(p)-1 {
			x, err := fn(v, s)
			if err != nil {
				return Value{}, newPathError(op, slices.Clone(p), err)
			}
			return x, nil
		}
		c, err := v.child(s)
		if err != nil {
			return Value{}, newPathError(op, slices.Clone(p[:depth+1]), err)
		}
		x, err := rec(c, depth+1)
		if err != nil {
			return Value{}, err
		}
		return v.withChild(s, x), nil
	}
	return rec(doc, 0)
}
