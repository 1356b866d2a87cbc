// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !integration

package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointRegistry defines Point {x int, y int} and the Points collection.
func pointRegistry(t *testing.T) (*Registry, *Schema, *CollectionSchema) {
	t.Helper()

	reg := TestRegistry(t)
	point := reg.MustDefine("Point",
		WithAttributes("x", "y"),
		WithCasts(map[string]string{"x": "int", "y": "int"}),
	)
	points := reg.MustDefineCollection("Points", "Point")

	return reg, point, points
}

func TestEntity_IntCoercion(t *testing.T) {
	t.Parallel()

	_, point, _ := pointRegistry(t)

	for _, s := range []string{"0", "7", "-12", "123456"} {
		p, err := point.New(map[string]any{"x": s})
		require.NoError(t, err)

		got, err := p.Get("x")
		require.NoError(t, err)
		assert.Equal(t, cast.ToInt(s), got)
	}
}

func TestEntity_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	_, point, _ := pointRegistry(t)

	p, err := point.New(`{"x": "1", "y": 2}`)
	require.NoError(t, err)

	first, err := p.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":2}`, string(first))
	assert.Equal(t, `{"x":1,"y":2}`, string(first))

	again, err := point.New(first)
	require.NoError(t, err)
	second, err := again.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestEntity_Idempotence(t *testing.T) {
	t.Parallel()

	reg, point, _ := pointRegistry(t)
	event := reg.MustDefine("Event",
		WithAttributes("name", "at", "tags"),
		WithCasts(map[string]string{"at": "datetime", "tags": "array", "origin": "Point"}),
	)

	e, err := event.New(`{"name": "launch", "at": "2024-03-15 10:00:00", "tags": ["a", "b"], "origin": {"x": 1, "y": "2"}}`)
	require.NoError(t, err)

	copied, err := event.New(e)
	require.NoError(t, err)

	want, err := e.ToMap()
	require.NoError(t, err)
	got, err := copied.ToMap()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, e.Keys(), copied.Keys())

	_, err = point.New(e)
	require.Error(t, err, "a different strict type rejects foreign attributes")
}

func TestEntity_StrictMode(t *testing.T) {
	t.Parallel()

	reg := TestRegistry(t)
	strict := reg.MustDefine("Strict", WithAttributes("a", "b"))
	loose := reg.MustDefine("Loose", WithAttributes("a", "b"), WithStrict(false))

	s, err := strict.New(nil)
	require.NoError(t, err)

	_, err = s.Get("c")
	var nd *NotDefinedPropertyError
	require.ErrorAs(t, err, &nd)
	assert.Equal(t, "Strict", nd.Type)
	assert.Equal(t, "c", nd.Attribute)
	assert.False(t, nd.Write)
	assert.Equal(t, "not_defined_property", nd.Code())

	err = s.Set("c", 1)
	require.ErrorIs(t, err, ErrNotDefinedProperty)
	require.ErrorAs(t, err, &nd)
	assert.True(t, nd.Write)

	_, err = strict.New(`{"c": 1}`)
	require.ErrorIs(t, err, ErrNotDefinedProperty)

	l, err := loose.New(nil)
	require.NoError(t, err)
	require.NoError(t, l.Set("c", 1))
	got, err := l.Get("c")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	missing, err := l.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEntity_DeclaredSlots(t *testing.T) {
	t.Parallel()

	s := TestRegistry(t).MustDefine("Slots",
		WithAttributes("a"),
		WithDefault("status", "draft"),
	)

	e, err := s.New(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "status"}, e.Keys())

	a, err := e.Get("a")
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.False(t, e.Has("a"))

	status, err := e.Get("status")
	require.NoError(t, err)
	assert.Equal(t, "draft", status)
	assert.True(t, e.Has("status"))

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"status":"draft"}`, string(b))
}

func TestEntity_AccessorCache(t *testing.T) {
	t.Parallel()

	calls := 0
	s := TestRegistry(t).MustDefine("Greeting",
		WithAttributes("name"),
		WithAccessor("name", func(_ *Entity, raw any) (any, error) {
			calls++
			return &struct{ Value string }{Value: "hello " + cast.ToString(raw)}, nil
		}),
	)

	e, err := s.New(`{"name": "bob"}`)
	require.NoError(t, err)

	first, err := e.Get("name")
	require.NoError(t, err)
	second, err := e.Get("name")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	require.NoError(t, e.Set("name", "alice"))
	third, err := e.Get("name")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "hello alice", third.(*struct{ Value string }).Value)

	e.SetRaw("name", "carol")
	fourth, err := e.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "hello carol", fourth.(*struct{ Value string }).Value)
	assert.Equal(t, 3, calls)
}

func TestEntity_AccessorWinsOverCast(t *testing.T) {
	t.Parallel()

	s := TestRegistry(t).MustDefine("Full",
		WithCasts(map[string]string{"first": "string", "last": "string"}),
		WithAccessor("full", func(e *Entity, _ any) (any, error) {
			first, err := Attr[string](e, "first")
			if err != nil {
				return nil, err
			}
			last, err := Attr[string](e, "last")
			if err != nil {
				return nil, err
			}
			return first + " " + last, nil
		}),
	)

	e, err := s.New(`{"first": "Ada", "last": "Lovelace"}`)
	require.NoError(t, err)

	full, err := e.Get("full")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", full)

	m, err := e.ToMap()
	require.NoError(t, err)
	assert.NotContains(t, m, "full", "accessor-only names are not stored keys")
}

func TestEntity_Mutator(t *testing.T) {
	t.Parallel()

	s := TestRegistry(t).MustDefine("User",
		WithMutator("name", func(e *Entity, v any) error {
			e.SetRaw("name", strings.ToUpper(strings.TrimSpace(cast.ToString(v))))
			e.SetRaw("slug", strings.ToLower(strings.TrimSpace(cast.ToString(v))))
			return nil
		}),
	)

	e, err := s.New(`{"name": "  Alice "}`)
	require.NoError(t, err)

	name, err := e.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "ALICE", name)

	slug, err := e.Get("slug")
	require.NoError(t, err)
	assert.Equal(t, "alice", slug)
	assert.Equal(t, []string{"name", "slug"}, e.Keys())
}

func TestEntity_HasUnset(t *testing.T) {
	t.Parallel()

	_, point, _ := pointRegistry(t)
	p, err := point.New(`{"x": 1, "y": 2}`)
	require.NoError(t, err)

	assert.True(t, p.Has("x"))
	assert.False(t, p.Has("z"))

	p.Unset("x")
	assert.Equal(t, []string{"y"}, p.Keys())
	assert.False(t, p.Has("x"))

	got, err := p.Get("x")
	require.NoError(t, err, "cast attributes stay readable after unset")
	assert.Nil(t, got)

	p.Unset("never-set")
	assert.Equal(t, 1, p.Len())
}

func TestEntity_PayloadOrder(t *testing.T) {
	t.Parallel()

	s := TestRegistry(t).MustDefine("Ordered", WithAttributes("y", "x"), WithStrict(false))

	e, err := s.New(`{"z": 3, "x": 1, "y": 2, "a": 0}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "z", "a"}, e.Keys())

	b, err := e.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"y":2,"x":1,"z":3,"a":0}`, string(b))

	m, err := s.New(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "a", "b"}, m.Keys())
}

func TestEntity_NestedEntityCast(t *testing.T) {
	t.Parallel()

	reg, _, _ := pointRegistry(t)
	line := reg.MustDefine("Line", WithCasts(map[string]string{"from": "Point", "to": "Point"}))

	l, err := line.New(`{"from": {"x": "1", "y": "2"}, "to": null}`)
	require.NoError(t, err)

	raw, ok := l.Raw("from")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, raw, "nested values are stored flattened")

	from, err := l.Get("from")
	require.NoError(t, err)
	p, ok := from.(*Entity)
	require.True(t, ok)
	assert.Equal(t, "Point", p.TypeName())
	x, err := p.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, x)

	to, err := l.Get("to")
	require.NoError(t, err)
	assert.Nil(t, to)
	assert.False(t, l.Has("to"))

	b, err := l.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"from":{"x":1,"y":2},"to":null}`, string(b))
}

func TestEntity_SelfReferencingCast(t *testing.T) {
	t.Parallel()

	reg := TestRegistry(t)
	node := reg.MustDefine("Node", WithAttributes("name", "parent"), WithCast("parent", "Node"))

	root, err := node.New(map[string]any{"name": "root"})
	require.NoError(t, err)

	b, err := root.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"root","parent":null}`, string(b))

	leaf, err := node.New(`{"name": "leaf", "parent": {"name": "mid", "parent": {"name": "root", "parent": null}}}`)
	require.NoError(t, err)

	raw, ok := leaf.Raw("parent")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"name":   "mid",
		"parent": map[string]any{"name": "root", "parent": nil},
	}, raw)

	b, err = leaf.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"leaf","parent":{"name":"mid","parent":{"name":"root","parent":null}}}`, string(b))

	require.NoError(t, leaf.Set("parent", nil))
	parent, err := leaf.Get("parent")
	require.NoError(t, err)
	assert.Nil(t, parent)
}

func TestEntity_NestedCastError(t *testing.T) {
	t.Parallel()

	reg, _, _ := pointRegistry(t)
	line := reg.MustDefine("Line", WithCast("from", "Point"))

	_, err := line.New(`{"from": {"z": 1}}`)
	require.ErrorIs(t, err, ErrNotDefinedProperty)

	var nd *NotDefinedPropertyError
	require.ErrorAs(t, err, &nd)
	assert.Equal(t, "Point", nd.Type)
}

func TestEntity_ToJSONOptions(t *testing.T) {
	t.Parallel()

	e := TestEntity(t, `{"html": "<b>&</b>", "n": 1}`, WithStrict(false))

	escaped, err := e.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"html":"\u003cb\u003e\u0026\u003c/b\u003e","n":1}`, string(escaped))

	raw, err := e.ToJSON(WithoutEscapeHTML())
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<b>&</b>","n":1}`, string(raw))

	indented, err := e.ToJSON(WithIndent("", "  "), WithoutEscapeHTML())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"html\": \"<b>&</b>\",\n  \"n\": 1\n}", string(indented))

	assert.Equal(t, string(escaped), e.String())
}

func TestEntity_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	_, point, _ := pointRegistry(t)

	p := point.Empty()
	require.NoError(t, json.Unmarshal([]byte(`{"x": "5", "y": 6}`), p))
	x, err := p.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 5, x)

	var bare Entity
	err = json.Unmarshal([]byte(`{"x": 1}`), &bare)
	require.ErrorIs(t, err, ErrNoSchema)

	require.Error(t, json.Unmarshal([]byte(`{"z": 1}`), p))
}

func TestEntity_Clone(t *testing.T) {
	t.Parallel()

	e := TestEntity(t, map[string]any{"meta": map[string]any{"a": 1}}, WithStrict(false))

	c := e.Clone()
	raw, _ := c.Raw("meta")
	raw.(map[string]any)["a"] = 2

	orig, _ := e.Raw("meta")
	assert.Equal(t, 1, orig.(map[string]any)["a"])
	assert.Equal(t, e.Keys(), c.Keys())
	assert.Equal(t, e.Schema(), c.Schema())
}

func TestEntity_Events(t *testing.T) {
	t.Parallel()

	var reads, writes, undefined []string
	reg := TestRegistry(t, WithEvents(Events{
		AttributeRead:    func(typ, attr string) { reads = append(reads, typ+"."+attr) },
		AttributeWritten: func(typ, attr string) { writes = append(writes, typ+"."+attr) },
		UndefinedAttribute: func(typ, attr string, write bool) {
			undefined = append(undefined, typ+"."+attr+":"+cast.ToString(write))
		},
	}))
	point := reg.MustDefine("Point", WithAttributes("x"), WithCast("x", "int"))

	p, err := point.New(`{"x": "1"}`)
	require.NoError(t, err)
	_, err = p.Get("x")
	require.NoError(t, err)
	_, err = p.Get("y")
	require.Error(t, err)
	require.Error(t, p.Set("y", 1))

	assert.Equal(t, []string{"Point.x"}, writes)
	assert.Equal(t, []string{"Point.x"}, reads)
	assert.Equal(t, []string{"Point.y:false", "Point.y:true"}, undefined)
}
