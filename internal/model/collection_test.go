package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Collection {
	return NewCollection(
		NewTodo("a0", "foo", true),
		NewTodo("a1", "bar", false),
		NewTodo("a2", "baz", true),
		NewTodo("a3", "qux", false),
	)
}

func TestCollection_PushKeepsOrder(t *testing.T) {
	c := NewCollection()
	var want []string
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("t%d", i)
		require.True(t, c.Push(NewTodo(id, "x", i%2 == 0)))
		want = append(want, id)
	}

	assert.Equal(t, 10, c.Len())
	assert.Equal(t, want, c.IDs())
}

func TestCollection_PushRejectsDuplicateID(t *testing.T) {
	c := NewCollection(NewTodo("a", "one", false))

	assert.False(t, c.Push(NewTodo("a", "two", true)))
	assert.False(t, c.Push(nil))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "one", c.ToArray()[0].Title)
}

func TestNewCollection_DropsRepeatedIDs(t *testing.T) {
	c := NewCollection(NewTodo("a", "one", false), NewTodo("b", "two", false), NewTodo("a", "three", true))
	assert.Equal(t, []string{"a", "b"}, c.IDs())
}

func TestCollection_GetByIDIsInPlace(t *testing.T) {
	c := sample()

	todo, ok := c.GetByID("a1")
	require.True(t, ok)
	todo.Title = "changed"

	assert.Equal(t, "changed", c.ToArray()[1].Title)

	_, ok = c.GetByID("missing")
	assert.False(t, ok)
}

func TestCollection_ToggleByID(t *testing.T) {
	c := sample()

	c.ToggleByID("a0")
	c.ToggleByID("a1")
	c.ToggleByID("missing")

	assert.False(t, c.ToArray()[0].Completed)
	assert.True(t, c.ToArray()[1].Completed)
	assert.Equal(t, 4, c.Len())
}

func TestCollection_RemoveByID(t *testing.T) {
	c := sample()
	view := c.Uncompleted()

	c.RemoveByID("a1")
	c.RemoveByID("missing")

	assert.Equal(t, []string{"a0", "a2", "a3"}, c.IDs())
	assert.Equal(t, []string{"a1", "a3"}, view.IDs(), "derived views are unaffected")
}

func TestCollection_CompletedUncompletedPartition(t *testing.T) {
	c := sample()

	done := c.Completed()
	open := c.Uncompleted()

	assert.Equal(t, []string{"a0", "a2"}, done.IDs())
	assert.Equal(t, []string{"a1", "a3"}, open.IDs())
	assert.Equal(t, c.Len(), done.Len()+open.Len())
	assert.ElementsMatch(t, c.IDs(), append(done.IDs(), open.IDs()...))
	assert.Equal(t, 4, c.Len(), "filtering never mutates the source")
}

func TestCollection_DerivedViewsShareEntities(t *testing.T) {
	c := sample()

	c.Uncompleted().ToArray()[0].Title = "shared"

	got, _ := c.GetByID("a1")
	assert.Equal(t, "shared", got.Title)
}

func TestCollection_CompleteAllUncompleteAll(t *testing.T) {
	c := sample()

	c.CompleteAll()
	assert.True(t, c.Uncompleted().IsEmpty())

	c.UncompleteAll()
	assert.True(t, c.Completed().IsEmpty())
	assert.Equal(t, 4, c.Uncompleted().Len())
}

func TestCollection_FilterBy(t *testing.T) {
	c := sample()

	assert.Same(t, c, c.FilterBy(All))
	assert.Equal(t, []string{"a1", "a3"}, c.FilterBy(Active).IDs())
	assert.Equal(t, []string{"a0", "a2"}, c.FilterBy(Completed).IDs())
}

func TestCollection_IsEmpty(t *testing.T) {
	assert.True(t, NewCollection().IsEmpty())
	assert.False(t, sample().IsEmpty())
	assert.True(t, NewCollection(NewTodo("a", "x", false)).Completed().IsEmpty())
}
