package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_AddMergesSameFood(t *testing.T) {
	var d Draft

	require.NoError(t, d.Add("pho", 2))
	require.NoError(t, d.Add("pho", 3))

	items := d.Items()
	require.Len(t, items, 1)
	assert.Equal(t, OrderItem{FoodID: "pho", Quantity: 5}, items[0])
}

func TestDraft_AddAppendsNewFood(t *testing.T) {
	var d Draft

	require.NoError(t, d.Add("pho", 1))
	require.NoError(t, d.Add("banh-mi", 2))
	require.NoError(t, d.Add("pho", 1))

	assert.Equal(t, []OrderItem{
		{FoodID: "pho", Quantity: 2},
		{FoodID: "banh-mi", Quantity: 2},
	}, d.Items())
}

func TestDraft_AddRejectsInvalidLines(t *testing.T) {
	var d Draft

	assert.ErrorIs(t, d.Add("pho", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, d.Add("pho", -2), ErrInvalidQuantity)
	assert.ErrorIs(t, d.Add("", 1), ErrMissingFoodID)
	assert.Equal(t, 0, d.Len())
}

func TestDraft_Remove(t *testing.T) {
	var d Draft
	require.NoError(t, d.Add("a", 1))
	require.NoError(t, d.Add("b", 1))
	require.NoError(t, d.Add("c", 1))

	require.NoError(t, d.Remove(1))
	assert.Equal(t, []OrderItem{{FoodID: "a", Quantity: 1}, {FoodID: "c", Quantity: 1}}, d.Items())

	assert.ErrorIs(t, d.Remove(2), ErrDraftIndex)
	assert.ErrorIs(t, d.Remove(-1), ErrDraftIndex)
}

func TestDraft_RemoveFood(t *testing.T) {
	var d Draft
	require.NoError(t, d.Add("a", 1))
	require.NoError(t, d.Add("b", 4))
	require.NoError(t, d.Add("c", 2))

	assert.Equal(t, 1, d.RemoveFood("b"))
	assert.Equal(t, []OrderItem{{FoodID: "a", Quantity: 1}, {FoodID: "c", Quantity: 2}}, d.Items())

	assert.Equal(t, 0, d.RemoveFood("missing"))
	assert.Equal(t, 2, d.Len())
}

func TestDraft_ItemsIsACopy(t *testing.T) {
	var d Draft
	require.NoError(t, d.Add("a", 1))

	items := d.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, d.Items()[0].Quantity)
}

func TestDraft_Reset(t *testing.T) {
	var d Draft
	require.NoError(t, d.Add("a", 1))

	d.Reset()

	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Items())
}
