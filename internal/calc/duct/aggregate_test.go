package duct

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(rows ...[3]string) Entries {
	var e Entries
	for _, r := range rows {
		e.Add(r[0], r[1], r[2])
	}
	return e
}

func TestAggregateSumsSubtotals(t *testing.T) {
	lines, total := Aggregate(SideSupply, entries(
		[3]string{"8", "Flex", "8"},
		[3]string{"10", "Sheet", "2"},
	), BaselineSupply())

	require.Len(t, lines, 2)
	cfm, sub := 150, 1200
	assert.Equal(t, LineResult{Side: SideSupply, Diameter: 8, Type: Flex, Quantity: 8, CFMPerUnit: &cfm, Subtotal: &sub}, lines[0])
	require.NotNil(t, lines[1].Subtotal)
	assert.Equal(t, 850, *lines[1].Subtotal)
	assert.Equal(t, 2050, total)
}

func TestAggregateDropsUnusableRows(t *testing.T) {
	lines, total := Aggregate(SideSupply, entries(
		[3]string{"", "Flex", "3"},
		[3]string{"eight", "Flex", "3"},
		[3]string{"8", "Flex", "0"},
		[3]string{"8", "Flex", "-2"},
		[3]string{"8", "Flex", "many"},
		[3]string{"6", "Sheet", "1"},
	), BaselineSupply())

	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Diameter)
	assert.Equal(t, 110, total)
}

func TestAggregateTypeDefaultsToFlex(t *testing.T) {
	lines, total := Aggregate(SideSupply, entries(
		[3]string{"8", "sheet", "1"},
		[3]string{"8", "", "1"},
	), BaselineSupply())

	require.Len(t, lines, 2)
	assert.Equal(t, Flex, lines[0].Type)
	assert.Equal(t, Flex, lines[1].Type)
	assert.Equal(t, 300, total)
}

func TestAggregateLookupMissIsRecorded(t *testing.T) {
	lines, total := Aggregate(SideReturn, entries(
		[3]string{"5", "Flex", "2"},
		[3]string{"11", "Sheet", "1"},
		[3]string{"8", "Sheet", "3"},
	), BaselineReturn())

	require.Len(t, lines, 3)
	assert.False(t, lines[0].OK())
	assert.Equal(t, `No Flex for 5" in return table`, lines[0].Error)
	assert.Nil(t, lines[0].Subtotal)
	assert.Nil(t, lines[0].CFMPerUnit)
	assert.False(t, lines[1].OK())
	assert.True(t, lines[2].OK())
	assert.Equal(t, 480, total)
}

func TestAggregatePairsToShortestSequence(t *testing.T) {
	e := Entries{
		Diameters:  []string{"8", "10", "12"},
		Types:      []string{"Flex", "Flex"},
		Quantities: []string{"1", "1", "1"},
	}
	lines, total := Aggregate(SideSupply, e, BaselineSupply())
	assert.Len(t, lines, 2)
	assert.Equal(t, 420, total)
}

func TestAggregateFailedLineHasNoSubtotal(t *testing.T) {
	lines, _ := Aggregate(SideReturn, entries(
		[3]string{"5", "Flex", "2"},
		[3]string{"6", "Flex", "2"},
	), Table{6: Row{Flex: Capacity(0)}})

	require.Len(t, lines, 2)
	failed, err := json.Marshal(lines[0])
	require.NoError(t, err)
	assert.NotContains(t, string(failed), "subtotal")
	assert.NotContains(t, string(failed), "cfm_per_unit")

	zero, err := json.Marshal(lines[1])
	require.NoError(t, err)
	assert.Contains(t, string(zero), `"subtotal":0`)
}

func TestAggregateRejectsOverflowingSubtotal(t *testing.T) {
	lines, total := Aggregate(SideSupply, entries(
		[3]string{"20", "Sheet", strconv.Itoa(math.MaxInt)},
		[3]string{"8", "Flex", "2"},
	), BaselineSupply())

	require.Len(t, lines, 2)
	assert.False(t, lines[0].OK())
	assert.Contains(t, lines[0].Error, "exceeds the supported airflow range")
	assert.Nil(t, lines[0].Subtotal)
	assert.True(t, lines[1].OK())
	assert.Equal(t, 300, total)
}

func TestAggregateRejectsOverflowingTotal(t *testing.T) {
	half := strconv.Itoa(math.MaxInt/2 + 1)
	lines, total := Aggregate(SideSupply, entries(
		[3]string{"8", "Flex", half},
		[3]string{"8", "Flex", half},
	), Table{8: Row{Flex: Capacity(1)}})

	require.Len(t, lines, 2)
	assert.True(t, lines[0].OK())
	assert.False(t, lines[1].OK())
	assert.Equal(t, math.MaxInt/2+1, total)
}
