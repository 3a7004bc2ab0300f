package duct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTonnageManual(t *testing.T) {
	got, err := ResolveTonnage(TonnageInput{Tons: "3"})
	require.NoError(t, err)
	assert.Equal(t, "3", got.Tons.String())
	assert.Equal(t, SourceManual, got.Source)
}

func TestResolveTonnageHouse(t *testing.T) {
	got, err := ResolveTonnage(TonnageInput{UseHouseSize: true, HouseSize: "2000", SqftPerTon: "500"})
	require.NoError(t, err)
	assert.Equal(t, "4.00", got.Tons.StringFixed(2))
	assert.True(t, got.Tons.Equal(got.Tons.Round(2)))
	assert.Equal(t, SourceHouse, got.Source)
}

func TestResolveTonnageHouseRounding(t *testing.T) {
	got, err := ResolveTonnage(TonnageInput{UseHouseSize: true, HouseSize: "1850", SqftPerTon: "600"})
	require.NoError(t, err)
	assert.Equal(t, "3.08", got.Tons.StringFixed(2))
}

func TestResolveTonnageSqftPerTonFallback(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-100"} {
		got, err := ResolveTonnage(TonnageInput{UseHouseSize: true, HouseSize: "1500", SqftPerTon: raw})
		require.NoError(t, err, raw)
		assert.Equal(t, "3.00", got.Tons.StringFixed(2), raw)
		assert.Equal(t, "500", got.SqftPerTon.String(), raw)
	}
}

func TestResolveTonnageHouseFallsThroughToManual(t *testing.T) {
	got, err := ResolveTonnage(TonnageInput{UseHouseSize: true, HouseSize: "big", Tons: "2.5"})
	require.NoError(t, err)
	assert.Equal(t, SourceManual, got.Source)
	assert.Equal(t, "2.5", got.Tons.String())

	got, err = ResolveTonnage(TonnageInput{UseHouseSize: false, HouseSize: "2000", Tons: "2"})
	require.NoError(t, err)
	assert.Equal(t, SourceManual, got.Source)

	_, err = ResolveTonnage(TonnageInput{UseHouseSize: true, HouseSize: "0"})
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTonsRequired, kind)
}

func TestResolveTonnageErrors(t *testing.T) {
	cases := []struct {
		tons string
		want ErrorKind
	}{
		{"", KindTonsRequired},
		{"   ", KindTonsRequired},
		{"abc", KindTonsInvalidFormat},
		{"-5", KindTonsNotPositive},
		{"0", KindTonsNotPositive},
	}
	for _, tc := range cases {
		_, err := ResolveTonnage(TonnageInput{Tons: tc.tons})
		kind, ok := KindOf(err)
		require.True(t, ok, "tons %q", tc.tons)
		assert.Equal(t, tc.want, kind, "tons %q", tc.tons)
	}
}
