package palette

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, ok := Parse("  Emerald ")
	assert.True(t, ok)
	assert.Equal(t, Emerald, c)

	_, ok = Parse("chartreuse")
	assert.False(t, ok)
}

func TestColorsCoverHexTable(t *testing.T) {
	colors := Colors()
	assert.Len(t, colors, 18)
	for _, c := range colors {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.Hex())
	}
}

func TestHexFallback(t *testing.T) {
	assert.Equal(t, Gray.Hex(), Color("mauve").Hex())
}

func TestMultiplierColorsFor(t *testing.T) {
	mc := Default()
	assert.Equal(t, Gray, mc.For(1))
	assert.Equal(t, Green, mc.For(2))
	assert.Equal(t, Blue, mc.For(3))
	assert.Equal(t, Gray, mc.For(4))

	mc.Double = "not-a-color"
	assert.Equal(t, Gray, mc.For(2))
}

func TestMultiplierColorsWith(t *testing.T) {
	mc := Default()

	updated, ok := mc.With(3, Rose)
	require.True(t, ok)
	assert.Equal(t, Rose, updated.Triple)
	assert.Equal(t, Blue, mc.Triple, "receiver must not change")

	_, ok = mc.With(4, Rose)
	assert.False(t, ok)

	unchanged, ok := mc.With(1, Color("mauve"))
	assert.False(t, ok)
	assert.Equal(t, mc, unchanged)
}

func TestNormalize(t *testing.T) {
	mc := MultiplierColors{Single: "RED", Double: "", Triple: "mauve"}
	assert.Equal(t, MultiplierColors{Single: Red, Double: Green, Triple: Blue}, mc.Normalize())
}

func TestJSONShape(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"gray","2":"green","3":"blue"}`, string(data))

	var mc MultiplierColors
	require.NoError(t, json.Unmarshal([]byte(`{"1":"pink","2":"teal","3":"violet"}`), &mc))
	assert.Equal(t, MultiplierColors{Single: Pink, Double: Teal, Triple: Violet}, mc)
}
