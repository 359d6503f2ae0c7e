package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullConfig(t *testing.T) {
	input := `
# amplitude gradient, low to high
gradient_color = green,default
gradient_color = yellow,default
gradient_color = red,black

edge_color = cyan,default
decay_factor = 0.05

shape = diamond:expand:0,-1 1,0 0,1 -1,0
shape = star:distort:0,-1 0.6,0.8 -0.9,-0.3
shape = star:distort:0.9,-0.3 -0.6,0.8 0,-1
`
	cfg, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, cfg.Gradient, 3)
	assert.Equal(t, ColorPair{FG: Green, BG: Default}, cfg.Gradient[0])
	assert.Equal(t, ColorPair{FG: Red, BG: Black}, cfg.Gradient[2])

	assert.True(t, cfg.EdgeSet)
	assert.Equal(t, ColorPair{FG: Cyan, BG: Default}, cfg.Edge)
	assert.InDelta(t, 0.05, cfg.DecayFactor, 1e-12)

	require.Len(t, cfg.Shapes, 2)
	assert.Equal(t, "diamond", cfg.Shapes[0].Name)
	assert.Equal(t, Expand, cfg.Shapes[0].Variant)
	require.Len(t, cfg.Shapes[0].Polygons, 1)
	assert.Len(t, cfg.Shapes[0].Polygons[0], 4)

	assert.Equal(t, Distort, cfg.Shapes[1].Variant)
	assert.Len(t, cfg.Shapes[1].Polygons, 2, "repeated shape lines add polygons")
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing equals":    "gradient_color green,default",
		"bad color":         "gradient_color = chartreuse,default",
		"missing comma":     "gradient_color = green",
		"no gradient":       "edge_color = red,default",
		"bad decay":         "gradient_color = green,default\ndecay_factor = 1.5",
		"unknown key":       "gradient_color = green,default\nwaveform = sine",
		"short polygon":     "gradient_color = green,default\nshape = dot:expand:0,0 1,1",
		"bad vertex":        "gradient_color = green,default\nshape = x:expand:0,0 1 2,2",
		"bad variant":       "gradient_color = green,default\nshape = x:swirl:0,0 1,1 2,2",
		"variant conflict":  "gradient_color = green,default\nshape = x:expand:0,0 1,1 2,2\nshape = x:distort:0,0 1,1 2,2",
		"shape field count": "gradient_color = green,default\nshape = x:0,0 1,1 2,2",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestDefaultsAreUsable(t *testing.T) {
	cfg := Defaults()
	require.NotEmpty(t, cfg.Gradient)
	assert.Equal(t, Green, cfg.Gradient[0].FG)
	assert.InDelta(t, 0.025, cfg.DecayFactor, 1e-12)
}

func TestParseDefaultsEdgeWhenUnset(t *testing.T) {
	cfg, err := Parse(strings.NewReader("gradient_color = white,default"))
	require.NoError(t, err)
	assert.False(t, cfg.EdgeSet)
	assert.Equal(t, ColorPair{FG: Red, BG: Default}, cfg.Edge)
}
