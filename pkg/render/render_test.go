package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorMapEnds(t *testing.T) {
	cm := Inferno()
	lo := cm.At(0)
	hi := cm.At(1)
	assert.Equal(t, uint8(0), lo.R)
	assert.Equal(t, uint8(0xfc), hi.R)
	assert.Equal(t, cm.At(-3), lo)
	assert.Equal(t, cm.At(7), hi)

	lut := Viridis().LUT(256)
	require.Len(t, lut, 256)
	assert.Equal(t, Viridis().At(0), lut[0])
	assert.Equal(t, Viridis().At(1), lut[255])

	_, ok := ColorMapByName("nope")
	assert.False(t, ok)
}

func TestRenderDistance(t *testing.T) {
	tm, err := da.NewTerrainMap(3, 1, []float64{1, 1, 0})
	require.NoError(t, err)
	r, err := relaxation.NewRelaxer(tm, relaxation.DefaultOptions())
	require.NoError(t, err)
	res, err := r.Run(context.Background(), []relaxation.Seed{relaxation.NewSeed(0, 0)})
	require.NoError(t, err)
	ff, err := flowfield.Extract(tm, res.Distance)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.CellSize = 8
	opts.Flow = ff
	img, err := Distance(tm, res.Distance, opts)
	require.NoError(t, err)

	assert.Equal(t, 24, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	assert.Equal(t, obstacleColor, img.RGBAAt(20, 1))
	assert.Equal(t, opts.ColorMap.At(1), img.RGBAAt(15, 0))
	// overlay from the centre of (1,0) toward the seed
	assert.Equal(t, arrowColor, img.RGBAAt(12, 4))

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestRenderShapeMismatch(t *testing.T) {
	tm, err := da.NewUniformTerrainMap(2, 2, 1)
	require.NoError(t, err)
	dist, err := da.NewGrid[float64](2, 3)
	require.NoError(t, err)

	_, err = Distance(tm, dist, DefaultOptions())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
