package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/util"
)

var (
	ErrShapeMismatch = errors.New("render inputs have different dimensions")

	obstacleColor  = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	unreachedColor = color.RGBA{R: 70, G: 70, B: 70, A: 255}
	arrowColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	sourceColor    = color.RGBA{R: 0, G: 200, B: 255, A: 255}
)

type Options struct {
	CellSize int
	// MaxDistance. distance mapped to the top of the colour ramp, <= 0 uses the field maximum.
	MaxDistance float64
	ColorMap    *ColorMap
	// Flow. optional overlay, one short segment per cell pointing along the flow vector.
	Flow *flowfield.FlowField
	// Sources. cells highlighted as goals.
	Sources []flowfield.Cell
}

func DefaultOptions() Options {
	return Options{CellSize: 16, ColorMap: Inferno()}
}

// Distance. draw a distance field over its terrain. impassable cells are near black, passable unreached
// cells grey.
func Distance(terrain *da.TerrainMap, distance *da.Grid[float64], opts Options) (*image.RGBA, error) {
	if terrain.Width() != distance.Width() || terrain.Height() != distance.Height() {
		return nil, ErrShapeMismatch
	}
	if opts.Flow != nil && (opts.Flow.Width() != distance.Width() || opts.Flow.Height() != distance.Height()) {
		return nil, ErrShapeMismatch
	}
	if opts.CellSize < 1 {
		opts.CellSize = 1
	}
	if opts.ColorMap == nil {
		opts.ColorMap = Inferno()
	}

	maxDist := opts.MaxDistance
	if maxDist <= 0 {
		for i := 0; i < distance.Len(); i++ {
			maxDist = math.Max(maxDist, distance.At(i))
		}
	}

	cs := opts.CellSize
	img := image.NewRGBA(image.Rect(0, 0, distance.Width()*cs, distance.Height()*cs))
	for y := 0; y < distance.Height(); y++ {
		for x := 0; x < distance.Width(); x++ {
			var c color.RGBA
			v := distance.Get(x, y)
			switch {
			case !terrain.IsPassable(x, y):
				c = obstacleColor
			case v <= 0:
				c = unreachedColor
			default:
				c = opts.ColorMap.At(v / maxDist)
			}
			fillCell(img, x, y, cs, c)
		}
	}

	for _, s := range opts.Sources {
		if distance.InBounds(s.X, s.Y) {
			fillCell(img, s.X, s.Y, cs, sourceColor)
		}
	}

	if opts.Flow != nil && cs >= 4 {
		drawFlow(img, opts.Flow, cs)
	}
	return img, nil
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func fillCell(img *image.RGBA, x, y, cs int, c color.RGBA) {
	for py := y * cs; py < (y+1)*cs; py++ {
		for px := x * cs; px < (x+1)*cs; px++ {
			img.SetRGBA(px, py, c)
		}
	}
}

func drawFlow(img *image.RGBA, flow *flowfield.FlowField, cs int) {
	length := float64(cs) * 0.4
	for y := 0; y < flow.Height(); y++ {
		for x := 0; x < flow.Width(); x++ {
			v := flow.At(x, y)
			if v.IsZero() {
				continue
			}
			cx := float64(x*cs) + float64(cs)/2
			cy := float64(y*cs) + float64(cs)/2
			drawLine(img, int(cx), int(cy), int(math.Round(cx+v.X*length)), int(math.Round(cy+v.Y*length)), arrowColor)
		}
	}
}

// drawLine. bresenham.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := util.Abs(x1 - x0)
	dy := -util.Abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if (image.Point{X: x0, Y: y0}).In(img.Bounds()) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}
