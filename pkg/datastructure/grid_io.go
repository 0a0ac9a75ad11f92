package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/gridnav/pkg/util"
)

var (
	ErrEmptyGridFile = errors.New("grid file has no rows")
	ErrRaggedGrid    = errors.New("grid rows have different lengths")
)

const bzip2Ext = ".bz2"

// ReadGrid. parse a row-major delimited grid, one row per line. a blank (whitespace) delimiter splits on any run
// of whitespace. empty lines are skipped.
func ReadGrid(r io.Reader, delimiter string) (*Grid[float64], error) {
	br := bufio.NewReader(r)

	var (
		cells []float64
		width = -1
		row   = 0
	)
	for {
		line, err := util.ReadLine(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		tokens := splitRow(line, delimiter)
		if width == -1 {
			width = len(tokens)
		} else if len(tokens) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrRaggedGrid, row, len(tokens), width)
		}

		for col, token := range tokens {
			val, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			cells = append(cells, val)
		}
		row++
	}

	if row == 0 {
		return nil, ErrEmptyGridFile
	}
	return NewGridFromSlice(width, row, cells)
}

// WriteGrid. write g row-major, one row per line.
func WriteGrid(w io.Writer, g *Grid[float64], delimiter string) error {
	if strings.TrimSpace(delimiter) == "" {
		delimiter = " "
	}
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if x > 0 {
				if _, err := bw.WriteString(delimiter); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(g.Get(x, y), 'f', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadGridFile. files ending with .bz2 are decompressed on the fly.
func ReadGridFile(filename, delimiter string) (*Grid[float64], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(filename, bzip2Ext) {
		return ReadGrid(f, delimiter)
	}

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()
	return ReadGrid(bz, delimiter)
}

// WriteGridFile. files ending with .bz2 are bzip2 compressed.
func WriteGridFile(filename string, g *Grid[float64], delimiter string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if !strings.HasSuffix(filename, bzip2Ext) {
		return WriteGrid(f, g, delimiter)
	}

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	if err := WriteGrid(bz, g, delimiter); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

func splitRow(line, delimiter string) []string {
	if strings.TrimSpace(delimiter) == "" {
		return strings.Fields(line)
	}
	return strings.Split(strings.TrimSpace(line), delimiter)
}
