package png

import (
	"fmt"
	"strings"

	"git.handmade.network/hmn/pngkit/src/oops"
)

// FilterType is the per-scanline prediction scheme, stored as the byte that
// precedes each row in the decompressed pixel stream.
type FilterType byte

const (
	FilterNone    FilterType = 0
	FilterSub     FilterType = 1
	FilterUp      FilterType = 2
	FilterAverage FilterType = 3
	FilterPaeth   FilterType = 4
)

func (ft FilterType) String() string {
	switch ft {
	case FilterNone:
		return "None"
	case FilterSub:
		return "Sub"
	case FilterUp:
		return "Up"
	case FilterAverage:
		return "Average"
	case FilterPaeth:
		return "Paeth"
	}
	return fmt.Sprintf("Unknown(%d)", byte(ft))
}

// ParseFilterType turns a filter name like "paeth" back into its FilterType.
func ParseFilterType(name string) (FilterType, error) {
	for ft := FilterNone; ft <= FilterPaeth; ft++ {
		if strings.EqualFold(name, ft.String()) {
			return ft, nil
		}
	}
	return 0, oops.New(ErrUnknownFilterType, "%q", name)
}

/*
Unfilter reconstructs one raw scanline from its filtered form. prev is the
previously reconstructed scanline, or nil for the first row; bpp is the
pixel size in whole bytes (minimum 1). All arithmetic is byte-wise modulo
256. Sub, Average, and Paeth reference already-reconstructed bytes of the
output row, which is what makes this the exact inverse of Filter.
*/
func Unfilter(ft FilterType, line, prev []byte, bpp int) ([]byte, error) {
	out := make([]byte, len(line))
	switch ft {
	case FilterNone:
		copy(out, line)
	case FilterSub:
		for i := range line {
			var left byte
			if i >= bpp {
				left = out[i-bpp]
			}
			out[i] = line[i] + left
		}
	case FilterUp:
		for i := range line {
			out[i] = line[i] + rowAt(prev, i)
		}
	case FilterAverage:
		for i := range line {
			var left byte
			if i >= bpp {
				left = out[i-bpp]
			}
			out[i] = line[i] + byte((int(left)+int(rowAt(prev, i)))/2)
		}
	case FilterPaeth:
		for i := range line {
			var left, upLeft byte
			if i >= bpp {
				left = out[i-bpp]
				upLeft = rowAt(prev, i-bpp)
			}
			out[i] = line[i] + paeth(left, rowAt(prev, i), upLeft)
		}
	default:
		return nil, oops.New(ErrUnknownFilterType, "filter type %d", byte(ft))
	}
	return out, nil
}

/*
Filter converts one raw scanline into its filtered form. Here the neighbor
bytes come from the raw input line and the raw previous line, so that
Unfilter(Filter(line)) returns line for every filter type.
*/
func Filter(ft FilterType, line, prev []byte, bpp int) ([]byte, error) {
	out := make([]byte, len(line))
	switch ft {
	case FilterNone:
		copy(out, line)
	case FilterSub:
		for i := range line {
			var left byte
			if i >= bpp {
				left = line[i-bpp]
			}
			out[i] = line[i] - left
		}
	case FilterUp:
		for i := range line {
			out[i] = line[i] - rowAt(prev, i)
		}
	case FilterAverage:
		for i := range line {
			var left byte
			if i >= bpp {
				left = line[i-bpp]
			}
			out[i] = line[i] - byte((int(left)+int(rowAt(prev, i)))/2)
		}
	case FilterPaeth:
		for i := range line {
			var left, upLeft byte
			if i >= bpp {
				left = line[i-bpp]
				upLeft = rowAt(prev, i-bpp)
			}
			out[i] = line[i] - paeth(left, rowAt(prev, i), upLeft)
		}
	default:
		return nil, oops.New(ErrUnknownFilterType, "filter type %d", byte(ft))
	}
	return out, nil
}

// rowAt treats a nil previous row as all zeroes.
func rowAt(row []byte, i int) byte {
	if row == nil {
		return 0
	}
	return row[i]
}

// paeth picks whichever of left, up, and up-left is closest to the linear
// prediction left+up-upLeft, preferring left, then up, on ties.
func paeth(left, up, upLeft byte) byte {
	p := int(left) + int(up) - int(upLeft)
	pa := intAbs(p - int(left))
	pb := intAbs(p - int(up))
	pc := intAbs(p - int(upLeft))
	if pa <= pb && pa <= pc {
		return left
	} else if pb <= pc {
		return up
	}
	return upLeft
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
