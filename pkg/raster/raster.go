// Package raster provides the straight-alpha RGBA8 pixel buffer passed
// between shadow pipeline stages.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	gomath "math"

	xdraw "golang.org/x/image/draw"
)

// Buffer is a row-major RGBA8 image with straight (non-premultiplied) alpha.
// A stage that produces a Buffer must not modify it after handing it on.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*4
}

// New returns a fully transparent buffer.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// FromPixels wraps existing RGBA pixel data.
func FromPixels(pixels []byte, width, height int) (*Buffer, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	return &Buffer{Width: width, Height: height, Pix: pixels}, nil
}

// FromImage converts any image into a straight-alpha buffer.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		// Row copy keeps straight alpha exact; the generic path round-trips
		// through premultiplied color.
		rowSize := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowSize], src.Pix[off:off+rowSize])
		}
		return &Buffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
	}
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return &Buffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// NRGBA returns an image view sharing the buffer's pixels.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Offset returns the index of pixel (x, y) in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the RGBA components at (x, y). Out-of-range reads are transparent black.
func (b *Buffer) At(x, y int) [4]byte {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return [4]byte{}
	}
	i := b.Offset(x, y)
	return [4]byte{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Set writes the RGBA components at (x, y). Out-of-range writes are ignored.
func (b *Buffer) Set(x, y int, c [4]byte) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.Offset(x, y)
	copy(b.Pix[i:i+4], c[:])
}

// Bilinear samples the buffer at a fractional position, interpolating each
// straight-alpha channel. Positions outside [0, Width-1) x [0, Height-1),
// including NaN, are transparent black.
func (b *Buffer) Bilinear(x, y float64) [4]byte {
	if !(x >= 0 && y >= 0 && x < float64(b.Width-1) && y < float64(b.Height-1)) {
		return [4]byte{}
	}
	x0, y0 := int(x), int(y)
	fx, fy := x-float64(x0), y-float64(y0)

	i00 := b.Offset(x0, y0)
	i10 := i00 + 4
	i01 := b.Offset(x0, y0+1)
	i11 := i01 + 4

	var out [4]byte
	for c := 0; c < 4; c++ {
		top := float64(b.Pix[i00+c])*(1-fx) + float64(b.Pix[i10+c])*fx
		bot := float64(b.Pix[i01+c])*(1-fx) + float64(b.Pix[i11+c])*fx
		out[c] = clamp8(top*(1-fy) + bot*fy)
	}
	return out
}

func clamp8(v float64) byte {
	v = gomath.Round(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

// FlipVertical returns a copy with rows reversed. OpenGL readback has its
// origin at the bottom-left.
func (b *Buffer) FlipVertical() *Buffer {
	out := New(b.Width, b.Height)
	rowSize := b.Width * 4
	for y := 0; y < b.Height; y++ {
		src := (b.Height - 1 - y) * rowSize
		copy(out.Pix[y*rowSize:(y+1)*rowSize], b.Pix[src:src+rowSize])
	}
	return out
}

// Downscale shrinks the buffer so its longest edge is at most maxEdge.
// Buffers already within the limit are returned unchanged.
func (b *Buffer) Downscale(maxEdge int) *Buffer {
	longest := max(b.Width, b.Height)
	if maxEdge <= 0 || longest <= maxEdge {
		return b
	}
	scale := float64(maxEdge) / float64(longest)
	w := max(1, int(gomath.Round(float64(b.Width)*scale)))
	h := max(1, int(gomath.Round(float64(b.Height)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), b.NRGBA(), b.NRGBA().Bounds(), xdraw.Src, nil)
	return &Buffer{Width: w, Height: h, Pix: dst.Pix}
}

// EncodePNG writes the buffer as a PNG image.
func (b *Buffer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.NRGBA()); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// PNG returns the buffer encoded as PNG bytes.
func (b *Buffer) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePNG reads a PNG image into a straight-alpha buffer.
func DecodePNG(r io.Reader) (*Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding PNG: %w", err)
	}
	return FromImage(img), nil
}
