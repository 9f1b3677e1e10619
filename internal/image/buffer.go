package image

import (
	"image"
	"image/color"

	"github.com/jmylchreest/ryijy/internal/colour"
	"github.com/jmylchreest/ryijy/internal/quantise"
)

// ToPixelBuffer converts img into a quantise.PixelBuffer. A pixel is opaque
// when its alpha is non-zero; its colour is the un-premultiplied RGB.
func ToPixelBuffer(img image.Image) (*quantise.PixelBuffer, error) {
	bounds := img.Bounds()
	buf, err := quantise.NewPixelBuffer(bounds.Dy(), bounds.Dx())
	if err != nil {
		return nil, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range bounds.Dy() {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := range bounds.Dx() {
				p := row[x*4 : x*4+4]
				if p[3] == 0 {
					continue
				}
				buf.Set(y, x, quantise.Opaque(colour.RGB{R: p[0], G: p[1], B: p[2]}))
			}
		}
		return buf, nil
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			n := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if n.A == 0 {
				continue
			}
			buf.Set(y-bounds.Min.Y, x-bounds.Min.X, quantise.Opaque(colour.RGB{R: n.R, G: n.G, B: n.B}))
		}
	}
	return buf, nil
}

// FromPixelBuffer draws buf into an NRGBA image, leaving transparent cells clear.
func FromPixelBuffer(buf *quantise.PixelBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Cols(), buf.Rows()))
	for y := range buf.Rows() {
		for x := range buf.Cols() {
			p := buf.At(y, x)
			if !p.Opaque {
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{R: p.Colour.R, G: p.Colour.G, B: p.Colour.B, A: 255})
		}
	}
	return img
}
