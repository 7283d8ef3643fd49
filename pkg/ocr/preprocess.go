package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// enhance converts to grayscale, lifts contrast and scales small captures
// up so digits are at least ~30px high.
func enhance(img image.Image) *image.NRGBA {
	g := imaging.Grayscale(img)
	g = imaging.AdjustContrast(g, 15)
	g = imaging.Sharpen(g, 0.7)
	if g.Bounds().Dy() < 900 {
		g = imaging.Resize(g, 0, 1300, imaging.Lanczos)
	}
	return g
}

// topHalf is where mobile banking receipts print the amount.
func topHalf(img *image.NRGBA) image.Image {
	b := img.Bounds()
	if b.Dy() < 100 {
		return nil
	}
	return imaging.Crop(img, image.Rect(0, 0, b.Dx(), b.Dy()/2))
}

func luma(img *image.NRGBA, x, y int) int {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return (int(p[0]) + int(p[1]) + int(p[2])) / 3
}

// adaptiveThreshold blackens pixels darker than their window mean minus
// bias, using an integral image.
func adaptiveThreshold(img *image.NRGBA, window, bias int) *image.NRGBA {
	window = max(window|1, 3)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := img
	sum := make([]int, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		row := 0
		for x := 0; x < w; x++ {
			row += luma(src, x, y)
			sum[(y+1)*(w+1)+x+1] = sum[y*(w+1)+x+1] + row
		}
	}
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	half := window / 2
	for y := 0; y < h; y++ {
		y0, y1 := max(y-half, 0), min(y+half, h-1)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-half, 0), min(x+half, w-1)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			total := sum[(y1+1)*(w+1)+x1+1] - sum[y0*(w+1)+x1+1] - sum[(y1+1)*(w+1)+x0] + sum[y0*(w+1)+x0]
			if luma(src, x, y) < max(total/area-bias, 0) {
				out.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return out
}

// dilate grows black strokes by one pixel in the four directions, radius
// times, joining broken digit segments.
func dilate(img *image.NRGBA, radius int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cur := img
	for r := 0; r < radius; r++ {
		next := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				for _, d := range [5][2]int{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if luma(cur, nx, ny) == 0 {
						next.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
						break
					}
				}
			}
		}
		cur = next
	}
	return cur
}
