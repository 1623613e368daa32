package annotation

import (
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
)

func clipRegion(img *pgimage.Image, x, y, w, h int) (cx, cy, cw, ch int, ok bool) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > img.Width() {
		w = img.Width() - x
	}
	if y+h > img.Height() {
		h = img.Height() - y
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}

// applyMosaic partitions the clipped region into block*block tiles and
// replaces each with the unweighted average of its channels, including
// alpha. Tiles at the right/bottom border are truncated.
func applyMosaic(img *pgimage.Image, x, y, w, h, block int) {
	if block < 1 {
		block = 1
	}
	cx, cy, cw, ch, ok := clipRegion(img, x, y, w, h)
	if !ok {
		return
	}

	for ty := cy; ty < cy+ch; ty += block {
		tileH := block
		if ty+tileH > cy+ch {
			tileH = cy + ch - ty
		}
		for tx := cx; tx < cx+cw; tx += block {
			tileW := block
			if tx+tileW > cx+cw {
				tileW = cx + cw - tx
			}

			var sum0, sum1, sum2, sum3 int
			count := tileW * tileH
			for py := ty; py < ty+tileH; py++ {
				for px := tx; px < tx+tileW; px++ {
					c0, c1, c2, c3 := img.At(px, py)
					sum0 += int(c0)
					sum1 += int(c1)
					sum2 += int(c2)
					sum3 += int(c3)
				}
			}
			avg0 := uint8(sum0 / count)
			avg1 := uint8(sum1 / count)
			avg2 := uint8(sum2 / count)
			avg3 := uint8(sum3 / count)

			for py := ty; py < ty+tileH; py++ {
				for px := tx; px < tx+tileW; px++ {
					img.Set(px, py, avg0, avg1, avg2, avg3)
				}
			}
		}
	}
}

// applyBlur performs three passes of separable box blur (horizontal then
// vertical per pass) with edge-extend clamping, approximating a Gaussian
// of sigma ~= radius*sqrt(3/pi) in O(w*h) time regardless of radius.
func applyBlur(img *pgimage.Image, x, y, w, h, radius int) {
	if radius < 1 {
		return
	}
	cx, cy, cw, ch, ok := clipRegion(img, x, y, w, h)
	if !ok {
		return
	}

	// Work on a local float buffer of the clipped region so clamping reads
	// stay within the region instead of leaking neighboring shape pixels.
	type px struct{ c0, c1, c2, c3 float64 }
	buf := make([]px, cw*ch)
	at := func(bx, by int) px {
		if bx < 0 {
			bx = 0
		}
		if bx >= cw {
			bx = cw - 1
		}
		if by < 0 {
			by = 0
		}
		if by >= ch {
			by = ch - 1
		}
		return buf[by*cw+bx]
	}

	for iy := 0; iy < ch; iy++ {
		for ix := 0; ix < cw; ix++ {
			c0, c1, c2, c3 := img.At(cx+ix, cy+iy)
			buf[iy*cw+ix] = px{float64(c0), float64(c1), float64(c2), float64(c3)}
		}
	}

	tmp := make([]px, cw*ch)
	boxPass := func() {
		// horizontal
		for iy := 0; iy < ch; iy++ {
			for ix := 0; ix < cw; ix++ {
				var s px
				n := 0
				for k := -radius; k <= radius; k++ {
					p := at(ix+k, iy)
					s.c0 += p.c0
					s.c1 += p.c1
					s.c2 += p.c2
					s.c3 += p.c3
					n++
				}
				tmp[iy*cw+ix] = px{s.c0 / float64(n), s.c1 / float64(n), s.c2 / float64(n), s.c3 / float64(n)}
			}
		}
		copy(buf, tmp)
		// vertical
		for iy := 0; iy < ch; iy++ {
			for ix := 0; ix < cw; ix++ {
				var s px
				n := 0
				for k := -radius; k <= radius; k++ {
					p := at(ix, iy+k)
					s.c0 += p.c0
					s.c1 += p.c1
					s.c2 += p.c2
					s.c3 += p.c3
					n++
				}
				tmp[iy*cw+ix] = px{s.c0 / float64(n), s.c1 / float64(n), s.c2 / float64(n), s.c3 / float64(n)}
			}
		}
		copy(buf, tmp)
	}

	boxPass()
	boxPass()
	boxPass()

	for iy := 0; iy < ch; iy++ {
		for ix := 0; ix < cw; ix++ {
			p := buf[iy*cw+ix]
			img.Set(cx+ix, cy+iy, uint8(p.c0+0.5), uint8(p.c1+0.5), uint8(p.c2+0.5), uint8(p.c3+0.5))
		}
	}
}
