package main

import "math"

// toWorld maps a screen pixel to world space under v.
func toWorld(p point, v Viewport) point {
	return p.Sub(v.Offset).Div(v.Scale)
}

// toScreen is the inverse of toWorld.
func toScreen(w point, v Viewport) point {
	return w.Mul(v.Scale).Add(v.Offset)
}

// zoomAt scales v by one wheel step per unit of direction, keeping the world
// point under p fixed on screen. The scale is clamped before the offset is
// derived from it.
func zoomAt(p point, v Viewport, direction float64) Viewport {
	anchor := toWorld(p, v)
	scale := clampScale(v.Scale * (1 + direction*zoomIntensity))
	return Viewport{
		Offset: p.Sub(anchor.Mul(scale)),
		Scale:  scale,
	}
}

func panBy(v Viewport, delta point) Viewport {
	v.Offset = v.Offset.Add(delta)
	return v
}

func clampScale(s float64) float64 {
	if s < minScale {
		return minScale
	}
	if s > maxScale {
		return maxScale
	}
	return s
}

// visibleCenter returns the world point at the middle of a screen of the
// given pixel size.
func visibleCenter(v Viewport, screen size) point {
	return toWorld(point{screen.W / 2, screen.H / 2}, v)
}

// cellToScreen returns the pixel at the centre of a terminal cell.
func cellToScreen(x, y int) point {
	return point{
		X: float64(x)*cellWidth + cellWidth/2,
		Y: float64(y)*cellHeight + cellHeight/2,
	}
}

// screenToCell returns the terminal cell containing a screen pixel.
func screenToCell(p point) (int, int) {
	return floorInt(p.X / cellWidth), floorInt(p.Y / cellHeight)
}

func floorInt(f float64) int {
	return int(math.Floor(f))
}
