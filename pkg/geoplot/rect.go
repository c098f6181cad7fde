package geoplot

// Rect is an axis-aligned extent in projected coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) Valid() bool {
	return r.X1 > r.X0 && r.Y1 > r.Y0
}

func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Expand grows the rect to include the point.
func (r Rect) Expand(x, y float64) Rect {
	if x < r.X0 {
		r.X0 = x
	}
	if x > r.X1 {
		r.X1 = x
	}
	if y < r.Y0 {
		r.Y0 = y
	}
	if y > r.Y1 {
		r.Y1 = y
	}
	return r
}

// Union widens the rect to cover o as well.
func (r Rect) Union(o Rect) Rect {
	return r.Expand(o.X0, o.Y0).Expand(o.X1, o.Y1)
}

// Pad grows each side by frac of the extent. A side with zero extent is
// padded by one projected unit so a lone data point still gets a view.
func (r Rect) Pad(frac float64) Rect {
	dx := r.Width() * frac
	if dx == 0 {
		dx = 1
	}
	dy := r.Height() * frac
	if dy == 0 {
		dy = 1
	}
	return Rect{X0: r.X0 - dx, Y0: r.Y0 - dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}
