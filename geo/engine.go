package geo

import "math"

// MapEngine is the contract the overlay needs from whatever map is
// underneath it: a projection snapshot (center, zoom, pixel origin) and
// movement notifications. The overlay never assumes a concrete map
// library beyond these four capabilities.
type MapEngine interface {
	// Viewport returns the current transform snapshot. Callers take it
	// once per frame and treat it as read-only.
	Viewport() Viewport

	// OnMove registers a callback fired on every pan/zoom tick.
	OnMove(fn func()) (unsubscribe func())

	// OnMoveEnd registers a callback fired when the viewport settles.
	OnMoveEnd(fn func()) (unsubscribe func())
}

// MapCamera is the built-in MapEngine: a slippy-map style camera driven
// by pixel pans and zoom factors, with settle detection after a quiet
// period of frames.
type MapCamera struct {
	view Viewport

	MinZoom, MaxZoom float64

	moveSubs    map[int]func()
	moveEndSubs map[int]func()
	nextSubID   int

	settleFrames  int
	idleFrames    int
	movedSinceEnd bool
}

// NewMapCamera creates a camera centered on the given position.
// settleFrames is how many quiet frames count as "viewport settled".
func NewMapCamera(lat, lon, zoom, width, height float64, settleFrames int) *MapCamera {
	return &MapCamera{
		view: Viewport{
			CenterLat: ClampLat(lat),
			CenterLon: lon,
			Zoom:      zoom,
			Width:     width,
			Height:    height,
		},
		MinZoom:      1,
		MaxZoom:      16,
		moveSubs:     map[int]func(){},
		moveEndSubs:  map[int]func(){},
		settleFrames: settleFrames,
	}
}

// Viewport returns the current transform snapshot.
func (c *MapCamera) Viewport() Viewport { return c.view }

// OnMove registers a pan/zoom tick callback.
func (c *MapCamera) OnMove(fn func()) func() {
	id := c.nextSubID
	c.nextSubID++
	c.moveSubs[id] = fn
	return func() { delete(c.moveSubs, id) }
}

// OnMoveEnd registers a settle callback.
func (c *MapCamera) OnMoveEnd(fn func()) func() {
	id := c.nextSubID
	c.nextSubID++
	c.moveEndSubs[id] = fn
	return func() { delete(c.moveEndSubs, id) }
}

// Pan shifts the view by a screen-pixel delta.
func (c *MapCamera) Pan(dxPix, dyPix float64) {
	ws := c.view.worldSize()
	mx := MercatorX(c.view.CenterLon) + dxPix/ws
	my := MercatorY(c.view.CenterLat) + dyPix/ws
	if my < 0 {
		my = 0
	}
	if my > 1 {
		my = 1
	}
	c.view.CenterLon = InverseMercatorX(mx)
	c.view.CenterLat = InverseMercatorY(my)
	c.notifyMove()
}

// ZoomBy multiplies the zoom scale, anchored at the viewport center.
func (c *MapCamera) ZoomBy(factor float64) {
	z := c.view.Zoom + math.Log2(factor)
	if z < c.MinZoom {
		z = c.MinZoom
	}
	if z > c.MaxZoom {
		z = c.MaxZoom
	}
	if z == c.view.Zoom {
		return
	}
	c.view.Zoom = z
	c.notifyMove()
}

// Resize updates the pixel dimensions of the viewport.
func (c *MapCamera) Resize(width, height float64) {
	if width == c.view.Width && height == c.view.Height {
		return
	}
	c.view.Width = width
	c.view.Height = height
	c.notifyMove()
}

// Tick advances settle detection by one frame. Call once per frame
// after input handling.
func (c *MapCamera) Tick() {
	if !c.movedSinceEnd {
		return
	}
	c.idleFrames++
	if c.idleFrames >= c.settleFrames {
		c.movedSinceEnd = false
		for _, fn := range c.moveEndSubs {
			fn()
		}
	}
}

func (c *MapCamera) notifyMove() {
	c.idleFrames = 0
	c.movedSinceEnd = true
	for _, fn := range c.moveSubs {
		fn()
	}
}
