package chart

import "math"

// Zoom bounds and step sizes.
const (
	MinZoom    = 1.0
	MaxZoom    = 3.0
	ZoomStep   = 0.5
	ZoomFactor = 1.5
)

// Domain is an inclusive index range into a Series.
type Domain struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Width returns the number of indices covered by the domain.
func (d Domain) Width() int { return d.End - d.Start + 1 }

// Viewport is the visible index range of a series together with its zoom level.
// It is a value type: every operation returns the next state and leaves the
// receiver untouched. The zero value is not useful; use NewViewport.
type Viewport struct {
	domain   Domain
	zoom     float64
	maxIndex int
}

// NewViewport returns the full-range viewport at zoom 1 for a series of n records.
func NewViewport(n int) Viewport {
	m := maxIndexFor(n)
	return Viewport{domain: Domain{Start: 0, End: m}, zoom: MinZoom, maxIndex: m}
}

func (v Viewport) Domain() Domain { return v.domain }
func (v Viewport) Zoom() float64  { return v.zoom }
func (v Viewport) MaxIndex() int  { return v.maxIndex }

// CanZoomIn reports whether ZoomIn would be applied.
func (v Viewport) CanZoomIn() bool { return v.zoom < MaxZoom }

// CanZoomOut reports whether ZoomOut would be applied.
func (v Viewport) CanZoomOut() bool { return v.zoom > MinZoom }

// ZoomIn narrows the domain by ZoomFactor around its midpoint. At MaxZoom it
// returns the receiver unchanged and false.
func (v Viewport) ZoomIn() (Viewport, bool) {
	if !v.CanZoomIn() {
		return v, false
	}

	center := float64(v.domain.Start+v.domain.End) / 2
	newRange := max(1, int(math.Floor(float64(v.span())/ZoomFactor)))

	next := v
	next.domain = v.centeredOn(center, newRange)
	next.zoom = math.Min(v.zoom+ZoomStep, MaxZoom)
	return next, true
}

// ZoomOut widens the domain by ZoomFactor, snapping to the full range once the
// widened range would cover it. At MinZoom it returns the receiver unchanged and false.
func (v Viewport) ZoomOut() (Viewport, bool) {
	if !v.CanZoomOut() {
		return v, false
	}

	newRange := min(v.maxIndex, int(math.Ceil(float64(v.span())*ZoomFactor)))

	next := v
	if newRange >= v.maxIndex {
		next.domain = Domain{Start: 0, End: v.maxIndex}
	} else {
		center := float64(v.domain.Start+v.domain.End) / 2
		next.domain = v.centeredOn(center, newRange)
	}
	next.zoom = math.Max(v.zoom-ZoomStep, MinZoom)
	return next, true
}

// Reset restores the full domain and zoom 1.
func (v Viewport) Reset() Viewport {
	return Viewport{domain: Domain{Start: 0, End: v.maxIndex}, zoom: MinZoom, maxIndex: v.maxIndex}
}

// span is the current range with a floor of 1 so a single-point domain still zooms.
func (v Viewport) span() int {
	return max(v.domain.End-v.domain.Start, 1)
}

// centeredOn floors the start and ceils the end, then clamps to [0, maxIndex].
// center lies inside the current domain, so start <= end holds after clamping.
func (v Viewport) centeredOn(center float64, newRange int) Domain {
	half := float64(newRange) / 2
	return Domain{
		Start: max(0, int(math.Floor(center-half))),
		End:   min(v.maxIndex, int(math.Ceil(center+half))),
	}
}

func maxIndexFor(n int) int {
	return max(n-1, 0)
}
