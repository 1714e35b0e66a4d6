package tilemap

// AnchorKind tags the variant of an Anchor.
type AnchorKind uint8

const (
	AnchorNone AnchorKind = iota
	AnchorTopLeft
	AnchorTopCenter
	AnchorTopRight
	AnchorCenterLeft
	AnchorCenter
	AnchorCenterRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
	AnchorCustom
)

// Anchor selects the point of the map's bounding rectangle that coincides
// with the map's transform origin. The offset itself is computed by
// coord.AnchorOffset.
type Anchor struct {
	Kind AnchorKind
	// Custom is the anchor in rectangle-relative units when Kind is
	// AnchorCustom: (0, 0) is the center, (-0.5, 0.5) the top-left corner.
	Custom Vec2
}

// Named anchors.
var (
	NoAnchor           = Anchor{Kind: AnchorNone}
	TopLeftAnchor      = Anchor{Kind: AnchorTopLeft}
	TopCenterAnchor    = Anchor{Kind: AnchorTopCenter}
	TopRightAnchor     = Anchor{Kind: AnchorTopRight}
	CenterLeftAnchor   = Anchor{Kind: AnchorCenterLeft}
	CenterAnchor       = Anchor{Kind: AnchorCenter}
	CenterRightAnchor  = Anchor{Kind: AnchorCenterRight}
	BottomLeftAnchor   = Anchor{Kind: AnchorBottomLeft}
	BottomCenterAnchor = Anchor{Kind: AnchorBottomCenter}
	BottomRightAnchor  = Anchor{Kind: AnchorBottomRight}
)

// CustomAnchor returns an anchor at v in rectangle-relative units.
func CustomAnchor(v Vec2) Anchor {
	return Anchor{Kind: AnchorCustom, Custom: v}
}

// Relative returns the anchor as a rectangle-relative point, where
// (-0.5, -0.5) is the bottom-left corner and (0.5, 0.5) the top-right.
// The second result is false for AnchorNone.
func (a Anchor) Relative() (Vec2, bool) {
	switch a.Kind {
	case AnchorTopLeft:
		return Vec2{X: -0.5, Y: 0.5}, true
	case AnchorTopCenter:
		return Vec2{X: 0, Y: 0.5}, true
	case AnchorTopRight:
		return Vec2{X: 0.5, Y: 0.5}, true
	case AnchorCenterLeft:
		return Vec2{X: -0.5, Y: 0}, true
	case AnchorCenter:
		return Vec2{}, true
	case AnchorCenterRight:
		return Vec2{X: 0.5, Y: 0}, true
	case AnchorBottomLeft:
		return Vec2{X: -0.5, Y: -0.5}, true
	case AnchorBottomCenter:
		return Vec2{X: 0, Y: -0.5}, true
	case AnchorBottomRight:
		return Vec2{X: 0.5, Y: -0.5}, true
	case AnchorCustom:
		return a.Custom, true
	}
	return Vec2{}, false
}

// Opposite returns the anchor mirrored through the center.
func (a Anchor) Opposite() Anchor {
	switch a.Kind {
	case AnchorNone, AnchorCenter:
		return a
	case AnchorCustom:
		return CustomAnchor(a.Custom.Neg())
	}
	rel, _ := a.Relative()
	rel = rel.Neg()
	for k := AnchorTopLeft; k <= AnchorBottomRight; k++ {
		if r, _ := (Anchor{Kind: k}).Relative(); r == rel {
			return Anchor{Kind: k}
		}
	}
	return a
}
