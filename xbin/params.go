package xbin

// MaxOriNside bounds the orientation side count.
const MaxOriNside = 1024

// MaxKeyBits is the widest untagged key. The bits above it hold the tags.
const MaxKeyBits = 60

// Params are the construction parameters of a Hash.
type Params struct {
	// CartResl is the translation covering radius.
	CartResl float64 `json:"cart_resl"`

	// OriResl is the requested orientation resolution in degrees. It is
	// ignored when OriNside is set.
	OriResl float64 `json:"ori_resl,omitempty"`

	// OriNside is an explicit orientation side count.
	OriNside int `json:"ori_nside,omitempty"`

	// MaxCart bounds every translation component to [-MaxCart, MaxCart].
	MaxCart float64 `json:"max_cart"`
}

// DefaultParams are 1 unit translation, 20 degrees orientation resolution
// and a +-512 unit box.
var DefaultParams = Params{
	CartResl: 1,
	OriResl:  20,
	MaxCart:  512,
}
