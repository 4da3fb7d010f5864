package effects

import "fmt"

// DefaultBlurSigma is used when a blur is requested without a radius.
const DefaultBlurSigma = 2.0

// New creates a filter by name with its default parameters. Parameterized
// variants can also be constructed directly.
func New(name string) (Effect, error) {
	switch name {
	case "grayscale":
		return Grayscale{}, nil
	case "invert":
		return Invert{}, nil
	case "sepia":
		return Sepia{}, nil
	case "gblur":
		return GaussianBlur{Sigma: DefaultBlurSigma}, nil
	case "edge":
		return EdgeHighlight{Threshold: DefaultEdgeThreshold}, nil
	case "dotart":
		return Dotart{
			Scale: DefaultDotScale,
			Lower: DefaultDotLower,
			Upper: DefaultDotUpper,
		}, nil
	default:
		return nil, fmt.Errorf("unknown effect: %s", name)
	}
}
