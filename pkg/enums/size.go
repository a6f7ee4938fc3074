package enums

import "fmt"

// SizeLabel is the human-facing garment size. The commerce backend stores
// sizes as indexes into the fixed label set.
type SizeLabel string

const (
	SizeXS SizeLabel = "XS"
	SizeS  SizeLabel = "S"
	SizeM  SizeLabel = "M"
	SizeL  SizeLabel = "L"
	SizeXL SizeLabel = "XL"
)

var sizeLabels = []SizeLabel{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// String implements fmt.Stringer.
func (s SizeLabel) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SizeLabel.
func (s SizeLabel) IsValid() bool {
	for _, candidate := range sizeLabels {
		if candidate == s {
			return true
		}
	}
	return false
}

// SizeLabelFromIndex maps the backend size index onto its label.
func SizeLabelFromIndex(index int) (SizeLabel, error) {
	if index < 0 || index >= len(sizeLabels) {
		return "", fmt.Errorf("invalid size index %d", index)
	}
	return sizeLabels[index], nil
}

// SizeIndex maps a label back onto the backend size index.
func SizeIndex(label SizeLabel) (int, error) {
	for i, candidate := range sizeLabels {
		if candidate == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid size label %q", label)
}
