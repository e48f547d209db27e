package classifier

import (
	"image"

	"github.com/ironsheep/segment-reader/internal/detection"
	"github.com/ironsheep/segment-reader/internal/imaging"
)

// ZoneResult is the outcome of scanning one zone of a digit image.
type ZoneResult struct {
	Segment     string         `json:"segment"`
	Orientation string         `json:"orientation"`
	Bounds      imaging.Region `json:"bounds"`
	Lines       []int          `json:"lines"`
	Present     bool           `json:"present"`

	seg Segment
}

// AlgorithmModel classifies a digit image by checking each of the seven
// segment zones for a line and looking the result up in a pattern table.
//
// The model holds only read-only state and may be shared across goroutines.
type AlgorithmModel struct {
	detector *detection.LineDetector
	patterns PatternTable
}

// NewAlgorithmModel creates a model using the canonical digit patterns and a
// line detector configured with opts.
func NewAlgorithmModel(opts detection.Options) *AlgorithmModel {
	return &AlgorithmModel{
		detector: detection.NewLineDetector(opts),
		patterns: DigitPatterns(),
	}
}

// Patterns returns a copy of the model's pattern table.
func (m *AlgorithmModel) Patterns() PatternTable {
	table := make(PatternTable, len(m.patterns))
	copy(table, m.patterns)
	return table
}

// Detector returns the line detector used for zone scans.
func (m *AlgorithmModel) Detector() *detection.LineDetector {
	return m.detector
}

// Inspect scans every zone of img and returns the per-zone results in
// Segments order. Zones are copied out of img, so line indices are relative
// to each zone's top-left corner.
func (m *AlgorithmModel) Inspect(img image.Image) []ZoneResult {
	bounds := img.Bounds()
	zones := Zones(bounds.Dx(), bounds.Dy())

	results := make([]ZoneResult, 0, len(zones))
	for _, z := range zones {
		lines := m.detector.Detect(imaging.SubImage(img, z.Bounds), z.Orientation)
		results = append(results, ZoneResult{
			Segment:     z.Segment.String(),
			Orientation: z.Orientation.String(),
			Bounds:      imaging.RegionOf(z.Bounds),
			Lines:       lines,
			Present:     len(lines) > 0,
			seg:         z.Segment,
		})
	}
	return results
}

// Analyze scans every zone of img once and returns both the per-zone results
// and the feature vector they add up to.
func (m *AlgorithmModel) Analyze(img image.Image) ([]ZoneResult, FeatureVector) {
	zones := m.Inspect(img)
	var v FeatureVector
	for _, z := range zones {
		v = v.With(z.seg, z.Present)
	}
	return zones, v
}

// Features computes the feature vector of img. Each zone scan stops at the
// first line, so this is cheaper than Analyze when line positions are not
// needed.
func (m *AlgorithmModel) Features(img image.Image) FeatureVector {
	bounds := img.Bounds()
	var v FeatureVector
	for _, z := range Zones(bounds.Dx(), bounds.Dy()) {
		v = v.With(z.Segment, m.detector.HasLine(imaging.SubImage(img, z.Bounds), z.Orientation))
	}
	return v
}

// Classify looks v up in the model's pattern table. A miss is a
// *MismatchError carrying v.
func (m *AlgorithmModel) Classify(v FeatureVector) (int, error) {
	digit, ok := m.patterns.Match(v)
	if !ok {
		return 0, &MismatchError{Features: v}
	}
	return digit, nil
}

// Predict classifies img as a digit 0-9. When the feature vector matches no
// pattern the error is a *MismatchError carrying that vector.
func (m *AlgorithmModel) Predict(img image.Image) (int, error) {
	return m.Classify(m.Features(img))
}
