package classifier

// Pattern pairs a digit with its canonical feature vector.
type Pattern struct {
	Digit    int           `json:"digit"`
	Features FeatureVector `json:"features"`
}

// PatternTable is an ordered list of digit patterns. Matching walks it front to
// back, so the first exact match wins.
type PatternTable []Pattern

// canonical is never handed out directly; DigitPatterns returns a copy.
var canonical = PatternTable{
	{0, VectorOf(Top, TopRight, BottomRight, Bottom, BottomLeft, TopLeft)},
	{1, VectorOf(TopRight, BottomRight)},
	{2, VectorOf(Top, TopRight, Bottom, BottomLeft, Middle)},
	{3, VectorOf(Top, TopRight, BottomRight, Bottom, Middle)},
	{4, VectorOf(TopRight, BottomRight, TopLeft)},
	{5, VectorOf(Top, BottomRight, Bottom, TopLeft, Middle)},
	{6, VectorOf(Top, BottomRight, Bottom, BottomLeft, TopLeft, Middle)},
	{7, VectorOf(Top, TopRight, BottomRight, TopLeft)},
	{8, VectorOf(Top, TopRight, BottomRight, Bottom, BottomLeft, TopLeft, Middle)},
	{9, VectorOf(Top, TopRight, BottomRight, Bottom, TopLeft, Middle)},
}

// DigitPatterns returns the seven-segment table for digits 0-9 in ascending
// order. This display draws 4 without a middle bar and 7 with a top-left
// stroke.
func DigitPatterns() PatternTable {
	table := make(PatternTable, len(canonical))
	copy(table, canonical)
	return table
}

// Match returns the digit of the first pattern exactly equal to v.
func (t PatternTable) Match(v FeatureVector) (int, bool) {
	for _, p := range t {
		if p.Features == v {
			return p.Digit, true
		}
	}
	return 0, false
}
