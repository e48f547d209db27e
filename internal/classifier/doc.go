// Package classifier turns a single digit image into a digit value.
//
// A digit image is split into seven overlapping zones, one per stroke of a
// seven-segment display. Each zone is scanned for a line in the orientation of
// its stroke (horizontal for top, middle and bottom; vertical for the four
// sides). The seven presence flags form a FeatureVector which must equal one
// entry of the pattern table exactly. There is no nearest-match fallback: a
// vector that matches nothing yields a *MismatchError carrying the vector.
package classifier
