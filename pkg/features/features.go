// Package features extracts sparse binary feature vectors from Atari RAM
// for use by the linear function approximators in pkg/lfa.
package features

const (
	// RAMLength is the number of bytes in ALE's RAM snapshot.
	RAMLength = 128
	byteLen   = 8
)

// NumFeatures is the dimensionality of the feature space: one bit position
// per RAM bit, plus a trailing bias feature that is always on (unless
// masked out via a null-feature group).
const NumFeatures = RAMLength*byteLen + 1

// BiasIndex is the index of the always-on bias feature.
const BiasIndex = NumFeatures - 1

// Extractor turns a 128-byte RAM snapshot into the sparse list of feature
// indices that are "on". A feature at a masked ("null") position is
// dropped from the result, supporting the staged feature-reveal schedule
// used by incremental agents.
type Extractor struct {
	nullFeatures map[int]struct{}
}

// NewExtractor returns an Extractor with no masked features.
func NewExtractor() *Extractor {
	return &Extractor{nullFeatures: make(map[int]struct{})}
}

// ClearNullFeatures unmasks every previously masked feature index.
func (e *Extractor) ClearNullFeatures() {
	e.nullFeatures = make(map[int]struct{})
}

// AddNullFeature masks feature so it is never reported as "on".
func (e *Extractor) AddNullFeature(feature int) {
	e.nullFeatures[feature] = struct{}{}
}

// IsNull reports whether feature is currently masked.
func (e *Extractor) IsNull(feature int) bool {
	_, ok := e.nullFeatures[feature]
	return ok
}

// Extract returns the indices of the "on" features for ram, appending into
// dst (which may be nil) and returning the (possibly reallocated) slice.
// Bit j of byte i maps to feature index 8*i + (7-j), i.e. most-significant
// bit first. A trailing bias feature (BiasIndex) is always appended unless
// masked, guaranteeing at least one non-zero feature even for all-zero RAM.
func (e *Extractor) Extract(ram [RAMLength]byte, dst []int) []int {
	dst = dst[:0]
	for i := 0; i < RAMLength; i++ {
		b := ram[i]
		for j := 0; j < byteLen; j++ {
			if b&(1<<uint(j)) == 0 {
				continue
			}
			pos := byteLen*i + (byteLen - 1 - j)
			if e.IsNull(pos) {
				continue
			}
			dst = append(dst, pos)
		}
	}
	if !e.IsNull(BiasIndex) {
		dst = append(dst, BiasIndex)
	}
	return dst
}
