package util

import (
	"slices"

	"github.com/mvs-org/mvsd/errors"
)

// MedianTimeBlocks is the number of previous headers a block timestamp is
// compared against.
const MedianTimeBlocks = 11

// CalcPastMedianTime returns the median of up to MedianTimeBlocks header
// timestamps. For even counts the upper middle element is used.
func CalcPastMedianTime(timestamps []uint32) (uint32, error) {
	switch {
	case len(timestamps) == 0:
		return 0, errors.NewProcessingError("no timestamps for median time calculation")
	case len(timestamps) > MedianTimeBlocks:
		return 0, errors.NewProcessingError("%d timestamps exceed the median time window of %d", len(timestamps), MedianTimeBlocks)
	}

	sorted := slices.Clone(timestamps)
	slices.Sort(sorted)

	return sorted[len(sorted)/2], nil
}
