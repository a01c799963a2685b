package coordinator

import "strings"

// Markers are the explicit workflow switches an author can put anywhere in a
// turn. A turn without a marker (and without an image) is treated as a
// drafting request.
const (
	MarkerCitations   = "@citations"
	MarkerRetractions = "@check-retractions"
	MarkerReview      = "@review"
	MarkerRepo        = "@repo"
	MarkerEnhance     = "@enhance"
)

// hasMarker matches the exact marker literal; "@Review" is drafting text,
// not a switch.
func hasMarker(text, marker string) bool {
	return strings.Contains(text, marker)
}
