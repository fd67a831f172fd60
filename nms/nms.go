// Package nms implements category-aware non-maximum suppression over
// geometric detections, per the tile-and-predict orchestrator's merge
// step: among detections of the same category, keep only the
// highest-confidence representative of any overlapping cluster.
package nms

import (
	"sort"

	"github.com/periopdigitize/chartextract/geom"
)

// Threshold is the IoU value above which two same-category detections
// are considered the same object; the lower-confidence one is dropped.
type Threshold float64

// Suppress runs category-aware NMS over detections and returns the
// survivors in descending-confidence order. It does not mutate the
// input slice.
//
// Algorithm (matches the original spec exactly, including its
// complexity and tie-breaking):
//  1. Stable-sort by descending confidence (ties keep input order).
//  2. Walk survivors left to right; for each undropped i, scan j > i
//     and drop j when it shares i's category and IoU(i, j) > theta.
//  3. Return the undropped detections, still confidence-descending.
//
// Complexity is O(n^2), acceptable at the per-image detection counts
// this pipeline produces (at most a few thousand).
func Suppress[A geom.BoxGeometry](detections []geom.Detection[A], theta Threshold) []geom.Detection[A] {
	n := len(detections)
	ordered := make([]geom.Detection[A], n)
	copy(ordered, detections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	dropped := make([]bool, n)
	for i := 0; i < n; i++ {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if dropped[j] {
				continue
			}
			if ordered[i].Category() != ordered[j].Category() {
				continue
			}
			if geom.IoU(ordered[i].Annotation, ordered[j].Annotation) > float64(theta) {
				dropped[j] = true
			}
		}
	}

	survivors := make([]geom.Detection[A], 0, n)
	for i, d := range ordered {
		if !dropped[i] {
			survivors = append(survivors, d)
		}
	}
	return survivors
}
