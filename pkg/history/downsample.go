package history

import "github.com/petsense/pawbeat/pkg/telemetry"

// DownsampleReports downsamples a trace buffer to a maximum number of
// points for display. Uses simple decimation.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
// Returns the destination slice (may be dst if reused, or a new slice if dst was too small).
// If len(reports) <= maxPoints, copies all reports to dst (or allocates if dst is nil/too small).
func DownsampleReports(dst []telemetry.Report, reports []telemetry.Report, maxPoints int) []telemetry.Report {
	if len(reports) <= maxPoints {
		// Need to copy all reports
		if cap(dst) >= len(reports) {
			dst = dst[:len(reports)]
			copy(dst, reports)
			return dst
		}
		// dst too small, allocate new
		result := make([]telemetry.Report, len(reports))
		copy(result, reports)
		return result
	}

	// Need to downsample
	if cap(dst) >= maxPoints {
		// Reuse dst
		dst = dst[:0] // Reset length but keep capacity
	} else {
		// Allocate new slice
		dst = make([]telemetry.Report, 0, maxPoints)
	}

	// Calculate step size for decimation
	step := float64(len(reports)) / float64(maxPoints)

	for i := range maxPoints {
		idx := int(float64(i) * step)
		if idx < len(reports) {
			dst = append(dst, reports[idx])
		}
	}

	return dst
}
