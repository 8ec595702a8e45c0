package features

// Reconcile adjusts a feature vector to a model's expected input width. A
// wider vector is truncated to the leading positions (a lossy but explicit
// fallback for schema drift between adapter and trained model); a narrower
// one is right-padded with zeros. A vector already at the expected width is
// returned unchanged. Callers are expected to log when the width actually
// changes so truncation stays a visible policy.
func Reconcile(vector []float64, expectedWidth int) []float64 {
	switch {
	case len(vector) > expectedWidth:
		return vector[:expectedWidth]
	case len(vector) < expectedWidth:
		padded := make([]float64, expectedWidth)
		copy(padded, vector)
		return padded
	default:
		return vector
	}
}
