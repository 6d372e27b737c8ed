package eigen

// Options configures a scan.
type Options struct {
	// Canonical flips every basis vector so its first non-zero entry is
	// positive. Without it vectors are primitive but their sign is whatever
	// the reduction produced.
	Canonical bool
	// ValuesOnly skips eigenspace extraction and reports eigenvalues only.
	ValuesOnly bool
}
