package eigen

// ProgressReportThreshold is the minimum progress change, as a fraction of
// the range, between two reports.
const ProgressReportThreshold = 0.01

// ProgressUpdate carries the progress of one scan to the UI.
type ProgressUpdate struct {
	// ScanIndex identifies the scan among concurrent ones.
	ScanIndex int
	// Value is the fraction of candidates examined, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback the scan loop reports through.
type ProgressReporter func(progress float64)

// reportScanProgress reports done/total when it moved by at least
// ProgressReportThreshold since the last report, and always at completion.
func reportScanProgress(reporter ProgressReporter, lastReported *float64, done, total uint64) {
	if reporter == nil || total == 0 {
		return
	}
	p := float64(done) / float64(total)
	if done == total || p-*lastReported >= ProgressReportThreshold {
		reporter(p)
		*lastReported = p
	}
}
