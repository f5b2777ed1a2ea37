package models

// SlowTest is one test run whose reported runtime exceeded the threshold.
// It lives only long enough to be written to a runtime note.
type SlowTest struct {
	TestName  string
	RuntimeMS int
	// TestFile is Placeholder when the runner output does not name the file
	TestFile string
}

// SlowTestKey identifies an entry for deduplication
type SlowTestKey struct {
	TestName  string
	RuntimeMS int
}

// Key returns the (name, runtime) pair two recognizers may both report
func (s SlowTest) Key() SlowTestKey {
	return SlowTestKey{TestName: s.TestName, RuntimeMS: s.RuntimeMS}
}
