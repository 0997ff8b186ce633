// Package shared holds code used across tickstats packages that belongs to no
// single layer.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler with assertions for log output
//   - HTTP helpers for JSON requests and RFC 7807 problem bodies
//   - series fixtures with known statistics
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := services.NewStatsService(reg, logger, nil)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "batch appended")
//	}
package shared
