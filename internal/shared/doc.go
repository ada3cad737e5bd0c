// Package shared holds helpers used across the dashboard packages.
//
// The testutil subpackage provides:
//
//   - SourceFixtures, which writes metric workbooks and the ad spend export
//     into a temporary data directory
//   - a capturing slog handler with assertion helpers
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    fx := testutil.NewSourceFixtures(t)
//	    fx.WriteDefaults()
//	    cfg := fx.Config()
//	    // ...
//	}
package shared
