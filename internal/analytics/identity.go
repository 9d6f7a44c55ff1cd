package analytics

// IdentitySeparator joins the root symbol and the suffix of an instrument.
const IdentitySeparator = "."

// NormalizeIdentity derives the instrument identity from a root symbol and its
// suffix. An absent suffix is passed as "" and still yields the separator:
// ("AAPL", "") → "AAPL.", ("BRK", "B") → "BRK.B".
func NormalizeIdentity(root, suffix string) string {
	return root + IdentitySeparator + suffix
}
