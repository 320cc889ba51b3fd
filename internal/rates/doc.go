// Package rates resolves the INR to USD exchange rate used for a run.
//
// A rate pinned by the caller always wins. Otherwise a single request is made
// to the public rate service, and any failure falls back to the configured
// constant. Resolve never fails; the returned Quote records which of the three
// sources produced the rate.
package rates
