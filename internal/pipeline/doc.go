// Package pipeline runs the flight price conversion as three phases.
//
// Extract reads the flight table from a local CSV file or a remote dataset
// loader. Transform resolves the exchange rate and adds the USD price and
// conversion metadata to every record. Load places the derived fields after
// price, writes the CSV atomically and writes the summary report.
//
// A Pipeline moves through ready, extracted, transformed and loaded. The first
// phase that fails moves it to failed and the run stops there. Phase errors
// are *errors.AppError values whose kind names the failing concern.
package pipeline
