// Package dataset holds the in-memory flight table and the sources that
// produce it: a local CSV file and a remote dataset download.
//
// Cells are kept as the original text so that columns the pipeline does not
// touch are written back byte for byte. An empty cell, or one of the usual
// placeholder tokens such as "NA", is a missing value.
package dataset
