// Package report renders sweep results for the terminal: drift tables,
// drift CSV, and ASCII plots of position against time. It only reads
// finished results.
package report
