// Package mover relocates single files without ever overwriting an existing
// path.
//
// A destination that already exists gets a numeric suffix before its final
// extension (report.pdf, report_2.pdf, report_3.pdf ...). Same-volume moves
// are one rename; cross-device moves copy, verify, then delete the source,
// and leave the source untouched whenever any step fails.
package mover
