// Package scanner lists the immediate children of the target directory and
// sorts them into organize candidates and skipped entries.
//
// Nothing below the first level is visited: category folders and any other
// subdirectories are reported as skipped. Files another process is still
// writing (open for exclusive use, or holding an flock) are skipped as
// "locked" instead of failing the pass.
package scanner
