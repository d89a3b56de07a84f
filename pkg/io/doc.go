// Package io reads module catalogs and writes annealing reports.
//
// # Catalog formats
//
// The text format has one module per line: a name, its area and its
// aspect ratio (width / height), separated by whitespace. Blank lines and
// lines starting with # are skipped:
//
//	# name  area  ratio
//	alu     8     2
//	rom     4     1
//	fpu     18    0.5
//
// A module with area A and ratio R is realized as a
// sqrt(A·R) × sqrt(A/R) rectangle.
//
// The TOML format lists [[module]] tables with either area and ratio or an
// explicit width and height:
//
//	[[module]]
//	name = "alu"
//	area = 8
//	ratio = 2
//
//	[[module]]
//	name = "fpu"
//	width = 3
//	height = 6
//
// Use [ImportCatalog] to read either format from a file path (chosen by
// extension), or [ReadCatalog] and [ReadCatalogTOML] to read from any
// io.Reader.
//
// # Reports
//
// A [Report] is the JSON summary of one annealing run: the catalog, the
// initial and best expressions with their costs, the schedule, search
// counters and the realized placement. [WriteReport] and [ExportReport]
// write it; [ReadReport] and [ImportReport] read it back, so a saved
// report can be re-rendered without annealing again.
package io
