// Package export writes the attribute tables of a map's visible feature
// layers to a spreadsheet workbook.
//
// All layers share a single worksheet, stacked vertically: a one-row label
// with the dataset name, the field header, the rows, then a blank spacer
// row. Layers that fail to read are skipped with a warning so one broken
// dataset never sinks the whole export.
package export
