// Package exporter re-serializes the current filtered and sorted view.
//
// CSVWriter writes the six source columns with dates as YYYY-MM-DD and an
// optional UTF-8 BOM for Excel. XLSXWriter writes the same rows to the "PLs"
// sheet of a workbook. Format.Filename stamps export names with the current
// date.
//
// Example usage:
//
//	exp, err := exporter.New(exporter.FormatCSV, exporter.WriteOptions{BOMPrefix: true})
//	if err != nil {
//		return err
//	}
//	err = exp.Export(w, rows)
package exporter
