// Package core orchestrates paste imports around the pure detection and
// parsing code in package tabular.
//
// It holds no transport concerns and can be driven by the web handlers, the
// terminal paste box, or tests.
//
// # Flow
//
//  1. [Service.Detect] resolves the delimiter of a paste (auto-detected or an
//     explicit override) and reports the row count. Called on every keystroke
//     by interactive clients, so it touches no storage.
//  2. [Service.Preview] parses the paste and shows how rows map onto the
//     fields of a record type.
//  3. [Service.QuickImport] writes the non-empty rows as records into a
//     collection and keeps an import history entry.
//  4. [Service.StageText] writes the paste to a file for external import
//     tools instead.
//
// # Row mapping
//
// A row fills the record type's fields in order. When a row carries more
// values than there are fields, its last value is read as whitespace
// separated tags. Rows that are empty after trimming are skipped and counted.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Parse failures on the final parse always reach the caller; detection
// itself never fails.
package core
