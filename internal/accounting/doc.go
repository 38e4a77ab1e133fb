// Package accounting turns a transaction ledger and a price map into the
// derived views of a portfolio: per-ticker summaries, row-level P/L, realized
// gains under average-cost accounting, a historical cost/value series and
// sales statistics.
//
// Every function is pure. Inputs are never modified, no function returns an
// error, and empty inputs produce zero values. Division by zero yields 0.
package accounting
