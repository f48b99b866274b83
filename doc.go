// Package tracker maintains a human-readable transaction workbook fed from
// the Monzo API.
//
// The workbook is a set of sheets: one sheet per calendar month holding the
// formatted transactions grouped in Out/In sections by category, and one
// derived overview sheet per year mixing realized monthly totals with
// formula-driven projections for months without data.
//
// The monthly sheets are the only source of truth. Merging a new batch of
// transactions into an existing month recovers the records already rendered
// there, drops incoming duplicates by transaction id, and renders the whole
// month again from scratch. Running balances are then recomputed by a single
// forward pass over all months, and every touched year's overview is
// rebuilt.
package tracker
