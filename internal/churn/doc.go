// Package churn derives aggregate features from the telecom churn dataset.
//
// Apply sums the day, evening, night, and international usage columns into
// TotalMinutes, TotalCalls, and MonthlyCharges, encodes the yes/no plan
// columns and the optional Churn label as 0/1, adds each period's share of
// the totals as a percentage, and drops the twelve detailed usage columns.
// Tables are plain string grids; a cell that cannot be computed is left
// empty.
package churn
