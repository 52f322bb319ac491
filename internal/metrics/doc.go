// Package metrics provides accumulators that observe session snapshots and
// reduce a run to single numbers.
package metrics
