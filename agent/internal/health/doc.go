// Package health turns one hub metrics snapshot into a 0–100 health report.
//
// hardware.go scores CPU/memory/disk usage: CPU through an ordered tier
// table, memory and disk through quadratic penalty curves above their
// thresholds (70% and 80%).
//
// application.go scores the entity and integration registries plus the
// backup/update maintenance flags. Zombie entities (unavailable/unknown
// outside the legitimately-idle domains) cost 4 points each, capped at 20
// in total; unhealthy integrations cost a flat 5 each, uncapped.
//
// combine.go folds the two sub-scores into the global score with fixed
// 40/60 weights and floor rounding, so any deduction anywhere lowers the
// visible integer. advisor.go derives the ordered, de-duplicated
// recommendation list from the triggered deductions.
//
// Evaluate (engine.go) is the entry point. It is a pure function of the
// snapshot: no state is kept across calls, out-of-range metrics are clamped,
// malformed registry entries are skipped and counted, and a report is
// always produced.
package health
