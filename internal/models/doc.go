// Package models defines the core domain models for receiptsplit.
//
// # Models
//
//   - Split: a receipt being divided — items, participants, tax, tip
//   - Item / ItemAssignment: receipt lines and their per-participant shares
//   - Participant: one person on a split; the reserved id "me" is the
//     current user
//   - ParticipantBreakdown: the calculated per-person result
//
// All monetary fields are integer cents. Calculations never operate on
// floating-point currency amounts; conversion to and from display strings
// happens at the edges (see the money package).
//
// # The "me" participant
//
// Every split either includes the synthetic "me" participant (ExcludeMe
// false, the default) or excludes it (ExcludeMe true). Split.Normalize
// reconciles the participant list with the flag and is applied by the
// service layer whenever a split is loaded or saved. The calculator
// tolerates either state, so stale persisted rows cannot break it.
//
// # Design notes
//
//  1. Relationships use id strings, not pointers, to keep the aggregate
//     serializable and free of cycles.
//  2. Models carry no behavior beyond normalization; all arithmetic lives
//     in the calculator and spending packages.
package models
