// Package models defines the core domain models for Splitpot.
//
// # Models
//
//   - User: registered account; payers and owers are always users
//   - Group: a set of users who share expenses
//   - Membership: a user's membership (and admin flag) in one group
//   - Expense: a shared cost paid by one member, owning a set of splits
//   - ExpenseSplit: one member's share of one expense
//   - Settlement: a directed payment promise between two members
//   - GroupSettings: per-group policy (currency, auto-settle, ...)
//
// # Design Principles
//
//  1. IDs are UUID strings; relationships use ID strings, not pointers,
//     to avoid circular references.
//  2. Timestamps are Unix seconds (int64).
//  3. Money is float64 with a 0.01 tolerance; all balance math in
//     internal/ledger treats discrepancies below 0.01 as zero.
package models
