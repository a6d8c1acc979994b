// Package models defines the core domain models for SpendSavvy.
//
// # Persisted Models
//
//   - User: registered account, referenced by every other entity
//   - Friendship: undirected relation stored as two directed rows
//   - Group: named set of users that aggregates its own expenses
//   - Expense: a single spending event with a total amount and category
//   - Split: one participant's allocated share of an Expense
//   - Notification: informational message emitted as a side effect
//
// # Derived Models
//
// Balances are never stored. FriendBalance and BalanceSummary are computed
// on every read from Expense and Split rows, so they are always consistent
// with the latest payment state.
//
// # Design Principles
//
//  1. Avoid circular references: relationships use ID strings, not pointers
//  2. Expenses are immutable once created; only the paid flag on their
//     Splits ever changes
//  3. Money is carried as float64 dollars; allocation happens in integer
//     cents so that split sums match totals exactly
package models
