// Package models defines the domain models for tripledger.
//
// # Models
//
//   - Trip: a shared ledger with a tracking mode, default currency, and
//     exchange rates
//   - Participant / Family: the roster of entities sharing expenses
//   - Expense: a shared expense with its distribution rule
//   - Settlement: a recorded direct payment between two entities
//   - User: a registered account (authentication)
//
// # Design principles
//
//  1. Plain data: models carry no behavior beyond small constructors;
//     computation lives in internal/engine, persistence in internal/storage.
//  2. String UUIDs for IDs, Unix seconds for timestamps.
//  3. Monetary amounts are decimal.Decimal; they serialize as decimal
//     strings over JSON and in storage so no precision is lost in transit.
//  4. Relationships are ID references, never pointers, to avoid circular
//     structures.
package models
