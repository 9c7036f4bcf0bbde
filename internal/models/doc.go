// Package models defines the core domain models for casesettle.
//
// # Settlement workflow
//
// The models describe one negotiation thread between two organizations on a
// case (typically a treating provider and a law firm):
//   - SettlementRequest: a proposed reduction to a billed amount, with status
//   - SettlementConfirmation: one organization's attestation that a settlement is final
//   - EscalationQueueItem: a disputed settlement referred to neutral resolution
//   - AuditEntry: append-only record of every ledger transition
//
// # Directory
//
// User, Organization and CaseParties back the local authorization gate and the
// case roster lookup. In a deployment with an external identity provider these
// are replaced by the authz interfaces.
//
// # Design Principles
//
//  1. **Exact money**: all amounts are decimal.Decimal, never float64
//  2. **Closed enums**: statuses are typed strings with Valid() checks
//  3. **No pointers between records**: relationships use ID strings
//  4. **Never deleted**: records are corrected by new transitions, not removal
package models
