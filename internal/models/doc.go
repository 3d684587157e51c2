// Package models defines the core domain models for Snapbill.
//
// # Current Models
//
// The following models are actively used:
//   - Receipt: A parsed retail receipt with its line items and totals
//   - Item: Individual line item on a receipt, assignable to people
//   - Person: A roster member splitting the receipt
//   - User: Registered account used for API authentication
//
// People are roster entries created per splitting session. They are
// intentionally decoupled from User accounts so a receipt can be split
// among people who never registered.
//
// # Design Principles
//
// 1. **Plain values**: models are simple structs; all computation lives in
//    the parser and calculator packages
// 2. **Avoid circular references**: use ID strings instead of pointers for
//    relationships
// 3. **Whole-record replacement**: receipts are updated by replacing the
//    full record, never by partial in-place mutation
package models
