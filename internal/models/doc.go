// Package models defines the records persisted by the invoicing backend.
//
// # Records
//
//   - User: a registered account; owns clients and invoices
//   - Client: a customer of a user, identified per user by email and by
//     company tax / registration numbers
//   - Invoice: a bill issued by a user to one of their clients
//
// Every record carries an opaque string ID assigned by the store on creation.
// Clients and invoices reference their owner through UserID; relationships are
// ID strings, never pointers, so records can be copied freely out of a store.
//
// # Wire names
//
// JSON field names follow the on-disk data files (user_id, invoice_number,
// companyDetails, dueDate, ...). Changing a tag changes the file format.
//
// # Time
//
// Date, DueDate and CreatedAt are Unix epoch milliseconds.
package models
