// Package userui implements the user-management form and list as a state
// machine over a collection.Collection.
//
// A Controller owns two pieces of state:
//
//   - the form: pending name and age input plus the id of the record being
//     edited (empty in create mode)
//   - the list: the records from the most recent full fetch, a loading flag
//     and the id of the record currently being deleted
//
// Modes:
//
//	Idle        form in create mode, nothing in flight
//	Editing     form bound to a record, nothing in flight
//	Submitting  a create or update is in flight (inputs locked)
//	Deleting    a delete is in flight for exactly one record
//
// Submitting and Deleting are one field, so both cannot be active at once.
// While either is active, Submit, Edit and Remove return ErrBusy
// immediately; nothing is queued. The lock is advisory and local to one
// Controller: two controllers sharing a collection can still race.
//
// Every successful mutation is followed by a full re-fetch, and the fetched
// list replaces the local one wholesale. Failures do not leave the
// controller stuck: the busy mode is released, the error is kept in the
// View until the next successful operation, and a failed submit keeps the
// form input so it can be resubmitted.
//
// Observers registered with Subscribe receive a View after every change;
// the HTTP server streams these over WebSocket and the terminal UI renders
// them.
package userui
