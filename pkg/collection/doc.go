// Package collection defines the document collection that fireflow reads
// and writes, plus the stores that implement it.
//
// A Collection is the only boundary between the user-management controller
// and storage. It offers four operations:
//
//   - FetchAll: every document in the collection, in store order
//   - Insert: create a document from Fields, returning the store-assigned id
//   - UpdateByID: overwrite the name/age fields of an existing document
//   - DeleteByID: remove a document
//
// Implementations:
//
//   - Memory: thread-safe in-memory store with seed data (this package)
//   - file.Store: JSON file backed store (package collection/file)
//   - rest.Client: remote REST document collection (package collection/rest)
//
// Handler serves any Collection over the same REST dialect that rest.Client
// speaks, and Observed wraps a Collection with an Observer for metrics.
//
// Raw documents become Records through a Mapper, which evaluates JSONPath
// expressions for the name and age fields. The default mapping takes the
// top-level "name" and "age" keys verbatim; a missing field maps to "".
package collection
