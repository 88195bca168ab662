// Package interfaces documents the core abstractions of the catalog and
// holds compile-time checks that the concrete types implement them.
//
// # Interfaces
//
//   - BookStore (internal/http/books.go): catalog reads and mutations used by
//     the request handlers. Implemented by books.Repository.
//   - EventStore (internal/audit/service.go): persistence for audit events.
//     Implemented by the audit repository in internal/database/audit.
//   - AuditPurger (internal/tasks/purge_audit.go): retention purge run by the
//     background queue. Implemented by audit.Service and the audit repository.
//
// # Adding a storage backend
//
// Implement BookStore and pass it as RouterConfig.Books, then add a check
// to checks.go.
package interfaces
