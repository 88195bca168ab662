// Package database opens the catalog database and owns its lifecycle.
//
// # Layout
//
//	database/
//	├── database.go      # Connection setup, schema creation, startup bootstrap
//	├── books/           # Book catalog repository
//	└── audit/           # Audit event repository
//
// # Usage
//
//	db, err := database.NewDatabase("./new-books-collection.db")
//	if err != nil { ... }
//	defer db.Close()
//
//	book, err := db.Books().FindByID(9)
//
// NewDatabase is safe to call on an existing file: the schema is only created
// when absent, the seed book is only inserted when its id is free, and the
// legacy "Harry Potter" title is only renamed while it still exists.
package database
