package config

const (
	// DefaultDatabasePath is the default path for the catalog database,
	// relative to the working directory.
	DefaultDatabasePath = "./new-books-collection.db"

	// DefaultPort is the port the catalog listens on.
	DefaultPort = 5000
)
