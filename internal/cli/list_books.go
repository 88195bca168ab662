package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
)

// ListBooksCommand prints the catalog to stdout, one book per line.
type ListBooksCommand struct {
	DatabasePath string

	Out io.Writer
}

func NewListBooksCommand() *ListBooksCommand {
	return &ListBooksCommand{Out: os.Stdout}
}

func (cmd *ListBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print every book as \"<id>: <title> by <author> (Rating: <rating>)\".\n")
		fmt.Fprintf(os.Stderr, "The database is created and bootstrapped if it does not exist yet.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ListBooksCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel(logger.Silent))
	if err != nil {
		return err
	}
	defer db.Close()

	books, err := db.Books().ListAll()
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}

	for _, book := range books {
		if _, err := fmt.Fprintln(cmd.Out, book.Summary()); err != nil {
			return err
		}
	}
	return nil
}
