package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/snapshot"
)

// SnapshotConvertCommand copies a snapshot from one backend to another.
// The records are copied as stored; no cascade runs, so recommendation ids
// are preserved.
type SnapshotConvertCommand struct {
	From         string
	To           string
	DataDir      string
	DatabasePath string
}

func NewSnapshotConvertCommand() *SnapshotConvertCommand {
	return &SnapshotConvertCommand{}
}

func (cmd *SnapshotConvertCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("snapshot-convert", flag.ContinueOnError)

	fs.StringVar(&cmd.From, "from", snapshot.BackendJSON, "Source backend: json or sqlite")
	fs.StringVar(&cmd.To, "to", snapshot.BackendSQLite, "Destination backend: json or sqlite")
	fs.StringVar(&cmd.DataDir, "dir", config.DefaultDataDir, "Directory holding the JSON snapshot files")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the SQLite snapshot database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s snapshot-convert [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Copy users, books, reviews and recommendations between snapshot backends.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s snapshot-convert -from json -to sqlite -dir ./data -db ./bookreviews.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s snapshot-convert -from sqlite -to json -dir ./export\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.From == cmd.To {
		return fmt.Errorf("source and destination backends are both %q", cmd.From)
	}
	for _, b := range []string{cmd.From, cmd.To} {
		if b != snapshot.BackendJSON && b != snapshot.BackendSQLite {
			fs.Usage()
			return fmt.Errorf("unknown backend %q", b)
		}
	}

	return nil
}

func (cmd *SnapshotConvertCommand) Run() error {
	ctx := context.Background()

	src, err := snapshot.Open(cmd.From, cmd.DataDir, cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	data, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s snapshot: %w", cmd.From, err)
	}

	dst, err := snapshot.Open(cmd.To, cmd.DataDir, cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open destination: %w", err)
	}
	defer dst.Close()

	if err := dst.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", cmd.To, err)
	}

	users, books, reviews, recs := data.Counts()
	fmt.Printf("Converted %s -> %s\n", cmd.From, cmd.To)
	fmt.Printf("Users: %d\nBooks: %d\nReviews: %d\nRecommendations: %d\n", users, books, reviews, recs)
	return nil
}
