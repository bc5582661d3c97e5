// Use: run the schema migrations first, then
// go run ./scripts/loaddata.go <engine> <uri> <csv-dir>
//
// Loads brand and beneficiary data from CSV exports into the record store.
// The directory must contain brands.csv, beneficiaries.csv, controversies.csv,
// brand_beneficiaries.csv and beneficiary_relations.csv, each with a header
// row matching the table columns.

package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

var tables = []string{
	"brands",
	"beneficiaries",
	"controversies",
	"brand_beneficiaries",
	"beneficiary_relations",
}

func main() {
	if len(os.Args) != 4 {
		log.Fatalf("usage: %s <engine> <uri> <csv-dir>", os.Args[0])
	}
	engine, uri, dir := os.Args[1], os.Args[2], os.Args[3]

	var driver string
	stbl := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	switch engine {
	case "sqlite":
		driver = "sqlite"
	case "postgres":
		driver = "pgx"
		stbl = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	default:
		log.Fatalf("unsupported engine %q", engine)
	}

	db, err := sql.Open(driver, uri)
	if err != nil {
		log.Fatalf("open %s: %v", engine, err)
	}
	defer db.Close()

	start := time.Now()

	// Tables reference each other, so load them in dependency order; rows
	// within a table load concurrently.
	for _, table := range tables {
		if err := loadTable(db, stbl, dir, table); err != nil {
			log.Fatalf("load %s: %v", table, err)
		}
	}

	log.Printf("done in %s", time.Since(start))
}

func loadTable(db *sql.DB, stbl sq.StatementBuilderType, dir, table string) error {
	f, err := os.Open(filepath.Join(dir, table+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		log.Printf("%s: nothing to load", table)
		return nil
	}

	header := records[0]
	rows := records[1:]

	var g errgroup.Group
	g.SetLimit(8)

	for _, row := range rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			if cell == "" {
				values[i] = nil
			} else {
				values[i] = cell
			}
		}

		g.Go(func() error {
			_, err := stbl.
				Insert(table).
				Columns(header...).
				Values(values...).
				RunWith(db).
				Exec()
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("%s: loaded %d rows", table, len(rows))
	return nil
}
