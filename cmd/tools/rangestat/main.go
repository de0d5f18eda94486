// rangestat prints a census of a range-rule dataset: products, groups,
// agencies and rule counts. Source selection mirrors the gateway:
//
//	rangestat                        # bundled dataset
//	rangestat -xml RangeMessage.xml
//	rangestat -sqlite ranges.db
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/GlazerMann/isbn/pkg/ranges"
)

func main() {
	xmlPath := flag.String("xml", "", "load rules from a RangeMessage XML file")
	sqlitePath := flag.String("sqlite", "", "load rules from a SQLite cache")
	dsn := flag.String("postgres", "", "load rules from a Postgres cache")
	flag.Parse()

	var table *ranges.Table
	var err error
	switch {
	case *xmlPath != "":
		table, err = ranges.New(ranges.NewXMLSource(*xmlPath))
	case *sqlitePath != "":
		var src *ranges.SQLiteSource
		src, err = ranges.NewSQLiteSource(*sqlitePath, nil)
		if err == nil {
			defer src.Close()
			table, err = ranges.New(src)
		}
	case *dsn != "":
		var src *ranges.PostgresSource
		src, err = ranges.NewPostgresSource(*dsn, nil)
		if err == nil {
			defer src.Close()
			table, err = ranges.New(src)
		}
	default:
		table, err = ranges.Default()
	}
	if err != nil {
		log.Fatal(err)
	}

	for _, product := range table.Products() {
		fmt.Printf("product %s: %d prefix rules\n", product, len(table.PrefixRules(product)))
	}

	fmt.Printf("%d registration groups:\n", len(table.GroupKeys()))
	for _, key := range table.GroupKeys() {
		product, group, _ := strings.Cut(key, "-")
		g, _ := table.GroupRules(product, group)
		fmt.Printf("  %-10s %-40s %d rules\n", key, g.Agency, len(g.Rules))
	}
}
