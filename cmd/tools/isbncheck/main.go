// isbncheck validates book identifiers and optionally converts them.
//
//	isbncheck 978-0-306-40615-7 0306406152
//	cat codes.txt | isbncheck -format ISBN-13
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/GlazerMann/isbn/pkg/isbn"
)

func main() {
	format := flag.String("format", "", "render valid codes in this format (ISBN-10, ISBN-13, EAN, GTIN-14)")
	prefix := flag.String("prefix", "1", "logistic prefix digit for GTIN-14 output")
	flag.Parse()

	parser, err := isbn.NewDefaultParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load range table: %v\n", err)
		os.Exit(1)
	}

	codes := flag.Args()
	if len(codes) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				codes = append(codes, line)
			}
		}
	}

	failed := 0
	for _, code := range codes {
		res := parser.Parse(code)
		if !res.IsValid() {
			failed++
			fmt.Printf("INVALID  %s\n", res.Diagnostic())
			continue
		}

		if *format == "" {
			agency, _ := res.Agency()
			group, _ := res.Group()
			registrant, _ := res.Registrant()
			fmt.Printf("OK       %s  group=%s registrant=%s agency=%q\n", code, group, registrant, agency)
			continue
		}

		var out string
		var ferr error
		if *format == isbn.FormatGTIN14 && len(*prefix) == 1 {
			out, ferr = res.FormatGTIN14((*prefix)[0])
		} else {
			out, ferr = res.Format(*format)
		}
		if ferr != nil {
			failed++
			fmt.Printf("ERROR    %s: %v\n", code, ferr)
			continue
		}
		fmt.Printf("OK       %s -> %s\n", code, out)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
