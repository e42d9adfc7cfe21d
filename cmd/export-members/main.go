package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/starshipfactory/memberctl/internal/db"
	"github.com/starshipfactory/memberctl/internal/export"
)

func main() {
	dbPath := flag.String("db", "memberctl.db", "Path to the SQLite snapshot database")
	outputPath := flag.String("output", "", "Output file (default mitglieder.csv or mitglieder.xlsx)")
	format := flag.String("format", "csv", "Output format: csv or xlsx")
	flag.Parse()

	if *format != "csv" && *format != "xlsx" {
		fmt.Fprintf(os.Stderr, "Unknown format %q, want csv or xlsx\n", *format)
		os.Exit(1)
	}

	out := *outputPath
	if out == "" {
		out = "mitglieder." + *format
	} else if !strings.HasSuffix(strings.ToLower(out), "."+*format) {
		out = out + "." + *format
	}

	database, err := db.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	members, err := database.ListMembers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query database: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "csv":
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		if err := export.WriteCSV(f, members); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "Failed to write CSV: %v\n", err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write CSV: %v\n", err)
			os.Exit(1)
		}
	case "xlsx":
		if err := export.WriteXLSX(out, members); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write workbook: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Exported %d members to %s\n", len(members), out)
}
