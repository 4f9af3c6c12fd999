package main

import (
	"fmt"
	"log"
	"os"

	"workspace-chat/internal"
	"workspace-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
)

func main() {
	flagSet := pflag.NewFlagSet("inspect", pflag.ExitOnError)
	dbPath := flagSet.String("db", os.Getenv("BADGER_FILEPATH"), "path to the badger directory")
	prefix := flagSet.StringP("prefix", "p", "chan:", "key prefix to scan (chan:, member:, msg:, reply:, seq:, marker:)")
	limit := flagSet.IntP("limit", "n", 100, "maximum rows, 0 for all")
	_ = flagSet.Parse(os.Args[1:])

	if *dbPath == "" {
		log.Fatal("--db or BADGER_FILEPATH is required")
	}

	// Read only with the lock bypassed so a running server keeps its handle.
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	entries, err := repositories.Dump(db, *prefix, *limit)
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Entity", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, e := range entries {
		row := internal.DescribeEntry(e)
		table.Append([]string{row.Key, row.Type, row.Entity, row.Detail})
	}
	table.Render()
	fmt.Printf("\n%d entries under %q\n", len(entries), *prefix)
}
