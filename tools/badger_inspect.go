package main

import (
	"board-lab/codec"
	"board-lab/domain"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan, msg: or blob:chat: for instance")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Size", "Detail"})
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

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				kind, detail := describe(key, v)
				table.Append([]string{key, kind, fmt.Sprintf("%d", len(v)), detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe decodes a value according to the layout its key prefix announces.
// Undecodable values are reported, never fatal.
func describe(key string, v []byte) (string, string) {
	parts := strings.Split(key, ":")
	switch {
	case parts[0] == "msg", parts[0] == "blob" && len(parts) > 1 && parts[1] == domain.KindChat.String():
		m, err := codec.UnmarshalMessage(v)
		if err != nil {
			return "CHAT", "Error: " + err.Error()
		}
		return "CHAT", fmt.Sprintf("%s %s: %s", m.SentAt.Format("15:04:05"), m.Sender.Nickname, m.Content)
	case parts[0] == "blob" && len(parts) > 1 && parts[1] == domain.KindWhiteboardObject.String():
		o, err := codec.UnmarshalObject(v)
		if err != nil {
			return "OBJECT", "Error: " + err.Error()
		}
		return "OBJECT", fmt.Sprintf("%s at %.0f,%.0f %q", o.Kind, o.Position.X, o.Position.Y, o.Text)
	case parts[0] == "photo", parts[0] == "blob" && len(parts) > 1 && parts[1] == domain.KindPhoto.String():
		return "PHOTO", mimetype.Detect(v).String()
	case parts[0] == "profile":
		p, err := codec.UnmarshalProfile(v)
		if err != nil {
			return "PROFILE", "Error: " + err.Error()
		}
		return "PROFILE", p.String()
	default:
		return "RAW", "-"
	}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
