package internal

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"workspace-chat/repositories"

	"github.com/dgraph-io/badger/v4"
)

type InspectRow struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Detail string `json:"detail"`
}

// DescribeEntry renders a stored record for humans. Values are CBOR except
// sequence counters and the empty thread index entries.
func DescribeEntry(e repositories.Entry) InspectRow {
	parts := strings.SplitN(e.Key, ":", 2)
	row := InspectRow{Key: e.Key, Type: "RAW", Entity: "-"}
	if len(parts) == 2 {
		row.Type = strings.ToUpper(parts[0])
		row.Entity = parts[1]
	}
	switch {
	case len(e.Value) == 0:
		row.Detail = "-"
	case row.Type == "SEQ" && len(e.Value) == 8:
		row.Detail = "last id " + strconv.FormatUint(binary.BigEndian.Uint64(e.Value), 10)
	default:
		diag, err := repositories.Diagnose(e.Value)
		if err != nil {
			row.Detail = "Size: " + strconv.Itoa(len(e.Value)) + " bytes"
		} else {
			row.Detail = diag
		}
	}
	return row
}

func inspectHandler(db *badger.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := repositories.Dump(db, r.URL.Query().Get("prefix"), queryInt(r, "limit", 200))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rows := make([]InspectRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, DescribeEntry(e))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}
}
