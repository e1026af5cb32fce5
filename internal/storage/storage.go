// Package storage persists canonical records. The primary backend is
// Postgres; a file-backed SQLite store covers local and offline runs.
package storage

import (
	"fmt"
	"sort"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

// knownTable guards the table name that gets interpolated into SQL.
func knownTable(table string) bool {
	return table == constants.TableApplications || table == constants.TableNotifications
}

// insertStatement builds a deterministic INSERT for a record: columns
// sorted, one positional argument per column. placeholder is "$" for
// Postgres and "?" for SQLite.
func insertStatement(table string, rec entity.CanonicalRecord, placeholder string) (string, []any, error) {
	if !knownTable(table) {
		return "", nil, fmt.Errorf("unknown table %q", table)
	}
	if len(rec) == 0 {
		return "", nil, fmt.Errorf("empty record for table %q", table)
	}

	cols := make([]string, 0, len(rec))
	for k := range rec {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	args := make([]any, 0, len(cols))
	colList := ""
	valList := ""
	for i, c := range cols {
		if i > 0 {
			colList += ", "
			valList += ", "
		}
		colList += c
		if placeholder == "$" {
			valList += fmt.Sprintf("$%d", i+1)
		} else {
			valList += "?"
		}
		args = append(args, rec[c])
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, colList, valList), args, nil
}
