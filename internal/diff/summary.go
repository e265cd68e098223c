package diff

import "schemasync/internal/core"

// Summary holds status counts across the diff tree. Field order matches the
// serialized key order.
type Summary struct {
	TotalTables         int `json:"total_tables"`
	AddedTables         int `json:"added_tables"`
	RemovedTables       int `json:"removed_tables"`
	ModifiedTables      int `json:"modified_tables"`
	UnchangedTables     int `json:"unchanged_tables"`
	AddedColumns        int `json:"added_columns"`
	RemovedColumns      int `json:"removed_columns"`
	ModifiedColumns     int `json:"modified_columns"`
	AddedIndexes        int `json:"added_indexes"`
	RemovedIndexes      int `json:"removed_indexes"`
	ModifiedIndexes     int `json:"modified_indexes"`
	AddedForeignKeys    int `json:"added_foreign_keys"`
	RemovedForeignKeys  int `json:"removed_foreign_keys"`
	ModifiedForeignKeys int `json:"modified_foreign_keys"`
}

// Summary reduces the already built tree; nothing is compared again.
func (d *SchemaDiff) Summary() Summary {
	s := Summary{TotalTables: len(d.Tables)}
	for _, td := range d.Tables {
		switch td.Status {
		case core.StatusAdded:
			s.AddedTables++
		case core.StatusRemoved:
			s.RemovedTables++
		case core.StatusModified:
			s.ModifiedTables++
		default:
			s.UnchangedTables++
		}

		s.AddedColumns += countStatus(td.Columns, core.StatusAdded)
		s.RemovedColumns += countStatus(td.Columns, core.StatusRemoved)
		s.ModifiedColumns += countStatus(td.Columns, core.StatusModified)
		s.AddedIndexes += countStatus(td.Indexes, core.StatusAdded)
		s.RemovedIndexes += countStatus(td.Indexes, core.StatusRemoved)
		s.ModifiedIndexes += countStatus(td.Indexes, core.StatusModified)
		s.AddedForeignKeys += countStatus(td.ForeignKeys, core.StatusAdded)
		s.RemovedForeignKeys += countStatus(td.ForeignKeys, core.StatusRemoved)
		s.ModifiedForeignKeys += countStatus(td.ForeignKeys, core.StatusModified)
	}
	return s
}
