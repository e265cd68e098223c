package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemasync/internal/core"
)

func schemaOf(tables ...*core.Table) *core.DatabaseSchema {
	s := core.NewDatabaseSchema("")
	for _, t := range tables {
		s.PutTable(t)
	}
	return s
}

func usersTable() *core.Table {
	t := core.NewTable("users")
	t.PutColumn(&core.Column{Name: "id", Type: core.TypeBigIncrements, AutoIncrement: true, Unsigned: true})
	t.PutColumn(&core.Column{Name: "name", Type: core.TypeString, Length: core.Ptr(255)})
	t.PutColumn(&core.Column{Name: "email", Type: core.TypeString, Length: core.Ptr(255)})
	t.PutIndex(&core.Index{Name: "primary", Type: core.IndexPrimary, Columns: []string{"id"}})
	t.PutIndex(&core.Index{Name: "users_email_unique", Type: core.IndexUnique, Columns: []string{"email"}})
	return t
}

func postsTable() *core.Table {
	t := core.NewTable("posts")
	t.PutColumn(&core.Column{Name: "id", Type: core.TypeBigIncrements, AutoIncrement: true, Unsigned: true})
	t.PutColumn(&core.Column{Name: "user_id", Type: core.TypeUnsignedBigInteger, Unsigned: true})
	t.PutForeignKey(core.NewForeignKey("posts_user_id_foreign", []string{"user_id"}, "users", []string{"id"}, "", "cascade"))
	return t
}

func TestDiffIdenticalSchemas(t *testing.T) {
	s := schemaOf(usersTable(), postsTable())
	d := Diff(s, schemaOf(usersTable(), postsTable()))

	assert.False(t, d.HasDifferences)
	require.Len(t, d.Tables, 2)
	for _, td := range d.Tables {
		assert.Equal(t, core.StatusUnchanged, td.Status, td.Name)
		for _, cd := range td.Columns {
			assert.Equal(t, core.StatusUnchanged, cd.Status, cd.Name)
			assert.Empty(t, cd.Changes)
		}
	}
	assert.Empty(t, d.TablesWithDifferences())
}

func TestDiffAddedAndRemovedTables(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		d := Diff(schemaOf(), schemaOf(postsTable()))
		require.True(t, d.HasDifferences)
		td := d.Table("posts")
		require.NotNil(t, td)
		assert.Equal(t, core.StatusAdded, td.Status)
		assert.Nil(t, td.Expected)
		assert.Len(t, td.AddedColumns(), 2)
		require.Len(t, td.ForeignKeys, 1)
		assert.Equal(t, core.StatusAdded, td.ForeignKeys[0].Status)
	})

	t.Run("removed", func(t *testing.T) {
		d := Diff(schemaOf(usersTable()), schemaOf())
		td := d.Table("users")
		require.NotNil(t, td)
		assert.Equal(t, core.StatusRemoved, td.Status)
		assert.Len(t, td.RemovedColumns(), 3)
		assert.Len(t, td.RemovedIndexes(), 2)
		assert.Len(t, d.RemovedTables(), 1)
	})

	t.Run("nil schemas", func(t *testing.T) {
		d := Diff(nil, nil)
		assert.False(t, d.HasDifferences)
		assert.Empty(t, d.Tables)
	})
}

func TestDiffNullableChangeOnly(t *testing.T) {
	expected := usersTable()
	actual := usersTable()
	actual.Column("email").Nullable = true

	d := Diff(schemaOf(expected), schemaOf(actual))
	td := d.Table("users")
	require.NotNil(t, td)
	assert.Equal(t, core.StatusModified, td.Status)
	assert.True(t, td.HasColumnDifferences())

	modified := td.ModifiedColumns()
	require.Len(t, modified, 1)
	assert.Equal(t, "email", modified[0].Name)
	assert.Equal(t, Changes{"nullable": {Expected: false, Actual: true}}, modified[0].Changes)

	assert.Equal(t, core.StatusUnchanged, td.Column("id").Status)
	assert.Equal(t, core.StatusUnchanged, td.Column("name").Status)
}

func TestDiffColumnFields(t *testing.T) {
	base := func() *core.Column {
		return &core.Column{Name: "c", Type: core.TypeDecimal, Precision: core.Ptr(8), Scale: core.Ptr(2), Default: "0"}
	}
	tests := []struct {
		name   string
		mutate func(c *core.Column)
		field  string
	}{
		{"type", func(c *core.Column) { c.Type = core.TypeDouble }, "type"},
		{"precision", func(c *core.Column) { c.Precision = core.Ptr(10) }, "precision"},
		{"scale", func(c *core.Column) { c.Scale = nil }, "scale"},
		{"default", func(c *core.Column) { c.Default = "1" }, "default"},
		{"default to null", func(c *core.Column) { c.Default = nil }, "default"},
		{"unsigned", func(c *core.Column) { c.Unsigned = true }, "unsigned"},
		{"autoIncrement", func(c *core.Column) { c.AutoIncrement = true }, "autoIncrement"},
		{"length", func(c *core.Column) { c.Length = core.Ptr(3) }, "length"},
		{"allowedValues", func(c *core.Column) { c.AllowedValues = []string{"a"} }, "allowedValues"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := base()
			tt.mutate(actual)
			changes := columnFieldChanges(base(), actual)
			require.Len(t, changes, 1)
			assert.True(t, changes.Has(tt.field))
		})
	}
}

func TestDiffCanonicalComparisons(t *testing.T) {
	t.Run("id matches bigIncrements", func(t *testing.T) {
		e := &core.Column{Name: "id", Type: core.TypeID, AutoIncrement: true, Unsigned: true}
		a := &core.Column{Name: "id", Type: core.TypeBigIncrements, AutoIncrement: true, Unsigned: true}
		assert.Empty(t, columnFieldChanges(e, a))
	})
	t.Run("foreignId matches unsignedBigInteger", func(t *testing.T) {
		e := &core.Column{Name: "user_id", Type: core.TypeForeignID, Unsigned: true}
		a := &core.Column{Name: "user_id", Type: core.TypeUnsignedBigInteger, Unsigned: true}
		assert.Empty(t, columnFieldChanges(e, a))
	})
	t.Run("numeric default matches string default", func(t *testing.T) {
		e := &core.Column{Name: "n", Type: core.TypeInteger, Default: int64(0)}
		a := &core.Column{Name: "n", Type: core.TypeInteger, Default: "0"}
		assert.Empty(t, columnFieldChanges(e, a))
	})
	t.Run("bool default matches tinyint default", func(t *testing.T) {
		e := &core.Column{Name: "b", Type: core.TypeBoolean, Default: true}
		a := &core.Column{Name: "b", Type: core.TypeBoolean, Default: "1"}
		assert.Empty(t, columnFieldChanges(e, a))
	})
	t.Run("nil and empty allowed values", func(t *testing.T) {
		e := &core.Column{Name: "s", Type: core.TypeString, AllowedValues: []string{}}
		a := &core.Column{Name: "s", Type: core.TypeString}
		assert.Empty(t, columnFieldChanges(e, a))
	})
}

func TestDiffIndexesAndForeignKeys(t *testing.T) {
	expected := postsTable()
	expected.PutIndex(&core.Index{Name: "posts_user_id_index", Type: core.IndexIndex, Columns: []string{"user_id", "id"}})
	actual := postsTable()
	actual.PutIndex(&core.Index{Name: "posts_user_id_index", Type: core.IndexIndex, Columns: []string{"id", "user_id"}})
	actual.ForeignKeys[0].OnDelete = "cascade"
	actual.ForeignKeys[0].OnUpdate = "RESTRICT"
	actual.PutIndex(&core.Index{Name: "extra", Type: core.IndexIndex, Columns: []string{"id"}})

	d := Diff(schemaOf(expected), schemaOf(actual))
	td := d.Table("posts")
	require.NotNil(t, td)

	require.Len(t, td.Indexes, 2)
	assert.Equal(t, "posts_user_id_index", td.Indexes[0].Name)
	assert.Equal(t, core.StatusModified, td.Indexes[0].Status)
	assert.True(t, td.Indexes[0].Changes.Has("columns"))
	assert.Equal(t, "extra", td.Indexes[1].Name)
	assert.Equal(t, core.StatusAdded, td.Indexes[1].Status)

	require.Len(t, td.ForeignKeys, 1)
	fk := td.ForeignKeys[0]
	assert.Equal(t, core.StatusModified, fk.Status)
	assert.Equal(t, Changes{"onUpdate": {Expected: "NO ACTION", Actual: "RESTRICT"}}, fk.Changes)
}

func TestDiffTableOptionsIgnoreNulls(t *testing.T) {
	expected := usersTable()
	actual := usersTable()
	actual.Engine = core.Ptr("InnoDB")
	actual.Collation = core.Ptr("utf8mb4_unicode_ci")

	d := Diff(schemaOf(expected), schemaOf(actual))
	assert.False(t, d.HasDifferences)

	expected.Engine = core.Ptr("MyISAM")
	d = Diff(schemaOf(expected), schemaOf(actual))
	td := d.Table("users")
	assert.Equal(t, core.StatusModified, td.Status)
	assert.Equal(t, Changes{"engine": {Expected: "MyISAM", Actual: "InnoDB"}}, td.Changes)
	assert.False(t, td.HasColumnDifferences())
}

func TestDiffTableOptionsCaseSensitive(t *testing.T) {
	expected := usersTable()
	expected.Engine = core.Ptr("innodb")
	actual := usersTable()
	actual.Engine = core.Ptr("InnoDB")

	td := Diff(schemaOf(expected), schemaOf(actual)).Table("users")
	assert.Equal(t, core.StatusModified, td.Status)
	assert.Equal(t, Changes{"engine": {Expected: "innodb", Actual: "InnoDB"}}, td.Changes)
}

func TestDiffTablesSortedAndChildOrder(t *testing.T) {
	expected := usersTable()
	actual := core.NewTable("users")
	actual.PutColumn(&core.Column{Name: "zeta", Type: core.TypeString})
	for _, c := range usersTable().Columns {
		actual.PutColumn(c)
	}

	d := Diff(schemaOf(expected, core.NewTable("b")), schemaOf(actual, core.NewTable("a")))
	names := make([]string, 0, len(d.Tables))
	for _, td := range d.Tables {
		names = append(names, td.Name)
	}
	assert.Equal(t, []string{"a", "b", "users"}, names)

	cols := d.Table("users").Columns
	require.Len(t, cols, 4)
	assert.Equal(t, []string{"id", "name", "email", "zeta"}, []string{cols[0].Name, cols[1].Name, cols[2].Name, cols[3].Name})
}

func TestSummaryConsistency(t *testing.T) {
	expected := usersTable()
	actual := usersTable()
	actual.Column("name").Nullable = true
	actual.RemoveColumn("email")

	d := Diff(schemaOf(expected, core.NewTable("gone")), schemaOf(actual, postsTable()))
	s := d.Summary()

	assert.Equal(t, len(d.Tables), s.TotalTables)
	assert.Equal(t, s.TotalTables, s.AddedTables+s.RemovedTables+s.ModifiedTables+s.UnchangedTables)
	assert.Equal(t, 1, s.AddedTables)
	assert.Equal(t, 1, s.RemovedTables)
	assert.Equal(t, 1, s.ModifiedTables)
	assert.Equal(t, 2, s.AddedColumns)
	assert.Equal(t, 1, s.RemovedColumns)
	assert.Equal(t, 1, s.ModifiedColumns)
	assert.Equal(t, 1, s.AddedForeignKeys)
}

func TestEndToEndScenario(t *testing.T) {
	expected := core.NewTable("users")
	expected.PutColumn(&core.Column{Name: "id", Type: core.TypeBigIncrements, AutoIncrement: true, Unsigned: true})
	expected.PutColumn(&core.Column{Name: "email", Type: core.TypeString, Length: core.Ptr(255)})

	actual := core.NewTable("users")
	actual.PutColumn(&core.Column{Name: "id", Type: core.TypeBigIncrements, AutoIncrement: true, Unsigned: true})
	actual.PutColumn(&core.Column{Name: "email", Type: core.TypeString, Length: core.Ptr(255), Nullable: true})

	d := Diff(schemaOf(expected), schemaOf(actual))
	td := d.Table("users")
	require.NotNil(t, td)
	assert.Equal(t, core.StatusModified, td.Status)
	assert.Equal(t, core.StatusUnchanged, td.Column("id").Status)
	assert.Equal(t, Changes{"nullable": {Expected: false, Actual: true}}, td.Column("email").Changes)

	s := d.Summary()
	assert.Equal(t, 1, s.ModifiedTables)
	assert.Equal(t, 1, s.ModifiedColumns)
}

func TestDiffJSONShape(t *testing.T) {
	actual := usersTable()
	actual.Column("email").Nullable = true
	d := Diff(schemaOf(usersTable()), schemaOf(actual))

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, true, out["hasDifferences"])

	summary := out["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["modified_columns"])

	table := out["tables"].([]any)[0].(map[string]any)
	assert.Equal(t, "modified", table["status"])
	assert.Equal(t, true, table["hasDifferences"])
	assert.Equal(t, map[string]any{}, table["changes"])

	column := table["columns"].([]any)[0].(map[string]any)
	assert.Equal(t, "unchanged", column["status"])
	assert.Equal(t, map[string]any{}, column["changes"])
}

func TestTableDiffJSONCarriesBothSides(t *testing.T) {
	tests := []struct {
		name        string
		expected    *core.DatabaseSchema
		actual      *core.DatabaseSchema
		hasExpected bool
		hasActual   bool
	}{
		{name: "removed", expected: schemaOf(usersTable()), actual: schemaOf(), hasExpected: true},
		{name: "added", expected: schemaOf(), actual: schemaOf(usersTable()), hasActual: true},
		{name: "unchanged", expected: schemaOf(usersTable()), actual: schemaOf(usersTable()), hasExpected: true, hasActual: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := Diff(tt.expected, tt.actual).Table("users")
			require.NotNil(t, td)

			data, err := json.Marshal(td)
			require.NoError(t, err)
			var out map[string]any
			require.NoError(t, json.Unmarshal(data, &out))

			require.Contains(t, out, "expected")
			require.Contains(t, out, "actual")
			if tt.hasExpected {
				assert.Equal(t, "users", out["expected"].(map[string]any)["name"])
			} else {
				assert.Nil(t, out["expected"])
			}
			if tt.hasActual {
				assert.Equal(t, "users", out["actual"].(map[string]any)["name"])
			} else {
				assert.Nil(t, out["actual"])
			}
		})
	}
}
