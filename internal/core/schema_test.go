package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable() *Table {
	t := NewTable("users")
	t.PutColumn(&Column{Name: "id", Type: TypeBigIncrements, AutoIncrement: true, Unsigned: true})
	t.PutColumn(&Column{Name: "email", Type: TypeString, Length: Ptr(255)})
	t.PutIndex(&Index{Name: "primary", Type: IndexPrimary, Columns: []string{"id"}})
	t.PutIndex(&Index{Name: "users_email_unique", Type: IndexUnique, Columns: []string{"email"}})
	return t
}

func TestTableLookups(t *testing.T) {
	table := usersTable()

	assert.True(t, table.HasColumn("email"))
	assert.False(t, table.HasColumn("name"))
	assert.Nil(t, table.Column("missing"))
	assert.Equal(t, []string{"id", "email"}, table.ColumnNames())
	require.NotNil(t, table.PrimaryKey())
	assert.Equal(t, []string{"id"}, table.PrimaryKey().Columns)
	assert.Nil(t, table.ForeignKey("nope"))
}

func TestTablePutColumnReplacesInPlace(t *testing.T) {
	table := usersTable()
	table.PutColumn(&Column{Name: "name", Type: TypeString})
	table.PutColumn(&Column{Name: "id", Type: TypeID})

	assert.Equal(t, []string{"id", "email", "name"}, table.ColumnNames())
	assert.Equal(t, TypeID, table.Column("id").Type)
}

func TestTableRemoveAndRename(t *testing.T) {
	table := usersTable()

	assert.True(t, table.RenameColumn("email", "mail"))
	assert.False(t, table.RenameColumn("missing", "x"))
	assert.Equal(t, []string{"mail"}, table.Index("users_email_unique").Columns)

	table.RemoveColumn("mail")
	table.RemoveIndex("users_email_unique")
	assert.Equal(t, []string{"id"}, table.ColumnNames())
	assert.Len(t, table.Indexes, 1)
}

func TestTableCloneIsDeep(t *testing.T) {
	table := usersTable()
	table.Engine = Ptr("InnoDB")
	table.PutForeignKey(NewForeignKey("fk", []string{"id"}, "accounts", []string{"id"}, "", "cascade"))

	clone := table.Clone()
	clone.Column("email").Length = Ptr(100)
	clone.Index("primary").Columns[0] = "uuid"
	*clone.Engine = "MyISAM"
	clone.ForeignKeys[0].Columns[0] = "other"

	assert.Equal(t, 255, *table.Column("email").Length)
	assert.Equal(t, "id", table.Index("primary").Columns[0])
	assert.Equal(t, "InnoDB", *table.Engine)
	assert.Equal(t, "id", table.ForeignKeys[0].Columns[0])
}

func TestNormalizeAction(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "NO ACTION"},
		{"cascade", "CASCADE"},
		{"set_null", "SET NULL"},
		{"SET_DEFAULT", "SET DEFAULT"},
		{" no  action ", "NO ACTION"},
		{"restrict", "RESTRICT"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAction(tt.in))
		})
	}
}

func TestDatabaseSchemaLookups(t *testing.T) {
	s := NewDatabaseSchema("mysql")
	assert.True(t, s.IsEmpty())

	s.PutTable(usersTable())
	s.PutTable(NewTable("posts"))

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.HasTable("posts"))
	assert.Nil(t, s.Table("comments"))
	assert.Equal(t, []string{"users", "posts"}, s.TableNames())

	filtered := s.Without([]string{"users"})
	assert.Equal(t, []string{"posts"}, filtered.TableNames())
	assert.Equal(t, 2, s.Count())

	s.RemoveTable("users")
	assert.Equal(t, []string{"posts"}, s.TableNames())

	var nilSchema *DatabaseSchema
	assert.Nil(t, nilSchema.Table("x"))
	assert.True(t, nilSchema.IsEmpty())
}

func TestDatabaseSchemaJSON(t *testing.T) {
	s := NewDatabaseSchema("default")
	s.PutTable(usersTable())
	s.PutTable(NewTable("empty"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, "default", generic["connection"])

	tables := generic["tables"].(map[string]any)
	empty := tables["empty"].(map[string]any)
	assert.Equal(t, []any{}, empty["columns"])
	assert.Equal(t, []any{}, empty["foreignKeys"])
	assert.Nil(t, empty["engine"])

	users := tables["users"].(map[string]any)
	email := users["columns"].([]any)[1].(map[string]any)
	assert.Equal(t, "string", email["type"])
	assert.Nil(t, email["allowedValues"])
	assert.Nil(t, email["default"])

	var back DatabaseSchema
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"empty", "users"}, back.TableNames())
	assert.Equal(t, TypeBigIncrements, back.Table("users").Column("id").Type)
	assert.Equal(t, 255, *back.Table("users").Column("email").Length)
}

func TestDatabaseSchemaJSONNullConnection(t *testing.T) {
	data, err := json.Marshal(NewDatabaseSchema(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tables":{},"connection":null}`, string(data))
}
