package mysql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemasync/internal/core"
)

const dump = "-- MySQL dump 10.13\n" +
	"/*!40101 SET NAMES utf8mb4 */;\n" +
	"DROP TABLE IF EXISTS `teams`;\n" +
	"CREATE TABLE `teams` (\n" +
	"  `id` bigint unsigned NOT NULL AUTO_INCREMENT,\n" +
	"  `name` varchar(255) NOT NULL,\n" +
	"  PRIMARY KEY (`id`)\n" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='Teams';\n" +
	"CREATE TABLE `users` (\n" +
	"  `id` bigint unsigned NOT NULL AUTO_INCREMENT,\n" +
	"  `email` varchar(191) COLLATE utf8mb4_bin NOT NULL,\n" +
	"  `role` enum('admin','member') NOT NULL DEFAULT 'member',\n" +
	"  `active` tinyint(1) NOT NULL DEFAULT '1',\n" +
	"  `balance` decimal(10,4) NOT NULL DEFAULT '0.0000',\n" +
	"  `bio` text,\n" +
	"  `token` char(36) DEFAULT NULL COMMENT 'api token',\n" +
	"  `team_id` bigint unsigned DEFAULT NULL,\n" +
	"  `created_at` timestamp NULL DEFAULT CURRENT_TIMESTAMP,\n" +
	"  PRIMARY KEY (`id`),\n" +
	"  UNIQUE KEY `users_email_unique` (`email`),\n" +
	"  KEY `users_team_id_foreign` (`team_id`),\n" +
	"  FULLTEXT KEY `users_bio_fulltext` (`bio`),\n" +
	"  CONSTRAINT `users_team_id_foreign` FOREIGN KEY (`team_id`) REFERENCES `teams` (`id`) ON DELETE CASCADE\n" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;\n"

func TestParseDump(t *testing.T) {
	s, err := NewParser().Parse(dump, "snapshot")
	require.NoError(t, err)
	assert.Equal(t, []string{"teams", "users"}, s.TableNames())
	assert.Equal(t, "snapshot", *s.Connection)

	teams := s.Table("teams")
	assert.Equal(t, "InnoDB", *teams.Engine)
	assert.Equal(t, "utf8mb4", *teams.Charset)
	assert.Equal(t, "utf8mb4_unicode_ci", *teams.Collation)
	assert.Equal(t, "Teams", *teams.Comment)

	users := s.Table("users")
	require.NotNil(t, users)
	assert.Equal(t, []string{"id", "email", "role", "active", "balance", "bio", "token", "team_id", "created_at"}, users.ColumnNames())

	id := users.Column("id")
	assert.Equal(t, core.TypeBigIncrements, id.Type)
	assert.True(t, id.AutoIncrement)
	assert.True(t, id.Unsigned)
	assert.False(t, id.Nullable)

	email := users.Column("email")
	assert.Equal(t, core.TypeString, email.Type)
	assert.Equal(t, 191, *email.Length)
	assert.Equal(t, "utf8mb4_bin", *email.Collation)

	role := users.Column("role")
	assert.Equal(t, core.TypeEnum, role.Type)
	assert.Equal(t, []string{"admin", "member"}, role.AllowedValues)
	assert.Equal(t, "member", role.Default)

	active := users.Column("active")
	assert.Equal(t, core.TypeBoolean, active.Type)
	assert.Equal(t, "1", active.Default)

	balance := users.Column("balance")
	assert.Equal(t, 10, *balance.Precision)
	assert.Equal(t, 4, *balance.Scale)
	assert.Equal(t, "0.0000", balance.Default)

	bio := users.Column("bio")
	assert.Equal(t, core.TypeText, bio.Type)
	assert.True(t, bio.Nullable)
	assert.Nil(t, bio.Default)

	token := users.Column("token")
	assert.Equal(t, core.TypeUUID, token.Type)
	assert.Nil(t, token.Default)
	assert.Equal(t, "api token", *token.Comment)

	team := users.Column("team_id")
	assert.Equal(t, core.TypeUnsignedBigInteger, team.Type)

	assert.Equal(t, "CURRENT_TIMESTAMP", users.Column("created_at").Default)

	pk := users.PrimaryKey()
	require.NotNil(t, pk)
	assert.Equal(t, "primary", pk.Name)
	assert.Equal(t, []string{"id"}, pk.Columns)

	assert.Equal(t, core.IndexUnique, users.Index("users_email_unique").Type)
	assert.Equal(t, core.IndexIndex, users.Index("users_team_id_foreign").Type)
	assert.Equal(t, core.IndexFulltext, users.Index("users_bio_fulltext").Type)

	fk := users.ForeignKey("users_team_id_foreign")
	require.NotNil(t, fk)
	assert.Equal(t, []string{"team_id"}, fk.Columns)
	assert.Equal(t, "teams", fk.ReferencedTable)
	assert.Equal(t, []string{"id"}, fk.ReferencedColumns)
	assert.Equal(t, "CASCADE", fk.OnDelete)
	assert.Equal(t, "NO ACTION", fk.OnUpdate)
}

func TestParseInlineKeysAndAlter(t *testing.T) {
	sql := `
CREATE TABLE tags (
  id int NOT NULL AUTO_INCREMENT PRIMARY KEY,
  slug varchar(64) UNIQUE,
  post_id int,
  KEY (post_id),
  KEY (post_id, slug)
);
ALTER TABLE tags ADD CONSTRAINT FOREIGN KEY (post_id) REFERENCES posts (id) ON UPDATE SET NULL;
ALTER TABLE missing ADD COLUMN x int;
CREATE TABLE scratch (id int);
DROP TABLE scratch;
`
	s, err := NewParser().Parse(sql, "")
	require.NoError(t, err)
	assert.Nil(t, s.Connection)
	assert.Equal(t, []string{"tags"}, s.TableNames())

	tags := s.Table("tags")
	assert.Equal(t, core.TypeIncrements, tags.Column("id").Type)
	assert.False(t, tags.Column("id").Nullable)
	require.NotNil(t, tags.PrimaryKey())

	assert.Equal(t, core.IndexUnique, tags.Index("slug").Type)
	assert.Equal(t, []string{"post_id"}, tags.Index("post_id").Columns)
	assert.Equal(t, []string{"post_id", "slug"}, tags.Index("post_id_2").Columns)

	require.Len(t, tags.ForeignKeys, 1)
	fk := tags.ForeignKeys[0]
	assert.Equal(t, "tags_ibfk_1", fk.Name)
	assert.Equal(t, "SET NULL", fk.OnUpdate)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := NewParser().Parse("CREATE TABLE (", "")
	assert.ErrorContains(t, err, "failed to parse MySQL dump")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))

	s, err := NewParser().ParseFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())

	_, err = NewParser().ParseFile(filepath.Join(t.TempDir(), "nope.sql"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTryUnquoteSQLStringLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"'abc'", "abc", true},
		{"'it''s'", "it's", true},
		{"_utf8mb4'x'", "x", true},
		{"N'y'", "y", true},
		{"CURRENT_TIMESTAMP", "", false},
		{"foo'bar'", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := tryUnquoteSQLStringLiteral(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
