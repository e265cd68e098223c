package mysql

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

const fixtureDDL = `
CREATE TABLE teams (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='All teams';

CREATE TABLE users (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	email VARCHAR(191) NOT NULL,
	role ENUM('admin','member') NOT NULL DEFAULT 'member',
	active TINYINT(1) NOT NULL DEFAULT 1,
	balance DECIMAL(10,2) NULL COMMENT 'Account balance',
	team_id BIGINT UNSIGNED NULL,
	PRIMARY KEY (id),
	UNIQUE KEY users_email_unique (email),
	KEY users_role_active_index (role, active),
	CONSTRAINT users_team_id_foreign FOREIGN KEY (team_id) REFERENCES teams (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

func TestCatalogIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("testdb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "multiStatements=true")
	require.NoError(t, err)

	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, fixtureDDL)
	require.NoError(t, err)

	i, err := introspect.NewIntrospector("mysql", db, "testing")
	require.NoError(t, err)

	s, err := i.Introspect(ctx, []string{"teams"})
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, s.TableNames())
	assert.Equal(t, "testing", *s.Connection)

	users := s.Table("users")
	require.NotNil(t, users)
	assert.Equal(t, []string{"id", "email", "role", "active", "balance", "team_id"}, users.ColumnNames())

	id := users.Column("id")
	assert.Equal(t, core.TypeBigIncrements, id.Type)
	assert.True(t, id.AutoIncrement)
	assert.True(t, id.Unsigned)

	assert.Equal(t, 191, *users.Column("email").Length)

	role := users.Column("role")
	assert.Equal(t, []string{"admin", "member"}, role.AllowedValues)
	assert.Equal(t, "member", role.Default)

	assert.Equal(t, core.TypeBoolean, users.Column("active").Type)
	assert.Equal(t, "1", users.Column("active").Default)

	balance := users.Column("balance")
	assert.True(t, balance.Nullable)
	assert.Equal(t, "Account balance", *balance.Comment)
	assert.Equal(t, 10, *balance.Precision)

	pk := users.PrimaryKey()
	require.NotNil(t, pk)
	assert.Equal(t, "primary", pk.Name)

	composite := users.Index("users_role_active_index")
	require.NotNil(t, composite)
	assert.Equal(t, []string{"role", "active"}, composite.Columns)
	assert.Equal(t, core.IndexUnique, users.Index("users_email_unique").Type)

	fk := users.ForeignKey("users_team_id_foreign")
	require.NotNil(t, fk)
	assert.Equal(t, "teams", fk.ReferencedTable)
	assert.Equal(t, []string{"id"}, fk.ReferencedColumns)
	assert.Equal(t, "CASCADE", fk.OnDelete)

	assert.Equal(t, "InnoDB", *users.Engine)
	assert.Equal(t, "utf8mb4", *users.Charset)
	assert.Nil(t, users.Comment)

	teams, err := i.Table(ctx, "teams")
	require.NoError(t, err)
	assert.Equal(t, "All teams", *teams.Comment)

	missing, err := i.Table(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
