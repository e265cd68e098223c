package migration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemasync/internal/core"
)

const createUsers = `<?php

use Illuminate\Database\Migrations\Migration;
use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('users', function (Blueprint $table) {
            $table->id();
            $table->string('name');
            $table->string('email', 191)->unique();
            $table->decimal('balance', 10, 4)->default(0);
            $table->enum('role', ['admin', 'member'])->default('member');
            $table->boolean('active')->default(true)->comment('Is active');
            $table->integer('score')->nullable()->default(-1);
            $table->foreignId('team_id')->nullable()->constrained()->cascadeOnDelete();
            $table->rememberToken();
            $table->timestamps();
        });
    }

    public function down(): void
    {
        Schema::dropIfExists('users');
    }
};
`

func TestAnalyzeCreate(t *testing.T) {
	ops, err := Analyze([]byte(createUsers))
	require.NoError(t, err)
	require.Len(t, ops, 1, "down() must be ignored")

	op := ops[0]
	assert.Equal(t, OpCreate, op.Type)
	assert.Equal(t, "users", op.Table)

	names := make([]string, 0, len(op.Columns))
	for _, c := range op.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "name", "email", "balance", "role", "active", "score", "team_id", "remember_token", "created_at", "updated_at"}, names)

	byName := func(name string) *core.Column {
		for _, c := range op.Columns {
			if c.Name == name {
				return c
			}
		}
		t.Fatalf("column %s not found", name)
		return nil
	}

	id := byName("id")
	assert.Equal(t, core.TypeID, id.Type)
	assert.True(t, id.AutoIncrement)
	assert.True(t, id.Unsigned)

	assert.Equal(t, 255, *byName("name").Length)
	assert.Equal(t, 191, *byName("email").Length)

	balance := byName("balance")
	assert.Equal(t, 10, *balance.Precision)
	assert.Equal(t, 4, *balance.Scale)
	assert.Equal(t, int64(0), balance.Default)

	role := byName("role")
	assert.Equal(t, []string{"admin", "member"}, role.AllowedValues)
	assert.Equal(t, "member", role.Default)

	active := byName("active")
	assert.Equal(t, true, active.Default)
	assert.Equal(t, "Is active", *active.Comment)

	score := byName("score")
	assert.True(t, score.Nullable)
	assert.Equal(t, int64(-1), score.Default)

	team := byName("team_id")
	assert.Equal(t, core.TypeUnsignedBigInteger, team.Type)
	assert.True(t, team.Unsigned)
	assert.True(t, team.Nullable)

	token := byName("remember_token")
	assert.Equal(t, 100, *token.Length)
	assert.True(t, token.Nullable)

	assert.False(t, byName("created_at").Nullable)
	assert.Equal(t, core.TypeTimestamp, byName("updated_at").Type)

	require.Len(t, op.Indexes, 1)
	assert.Equal(t, "users_email_unique", op.Indexes[0].Name)
	assert.Equal(t, core.IndexUnique, op.Indexes[0].Type)

	require.Len(t, op.ForeignKeys, 1)
	fk := op.ForeignKeys[0]
	assert.Equal(t, "users_team_id_foreign", fk.Name)
	assert.Equal(t, "teams", fk.ReferencedTable)
	assert.Equal(t, []string{"id"}, fk.ReferencedColumns)
	assert.Equal(t, "CASCADE", fk.OnDelete)
	assert.Equal(t, "NO ACTION", fk.OnUpdate)
}

func TestAnalyzeAlterDropRename(t *testing.T) {
	src := `<?php
namespace Database\Migrations;

use Illuminate\Support\Facades\Schema;

class AlterUsers extends \Illuminate\Database\Migrations\Migration
{
    public function up()
    {
        \Illuminate\Support\Facades\Schema::table('users', function ($table) {
            $table->string('phone')->nullable()->after('email');
            $table->dropColumn(['name', 'legacy']);
            $table->dropColumn('other');
            $table->dropSoftDeletes();
            $table->index(['phone', 'email']);
            $table->unique('phone', 'phone_unique');
            $table->foreign('team_id')->references('id')->on('teams')->onDelete('set null');
            $table->foreign('orphan_id')->references('id');
            $table->dropForeign(['owner_id']);
            $table->renameColumn('mail', 'email');
        });
        Schema::rename('posts', 'articles');
        Schema::drop('comments');
        Schema::dropIfExists('likes');
        Schema::dropColumns('tags', ['slug']);
        Other::create('ignored', function ($t) { $t->id(); });
    }
}
`
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)
	require.Len(t, ops, 5)

	alter := ops[0]
	assert.Equal(t, OpTable, alter.Type)
	require.Len(t, alter.Columns, 1)
	assert.Equal(t, "email", *alter.Columns[0].After)
	assert.Equal(t, []string{"name", "legacy", "other", "deleted_at"}, alter.Drops.Columns)
	assert.Equal(t, []string{"users_owner_id_foreign"}, alter.Drops.ForeignKeys)
	assert.Equal(t, []ColumnRename{{From: "mail", To: "email"}}, alter.Renames)

	require.Len(t, alter.Indexes, 2)
	assert.Equal(t, "users_phone_email_index", alter.Indexes[0].Name)
	assert.Equal(t, []string{"phone", "email"}, alter.Indexes[0].Columns)
	assert.Equal(t, "phone_unique", alter.Indexes[1].Name)

	require.Len(t, alter.ForeignKeys, 1, "foreign keys without a referenced table are skipped")
	assert.Equal(t, "users_team_id_foreign", alter.ForeignKeys[0].Name)
	assert.Equal(t, "SET NULL", alter.ForeignKeys[0].OnDelete)

	assert.Equal(t, Operation{Type: OpRename, Table: "posts", NewName: "articles"}, ops[1])
	assert.Equal(t, OpDrop, ops[2].Type)
	assert.Equal(t, OpDropIfExists, ops[3].Type)
	assert.Equal(t, "likes", ops[3].Table)
	assert.Equal(t, []string{"slug"}, ops[4].Drops.Columns)
}

func TestAnalyzeMultiColumnHelpers(t *testing.T) {
	src := `<?php
return new class {
    public function up() {
        Schema::create('images', fn (Blueprint $table) => $table->nullableMorphs('imageable'));
        Schema::table('images', function (Blueprint $table) {
            $table->uuidMorphs('owner');
            $table->softDeletesTz('removed_at');
            $table->timestampsTz();
            $table->engine = 'InnoDB';
            $table->charset('utf8mb4');
        });
    }
};`
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)
	require.Len(t, ops, 2)

	create := ops[0]
	require.Len(t, create.Columns, 2)
	assert.Equal(t, "imageable_type", create.Columns[0].Name)
	assert.True(t, create.Columns[0].Nullable)
	assert.Equal(t, core.TypeUnsignedBigInteger, create.Columns[1].Type)
	assert.True(t, create.Columns[1].Unsigned)
	require.Len(t, create.Indexes, 1)
	assert.Equal(t, "images_imageable_type_imageable_id_index", create.Indexes[0].Name)

	alter := ops[1]
	cols := map[string]*core.Column{}
	for _, c := range alter.Columns {
		cols[c.Name] = c
	}
	assert.Equal(t, core.TypeUUID, cols["owner_id"].Type)
	assert.False(t, cols["owner_id"].Nullable)
	assert.Equal(t, core.TypeTimestampTz, cols["removed_at"].Type)
	assert.True(t, cols["removed_at"].Nullable)
	assert.True(t, cols["created_at"].Nullable)
	assert.Equal(t, "InnoDB", *alter.Engine)
	assert.Equal(t, "utf8mb4", *alter.Charset)
}

func TestAnalyzeIgnoresCallsOutsideUp(t *testing.T) {
	src := `<?php
class Seeder {
    public function run() {
        Schema::create('x', function ($t) { $t->id(); });
    }
}
Schema::create('y', function ($t) { $t->id(); });
`
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestAnalyzeSyntaxError(t *testing.T) {
	_, err := Analyze([]byte("<?php return new class { public function up( {"))
	require.Error(t, err)

	var perr *MigrationParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "inline", perr.File)
	assert.Contains(t, err.Error(), "failed to parse migration 'inline'")
}

func TestAnalyzeFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.php")
	_, err := AnalyzeFile(path)

	var perr *MigrationParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, path, perr.File)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMethodChainOrder(t *testing.T) {
	src := `<?php
return new class {
    public function up() {
        Schema::create('t', function ($table) {
            $table->string('code', 12)->nullable(false)->default('x')->charset('latin1')->collation('latin1_bin')->first();
        });
    }
};`
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Len(t, ops[0].Columns, 1)

	c := ops[0].Columns[0]
	assert.Equal(t, 12, *c.Length)
	assert.False(t, c.Nullable)
	assert.Equal(t, "x", c.Default)
	assert.Equal(t, "latin1", *c.Charset)
	assert.Equal(t, "latin1_bin", *c.Collation)
	assert.True(t, c.First)
}

func analyzeColumns(t *testing.T, body string) *Operation {
	t.Helper()
	src := "<?php\nreturn new class {\n    public function up() {\n        Schema::create('t', function ($table) {\n" +
		body + "\n        });\n    }\n};"
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	return &ops[0]
}

func TestFloatingPointDefaults(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		typ       core.ColumnType
		precision int
		scale     int
		unsigned  bool
	}{
		{name: "decimal", body: "$table->decimal('n');", typ: core.TypeDecimal, precision: 8, scale: 2},
		{name: "float", body: "$table->float('n');", typ: core.TypeFloat, precision: 8, scale: 2},
		{name: "double", body: "$table->double('n');", typ: core.TypeDouble, precision: 8, scale: 2},
		{name: "unsigned decimal", body: "$table->unsignedDecimal('n');", typ: core.TypeDecimal, precision: 8, scale: 2, unsigned: true},
		{name: "float with precision", body: "$table->float('n', 10);", typ: core.TypeFloat, precision: 10, scale: 2},
		{name: "double with both", body: "$table->double('n', 15, 6);", typ: core.TypeDouble, precision: 15, scale: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := analyzeColumns(t, tt.body)
			require.Len(t, op.Columns, 1)
			c := op.Columns[0]
			assert.Equal(t, tt.typ, c.Type)
			require.NotNil(t, c.Precision)
			require.NotNil(t, c.Scale)
			assert.Equal(t, tt.precision, *c.Precision)
			assert.Equal(t, tt.scale, *c.Scale)
			assert.Equal(t, tt.unsigned, c.Unsigned)
		})
	}
}

func TestSchemaCallsInsideControlFlow(t *testing.T) {
	src := `<?php
use Illuminate\Support\Facades\DB;

return new class {
    public function up() {
        foreach (['a', 'b'] as $name) {
            Schema::create('looped', function ($table) { $table->id(); });
        }
        try {
            Schema::create('tried', function ($table) { $table->id(); });
        } catch (\Throwable $e) {
            Schema::dropIfExists('caught');
        } finally {
            Schema::drop('finally');
        }
        DB::transaction(function () {
            Schema::table('wrapped', function ($table) { $table->string('note'); });
        });
        while (false) {
            Schema::rename('from', 'to');
        }
        switch (config('app.env')) {
            case 'local':
                Schema::create('local_only', function ($table) { $table->id(); });
        }
    }

    public function down() {
        Schema::dropIfExists('looped');
    }
};`
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)

	var got []string
	for _, op := range ops {
		got = append(got, string(op.Type)+":"+op.Table)
	}
	assert.Equal(t, []string{
		string(OpCreate) + ":looped",
		string(OpCreate) + ":tried",
		string(OpDropIfExists) + ":caught",
		string(OpDrop) + ":finally",
		string(OpTable) + ":wrapped",
		string(OpRename) + ":from",
		string(OpCreate) + ":local_only",
	}, got)

	require.Len(t, ops[4].Columns, 1)
	assert.Equal(t, "note", ops[4].Columns[0].Name)
}

func TestSchemaConnectionCall(t *testing.T) {
	src := `<?php
return new class {
    public function up() {
        Schema::connection('reporting')->create('reports', function ($table) { $table->id(); });
    }
};`
	ops, err := Analyze([]byte(src))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "reports", ops[0].Table)
}

func TestColumnIndexNames(t *testing.T) {
	op := analyzeColumns(t, `
            $table->string('email')->unique();
            $table->string('slug')->index();
            $table->string('code')->unique('custom_code');
            $table->string('title')->index('by_title');`)

	names := make([]string, 0, len(op.Indexes))
	for _, idx := range op.Indexes {
		names = append(names, idx.Name)
	}
	assert.Equal(t, []string{"t_email_unique", "t_slug_index", "custom_code", "by_title"}, names)
}

func TestUnrecognizedColumnMethod(t *testing.T) {
	op := analyzeColumns(t, `
            $table->id();
            $table->hologram('shape')->nullable();
            $table->renameIndex('old_index', 'new_index');`)

	require.Len(t, op.Columns, 2)
	shape := op.Columns[1]
	assert.Equal(t, "shape", shape.Name)
	assert.Equal(t, core.TypeUnknown, shape.Type)
	assert.True(t, shape.Nullable)
}
