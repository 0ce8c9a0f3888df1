package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/tracker/internal/app"
	"github.com/thenoetrevino/tracker/internal/config"
	"github.com/thenoetrevino/tracker/internal/testutil"
)

// setupCLITest returns a context carrying an in-memory App.
func setupCLITest(t *testing.T) (context.Context, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	a := app.New(db, app.WithPasswordCost(bcrypt.MinCost))
	return WithApp(context.Background(), a), a
}

func TestUserAdd(t *testing.T) {
	ctx, a := setupCLITest(t)

	output, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=alice", "--password=secret", "--json")
	require.NoError(t, err)

	result := testutil.ParseJSON(t, output)
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["name"])
	assert.NotContains(t, output, "password")

	_, err = a.UserService.Authenticate(ctx, "alice", "secret")
	assert.NoError(t, err)
}

func TestUserAdd_Human(t *testing.T) {
	ctx, _ := setupCLITest(t)

	output, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=carol", "--password=pw")
	require.NoError(t, err)
	plain := ansi.Strip(output)
	assert.Contains(t, plain, "User registered")
	assert.Contains(t, plain, "Name: carol")
	assert.NotContains(t, plain, "pw")
}

func TestUserAdd_Quiet(t *testing.T) {
	ctx, _ := setupCLITest(t)

	output, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=bob", "--password=pw", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "bob", strings.TrimSpace(output))
}

func TestUserAdd_Duplicate(t *testing.T) {
	ctx, _ := setupCLITest(t)

	_, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=alice", "--password=pw", "--quiet")
	require.NoError(t, err)

	output, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=alice", "--password=pw", "--json")
	require.Error(t, err)
	assert.Equal(t, ExitConflict, ExitCode(err))

	result := testutil.ParseJSON(t, output)
	assert.Equal(t, false, result["success"])
}

func TestUserAdd_InvalidName(t *testing.T) {
	ctx, _ := setupCLITest(t)

	_, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=a:b", "--password=pw", "--json")
	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))
}

func TestUserAdd_MissingPassword(t *testing.T) {
	ctx, _ := setupCLITest(t)

	_, err := testutil.ExecuteCommand(t, ctx, UserCmd(), "add", "--name=alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestProjectShow(t *testing.T) {
	ctx, a := setupCLITest(t)
	store := a.Store()
	testutil.CreateTestProject(t, store, "alice", "Demo", "open", "bug")
	testutil.AddTestStates(t, store, "Demo", "closed")
	testutil.AddTestTransition(t, store, "Demo", "open", "closed")

	t.Run("json", func(t *testing.T) {
		output, err := testutil.ExecuteCommand(t, ctx, ProjectCmd(), "show", "--name=Demo", "--json")
		require.NoError(t, err)

		data := testutil.ParseJSON(t, output)["data"].(map[string]interface{})
		assert.Equal(t, "Demo", data["name"])
		assert.Equal(t, "open", data["initial_state"])
		assert.Equal(t, []interface{}{"bug"}, data["allowed_labels"])
		assert.ElementsMatch(t, []interface{}{"open", "closed"}, data["allowed_states"])
		assert.Equal(t, []interface{}{"open->closed"}, data["transitions"])
	})

	t.Run("human", func(t *testing.T) {
		output, err := testutil.ExecuteCommand(t, ctx, ProjectCmd(), "show", "--name=Demo")
		require.NoError(t, err)
		plain := ansi.Strip(output)
		assert.Contains(t, plain, "Project: Demo")
		assert.Contains(t, plain, "Owner: alice")
		assert.Contains(t, plain, "Labels: bug")
		assert.Contains(t, plain, "• open->closed")
		assert.Contains(t, plain, "╭")
	})

	t.Run("quiet stays unstyled", func(t *testing.T) {
		output, err := testutil.ExecuteCommand(t, ctx, ProjectCmd(), "show", "--name=Demo", "--quiet")
		require.NoError(t, err)
		assert.Equal(t, "Demo\n", output)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := testutil.ExecuteCommand(t, ctx, ProjectCmd(), "show", "--name=Nope", "--json")
		require.Error(t, err)
		assert.Equal(t, ExitNotFound, ExitCode(err))
	})
}

func TestMigrate_CreatesDatabaseFile(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "tracker.db")
	ctx := WithConfig(context.Background(), cfg)

	output, err := testutil.ExecuteCommand(t, ctx, MigrateCmd(), "--json")
	require.NoError(t, err)

	data := testutil.ParseJSON(t, output)["data"].(map[string]interface{})
	assert.Equal(t, cfg.Database.Path, data["database"])
	assert.FileExists(t, cfg.Database.Path)
}

func TestConfigFromContext_Defaults(t *testing.T) {
	cfg := ConfigFromContext(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, config.Default().Server.Addr, cfg.Server.Addr)
}
