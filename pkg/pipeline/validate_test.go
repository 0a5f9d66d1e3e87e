package pipeline

import (
	"testing"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAppName(t *testing.T) {
	valid := []string{"my-app", "app1", "@scope/app", "a.b_c~d"}
	for _, name := range valid {
		assert.NoError(t, ValidateAppName(name), name)
	}

	invalid := []string{"", "My-App", ".hidden", "_private", "has space", " lead", "a/b", "@scope", "@/x"}
	for _, name := range invalid {
		err := ValidateAppName(name)
		require.Error(t, err, name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	}
}

func TestValidateAlias(t *testing.T) {
	for _, a := range []string{"@/*", "~/*", "#lib/*", "@app/* "} {
		assert.NoError(t, ValidateAlias(a), a)
	}
	for _, a := range []string{"@*", "@/", "*/*", `"@"/*`, "@/*/x"} {
		assert.Error(t, ValidateAlias(a), a)
	}
}

func TestConflicts(t *testing.T) {
	fs := testutil.NewTestFS()

	conflicts, err := Conflicts(fs, "/missing")
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	testutil.CreateFileTree(t, fs, "/p", testutil.FileTree{
		".DS_Store":          "",
		".idea":              testutil.FileTree{"workspace.xml": ""},
		"npm-debug.log.1234": "",
		"yarn-error.log":     "",
		"src":                testutil.FileTree{"a.ts": ""},
		"package.json":       "{}",
	})

	conflicts, err = Conflicts(fs, "/p")
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json", "src"}, conflicts)
}
