package templates

import (
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	return New(fstest.MapFS{
		"app/ts/tsconfig.json":      {Data: []byte(`{"paths": {"@/*": ["./*"]}}`)},
		"app/ts/app/page.tsx":       {Data: []byte("app/page.tsx")},
		"app/ts/gitignore":          {Data: []byte("node_modules")},
		"default/js/pages/a.js":     {Data: []byte("a")},
		"authority/.env":            {Data: []byte("A=1\n")},
		"authority/config.json":     {Data: []byte("{}")},
		"engine/docker-compose.yml": {Data: []byte("services:\n")},
	})
}

func TestStoreTree(t *testing.T) {
	s := testStore()

	tree, err := s.Tree(types.FamilyApp, types.ModeTS)
	require.NoError(t, err)

	var paths []string
	for _, f := range tree.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"app/page.tsx", "gitignore", "tsconfig.json"}, paths)
	assert.Equal(t, "node_modules", string(tree.Files[1].Data))

	_, err = s.Tree(types.FamilyApp, types.ModeJS)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
}

func TestStoreFamilies(t *testing.T) {
	s := testStore()

	assert.Equal(t, []types.TemplateFamily{types.FamilyApp}, s.Families(types.ModeTS))
	assert.Equal(t, []types.TemplateFamily{types.FamilyDefault}, s.Families(types.ModeJS))
	assert.False(t, s.Has("authority", types.ModeTS))
}

func TestBundleFile(t *testing.T) {
	s := testStore()

	b, err := s.Bundle(BundleAuthority)
	require.NoError(t, err)

	data, err := b.File(EnvFragment)
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", string(data))

	_, err = b.File(ManifestFragment)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
	assert.Equal(t, "authority", errors.GetErrorDetails(err)["bundle"])

	_, err = s.Bundle("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
}

func TestEmbeddedStore(t *testing.T) {
	s := Embedded()

	for _, family := range []types.TemplateFamily{types.FamilyApp, types.FamilyDefault} {
		for _, mode := range []types.LanguageMode{types.ModeTS, types.ModeJS} {
			t.Run(string(family)+"/"+string(mode), func(t *testing.T) {
				tree, err := s.Tree(family, mode)
				require.NoError(t, err)

				files := map[string]string{}
				for _, f := range tree.Files {
					files[f.Path] = string(f.Data)
				}

				cfg, ok := files[mode.ResolutionConfig()]
				require.True(t, ok, "resolution config missing")
				assert.Contains(t, cfg, `"@/*": ["./*"]`)

				assert.Contains(t, files, "gitignore")
				assert.Contains(t, files, "eslintrc.json")
				assert.Contains(t, files, "README-template.md")
				assert.Contains(t, files, "tailwind.config.js")
				assert.Contains(t, files, "postcss.config.js")

				entry := "pages/index." + mode.PageExt()
				if family.IsAppRouter() {
					entry = "app/page." + mode.PageExt()
				}
				assert.Contains(t, files[entry], strings.TrimSuffix(entry, "."+mode.PageExt()))
			})
		}
	}

	for _, name := range []BundleName{BundleAuthority, BundleEngine} {
		b, err := s.Bundle(name)
		require.NoError(t, err)
		for _, fragment := range []string{EnvFragment, ManifestFragment, ConfigFragment} {
			data, err := b.File(fragment)
			require.NoError(t, err, "%s/%s", name, fragment)
			assert.NotEmpty(t, data)
		}
		cfg, _ := b.File(ConfigFragment)
		assert.True(t, json.Valid(cfg), "%s config must be valid JSON", name)
	}
}
