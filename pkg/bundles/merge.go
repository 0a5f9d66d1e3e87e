package bundles

import (
	"bytes"
	"context"
	"sort"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MergeResult reports what Merge wrote
type MergeResult struct {
	Bundles  []templates.BundleName
	Files    []string
	EnvFile  string
	Manifest string
}

// Apply collects the contributions of every integration the request enables
// and merges them into the project.
func Apply(fsys types.FS, store *templates.Store, ctx Context) (*MergeResult, error) {
	logger := logging.GetLogger("bundles")

	var contributions []*Contribution
	for _, integration := range Selected(store, ctx.Request) {
		c, err := integration.Contribute(ctx)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("bundle", string(c.Bundle)).
			Int("files", len(c.Files)).
			Msg("Integration contributed")
		contributions = append(contributions, c)
	}

	return Merge(fsys, ctx, contributions)
}

// Merge writes every contribution into the project. Standalone files are
// written as they are; the environment and manifest fragments are combined
// in rank order and each shared file is written once. Nothing is written
// until every fragment has been validated.
func Merge(fsys types.FS, ctx Context, contributions []*Contribution) (*MergeResult, error) {
	logger := logging.GetLogger("bundles")

	ordered := make([]*Contribution, len(contributions))
	copy(ordered, contributions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rankOf(ordered[i].Bundle) < rankOf(ordered[j].Bundle)
	})

	result := &MergeResult{}
	writes := newPlan(fsys)
	var envFragments, manifestFragments [][]byte

	for _, c := range ordered {
		result.Bundles = append(result.Bundles, c.Bundle)

		for _, dir := range c.Dirs {
			writes.Mkdir(c.Bundle, dir)
		}
		for _, f := range c.Files {
			writes.Write(c.Bundle, f.Path, f.Data)
			result.Files = append(result.Files, f.Path)
		}

		if len(c.Env) > 0 {
			if _, err := godotenv.Unmarshal(string(c.Env)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrMalformedData, "bundle %s: invalid environment fragment", c.Bundle).
					WithDetail("bundle", string(c.Bundle))
			}
			envFragments = append(envFragments, c.Env)
		}
		if len(c.Manifest) > 0 {
			manifestFragments = append(manifestFragments, c.Manifest)
		}
	}

	if len(envFragments) > 0 {
		path := ctx.Path(EnvFile)
		existing, err := fsys.ReadFile(path)
		if err != nil && !errors.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", EnvFile)
		}
		writes.Write("", path, MergeEnv(existing, envFragments...))
		result.EnvFile = path
	}

	if len(manifestFragments) > 0 {
		merged := MergeManifest(ctx.Config.Bundles.HeaderLines, manifestFragments...)
		if _, err := ManifestServices(merged); err != nil {
			return nil, err
		}
		path := ctx.Path(ManifestFile)
		writes.Write("", path, merged)
		result.Manifest = path
	}

	if err := writes.Run(context.Background()); err != nil {
		return nil, err
	}

	logger.Info().
		Int("bundles", len(result.Bundles)).
		Int("files", len(result.Files)).
		Msg("Integrations merged")

	return result, nil
}

// MergeEnv appends fragments to existing, separating entries by a newline
func MergeEnv(existing []byte, fragments ...[]byte) []byte {
	out := append([]byte(nil), existing...)
	for _, frag := range fragments {
		out = appendLine(out, frag)
	}
	return out
}

// MergeManifest keeps the first fragment whole and drops the first
// headerLines lines of every later one before appending it.
func MergeManifest(headerLines int, fragments ...[]byte) []byte {
	var out []byte
	for i, frag := range fragments {
		if i > 0 {
			frag = DropLines(frag, headerLines)
		}
		out = appendLine(out, frag)
	}
	return out
}

// DropLines removes the first n newline-separated lines of data
func DropLines(data []byte, n int) []byte {
	lines := bytes.Split(data, []byte("\n"))
	if n >= len(lines) {
		return nil
	}
	return bytes.Join(lines[n:], []byte("\n"))
}

// ManifestServices parses a container manifest and returns its service
// names in document order.
func ManifestServices(data []byte) ([]string, error) {
	var doc struct {
		Services yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedData, "%s is not valid YAML", ManifestFile)
	}
	if doc.Services.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrMalformedData, "%s has no services mapping", ManifestFile)
	}

	var names []string
	for i := 0; i+1 < len(doc.Services.Content); i += 2 {
		names = append(names, doc.Services.Content[i].Value)
	}
	return names, nil
}

// EnvKeys parses an environment file and returns its keys
func EnvKeys(data []byte) ([]string, error) {
	env, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedData, "%s is not a valid environment file", EnvFile)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func appendLine(out, frag []byte) []byte {
	if len(out) > 0 && len(frag) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return append(out, frag...)
}
