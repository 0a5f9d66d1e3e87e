package bundles

import (
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
)

// File is a standalone file written by an integration
type File struct {
	Path string
	Data []byte
}

// Contribution is everything one integration adds to the project
type Contribution struct {
	Bundle templates.BundleName

	Dirs  []string
	Files []File

	// Env is appended to the project's environment file
	Env []byte
	// Manifest is this integration's container manifest fragment
	Manifest []byte
}

// Integration produces a Contribution for a project
type Integration interface {
	Name() templates.BundleName
	Contribute(ctx Context) (*Contribution, error)
}

var rank = map[templates.BundleName]int{
	templates.BundleAuthority: 0,
	templates.BundleEngine:    1,
}

func rankOf(name templates.BundleName) int {
	if r, ok := rank[name]; ok {
		return r
	}
	return len(rank)
}

// Selected returns the integrations enabled by the request, in rank order
func Selected(store *templates.Store, req types.InstallRequest) []Integration {
	var out []Integration
	if req.EnableAuthority {
		out = append(out, NewAuthority(store))
	}
	if req.EnableEngine {
		out = append(out, NewEngine(store))
	}
	return out
}
