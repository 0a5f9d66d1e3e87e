package installer

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/5minds/create-processcube-app/pkg/types"
)

// UserAgentEnv is set by package managers for the processes they launch
const UserAgentEnv = "npm_config_user_agent"

// ProbeHost is resolved to decide whether the network is available
const ProbeHost = "registry.yarnpkg.com"

// DetectPackageManager picks the package manager that launched the tool
// from its user agent, falling back to npm.
func DetectPackageManager(userAgent string) types.PackageManager {
	switch {
	case strings.HasPrefix(userAgent, "yarn"):
		return types.PackageManagerYarn
	case strings.HasPrefix(userAgent, "pnpm"):
		return types.PackageManagerPNPM
	case strings.HasPrefix(userAgent, "bun"):
		return types.PackageManagerBun
	default:
		return types.PackageManagerNPM
	}
}

// Resolver looks up host names
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// IsOnline reports whether the package registry resolves within timeout
func IsOnline(ctx context.Context, r Resolver, timeout time.Duration) bool {
	if r == nil {
		r = net.DefaultResolver
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addrs, err := r.LookupHost(ctx, ProbeHost)
	return err == nil && len(addrs) > 0
}
