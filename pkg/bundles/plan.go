package bundles

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	synthfsfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// plan collects the directory and file writes of a merge and runs them as
// one synthfs pipeline. Every operation writes through the project FS and
// creates its own parent directories, so operations do not depend on each
// other's order.
type plan struct {
	sfs  *synthfs.SynthFS
	fsys types.FS
	ops  []synthfs.Operation

	mu  sync.Mutex
	err error
}

func newPlan(fsys types.FS) *plan {
	return &plan{sfs: synthfs.New(), fsys: fsys}
}

func (p *plan) nextID(kind, path string) string {
	return fmt.Sprintf("%s_%03d_%s", kind, len(p.ops), filepath.Base(path))
}

// fail keeps the first coded error raised by an operation
func (p *plan) fail(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
	return err
}

// Mkdir schedules the creation of dir
func (p *plan) Mkdir(bundle templates.BundleName, dir string) {
	p.ops = append(p.ops, p.sfs.CustomOperationWithID(p.nextID("mkdir", dir),
		func(ctx context.Context, _ synthfsfs.FileSystem) error {
			if err := p.fsys.MkdirAll(dir, filesystem.DirPerm); err != nil {
				return p.fail(errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
					WithDetail("bundle", string(bundle)))
			}
			return nil
		}))
}

// Write schedules an atomic write of data to path
func (p *plan) Write(bundle templates.BundleName, path string, data []byte) {
	p.ops = append(p.ops, p.sfs.CustomOperationWithID(p.nextID("write", path),
		func(ctx context.Context, _ synthfsfs.FileSystem) error {
			if err := filesystem.WriteFileAll(p.fsys, path, data); err != nil {
				e := errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
					WithDetail("file", path)
				if bundle != "" {
					e = e.WithDetail("bundle", string(bundle))
				}
				return p.fail(e)
			}
			return nil
		}))
}

// Run executes the scheduled operations. Operations that already ran are
// kept when a later one fails.
func (p *plan) Run(ctx context.Context) error {
	if len(p.ops) == 0 {
		return nil
	}
	logger := logging.GetLogger("bundles.plan")

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	// Operations ignore the synthfs filesystem and write through p.fsys
	target := synthfs.NewPathAwareFileSystem(synthfsfs.NewOSFileSystem("/"), "/").WithAbsolutePaths()

	logger.Debug().Int("operationCount", len(p.ops)).Msg("Executing merge plan")
	_, runErr := synthfs.RunWithOptions(ctx, target, options, p.ops...)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if runErr != nil {
		return errors.Wrap(runErr, errors.ErrFileWrite, "failed to execute merge plan")
	}
	return nil
}
