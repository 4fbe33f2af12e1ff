// Package swap provisions a temporary swap file so locale regeneration can
// succeed on memory-starved hosts, and tears it down afterwards.
package swap

import (
	"os"

	"github.com/AiLing2416/deblang-switch/runner"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"
)

type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// Needed decides whether a swap file of sizeBytes should be provisioned.
// In auto mode it is provisioned only when available memory is below the
// requested swap size.
func Needed(mode Mode, sizeBytes int64) (bool, error) {
	switch mode {
	case ModeNever:
		return false, nil
	case ModeAlways:
		return true, nil
	case ModeAuto:
		vm, err := mem.VirtualMemory()
		if err != nil {
			return false, errors.Wrap(err, "cannot probe available memory")
		}
		return vm.Available < uint64(sizeBytes), nil
	default:
		return false, errors.Errorf("unsupported swap mode %q", mode)
	}
}

type Guard struct {
	path     string
	run      *runner.Runner
	created  bool
	active   bool
	released bool
}

// Acquire creates a sizeBytes swap file at path (owner-only permissions),
// formats it with mkswap and activates it. A failure at any step rolls back
// the steps already completed and leaves no active swap behind.
func Acquire(path string, sizeBytes int64, run *runner.Runner) (*Guard, error) {
	g := &Guard{path: path, run: run}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create swap file %s", path)
	}
	g.created = true

	if err = unix.Fallocate(int(f.Fd()), 0, 0, sizeBytes); err != nil {
		// Some filesystems don't support fallocate.
		err = f.Truncate(sizeBytes)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		g.rollback()
		return nil, errors.Wrapf(err, "cannot allocate %d bytes for swap file %s", sizeBytes, path)
	}

	mkswap, err := run.GetBinPath("mkswap", nil, true)
	if err != nil {
		g.rollback()
		return nil, err
	}
	res, err := run.Run([]string{mkswap, path}, runner.DefaultKwargs())
	if err != nil {
		g.rollback()
		return nil, errors.Wrapf(err, "mkswap failed on %s", path)
	}
	if err = res.Validate(); err != nil {
		g.rollback()
		return nil, errors.Wrapf(err, "mkswap on %s", path)
	}

	if err = unix.Swapon(path, 0); err != nil {
		g.rollback()
		return nil, errors.Wrapf(err, "cannot activate swap on %s", path)
	}
	g.active = true

	return g, nil
}

func (g *Guard) Path() string {
	return g.path
}

func (g *Guard) rollback() {
	if g.created {
		_ = os.Remove(g.path)
		g.created = false
	}
}

// Release deactivates and deletes the swap file. The backing file already
// being gone is not an error.
func (g *Guard) Release() error {
	if g.released {
		return nil
	}
	g.released = true

	if g.active {
		if err := unix.Swapoff(g.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "cannot deactivate swap on %s", g.path)
		}
		g.active = false
	}

	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "cannot remove swap file %s", g.path)
	}
	return nil
}
