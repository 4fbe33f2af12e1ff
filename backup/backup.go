// Package backup provides the scoped manifest backup used around risky edits:
// Acquire copies the file aside, Release either restores it or discards the
// copy, exactly once, on every exit path of the enclosing operation.
package backup

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	pathUtils "github.com/AiLing2416/deblang-switch/utils/path"
	"github.com/hhkbp2/go-strftime"
	"github.com/pkg/errors"
)

type Policy string

const (
	// PolicyOnError keeps the edited file on success and restores the
	// original only when the operation failed.
	PolicyOnError Policy = "on-error"
	// PolicyAlways restores the original on every exit.
	PolicyAlways Policy = "always"
)

type Guard struct {
	src        string
	backupPath string
	sum        []byte
	released   bool
}

// backups are named basename.PID.YYYY-MM-DD@HH:MM:SS~
const backupTimeLayout = "%Y-%m-%d@%H:%M:%S~"

func backupName(src string) string {
	ext := strftime.Format(backupTimeLayout, time.Now().Local())
	return fmt.Sprintf("%s.%d.%s", src, os.Getpid(), ext)
}

// Acquire copies src to a sibling backup path and returns the guard owning it.
func Acquire(src string) (*Guard, error) {
	if regular, err := pathUtils.IsRegular(src); err != nil {
		return nil, errors.Wrapf(err, "cannot stat %s", src)
	} else if !regular {
		return nil, errors.Errorf("refusing to back up %s, not a regular file", src)
	}

	sum, err := fileDigest(src)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", src)
	}

	dest := backupName(src)
	if err = pathUtils.Copy(src, dest); err != nil {
		return nil, errors.Wrapf(err, "cannot write backup %s", dest)
	}
	if err = pathUtils.CopyStat(src, dest); err != nil {
		_ = os.Remove(dest)
		return nil, errors.Wrapf(err, "cannot preserve attributes on backup %s", dest)
	}

	// Confirm the copy is byte-identical before trusting it as a restore source.
	backupSum, err := fileDigest(dest)
	if err != nil || !bytes.Equal(sum, backupSum) {
		_ = os.Remove(dest)
		return nil, errors.Errorf("backup %s does not match %s", dest, src)
	}

	return &Guard{src: src, backupPath: dest, sum: sum}, nil
}

func (g *Guard) Path() string {
	return g.backupPath
}

// Release consumes the guard. With commit=false the original file is restored
// from the backup; with commit=true the backup is discarded (PolicyOnError) or
// still restored (PolicyAlways). Calling Release again is a no-op.
func (g *Guard) Release(commit bool, policy Policy) error {
	if g.released {
		return nil
	}
	g.released = true

	restore := !commit || policy == PolicyAlways
	if restore {
		exists, err := pathUtils.Exists(g.backupPath)
		if err == nil && !exists {
			// Restoration is abandoned only when the backup is provably absent.
			return errors.Errorf("backup %s has disappeared, %s left as-is", g.backupPath, g.src)
		}
		if err = pathUtils.Copy(g.backupPath, g.src); err != nil {
			return errors.Wrapf(err, "cannot restore %s from %s", g.src, g.backupPath)
		}
		if err = pathUtils.CopyStat(g.backupPath, g.src); err != nil {
			return errors.Wrapf(err, "cannot restore attributes of %s", g.src)
		}
	}

	if err := os.Remove(g.backupPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "cannot remove backup %s", g.backupPath)
	}
	return nil
}

// Stale lists leftover backups of src from interrupted earlier runs.
func Stale(src string) []string {
	matches, err := filepath.Glob(src + ".*")
	if err != nil {
		return nil
	}
	var stale []string
	for _, m := range matches {
		if len(m) > 0 && m[len(m)-1] == '~' {
			stale = append(stale, m)
		}
	}
	return stale
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	alg := sha256.New()
	if _, err = io.Copy(alg, f); err != nil {
		return nil, err
	}
	return alg.Sum(nil), nil
}
