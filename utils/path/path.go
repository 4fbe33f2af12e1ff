package pathUtils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

func IsRegular(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func HasReadPermission(path string) (bool, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0666)
	if err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	_ = file.Close()
	return true, nil
}

// Copy copies file content from src to dest.
func Copy(src, dest string) error {
	dstFile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	return CopyToFile(src, dstFile)
}

// CopyToFile copies file content from src into an already opened destination file.
func CopyToFile(src string, dstFile *os.File) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// CopyStat copies permissions, owner and modification time from src to dest.
func CopyStat(src, dest string) error {
	stat, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err = os.Chmod(dest, stat.Mode()); err != nil {
		return err
	}
	if err = os.Chtimes(dest, time.Now(), stat.ModTime()); err != nil {
		return err
	}
	if sysStat, ok := stat.Sys().(*syscall.Stat_t); ok {
		err = os.Chown(dest, int(sysStat.Uid), int(sysStat.Gid))
		if err != nil && !os.IsPermission(err) {
			return err
		}
	} else {
		return errors.New("couldn't retrieve file owner")
	}
	return nil
}

func GetBinPath(arg string, optDirs []string, errOnNotFound bool) (string, error) {
	paths, err := getPaths(optDirs)
	if err != nil {
		return "", err
	}
	for _, dir := range paths {
		path := filepath.Join(dir, arg)
		isExec, err := isExecutable(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		if isExec {
			return path, nil
		}
	}
	if errOnNotFound {
		return "", fmt.Errorf("failed to find required executable \"%s\"", arg)
	}
	return "", nil
}

func IsExecutable(path string) (bool, error) {
	const execAnyMask = 0111
	stat, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stat.Mode()&execAnyMask == execAnyMask, nil
}

// Vars used for unit testing.
var pathListSep = os.PathListSeparator
var getPathEnv = func() string { return os.Getenv("PATH") }
var isExecutable = IsExecutable
var exist = Exists

func getPaths(optDirs []string) ([]string, error) {
	sbinPaths := []string{"/sbin", "/usr/sbin", "/usr/local/sbin"}
	allPaths := sbinPaths
	allPaths = append(allPaths, optDirs...)

	paths := strings.Split(getPathEnv(), string(pathListSep))
	for _, dir := range allPaths {
		exists, err := exist(dir)
		if err != nil {
			return nil, err
		}
		if exists {
			paths = append(paths, dir)
		}
	}

	return paths, nil
}
