// Package runner executes external commands synchronously and returns a
// structured result instead of a bare error, so callers can inspect the
// exit code and captured stderr of system utilities they drive.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pathUtils "github.com/AiLing2416/deblang-switch/utils/path"
	"github.com/alessio/shellescape"
	"github.com/google/shlex"
)

const InternalErrorRc = 257

type Runner struct {
	// EnvironUpdate is applied to every command this runner starts.
	EnvironUpdate map[string]string
}

type Kwargs struct {
	CheckRc        bool
	Executable     string
	Data           []byte
	Cwd            string
	UseUnsafeShell bool
	EnvironUpdate  map[string]string
}

type Result struct {
	Rc     int
	Stdout []byte
	Stderr []byte
}

func (r *Result) Validate() error {
	if r.Rc != 0 {
		return fmt.Errorf("command failed rc=%d, out=%s, err=%s", r.Rc, r.Stdout, r.Stderr)
	}
	return nil
}

func New() *Runner {
	return &Runner{}
}

func DefaultKwargs() *Kwargs {
	return &Kwargs{}
}

func (r *Runner) GetBinPath(arg string, optDirs []string, errOnNotFound bool) (string, error) {
	return pathUtils.GetBinPath(arg, optDirs, errOnNotFound)
}

// Run starts the command described by rawArgs (a []string or a string that is
// split shell-style) and blocks until it exits.
func (r *Runner) Run(rawArgs interface{}, kwargs *Kwargs) (*Result, error) {
	cmd, err := r.getCmd(rawArgs, kwargs)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if kwargs.Data != nil {
		cmd.Stdin = bytes.NewReader(kwargs.Data)
	}

	if err = cmd.Run(); err != nil {
		return r.waitError(err, stdout.Bytes(), stderr.Bytes(), kwargs)
	}

	return &Result{
		Rc:     0,
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}, nil
}

func (r *Runner) waitError(err error, stdout, stderr []byte, kwargs *Kwargs) (*Result, error) {
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		rc := exitError.ProcessState.ExitCode()
		res := &Result{
			Rc:     rc,
			Stdout: stdout,
			Stderr: stderr,
		}
		if kwargs.CheckRc {
			return res, fmt.Errorf("error exit code: %d", rc)
		}
		return res, nil
	}
	// The command never ran (missing binary, exec failure); there is no real
	// exit code to report.
	return &Result{Rc: InternalErrorRc, Stdout: stdout, Stderr: stderr}, err
}

func (r *Runner) getCmd(rawArgs interface{}, kwargs *Kwargs) (*exec.Cmd, error) {
	args, err := r.getArgs(rawArgs, kwargs)
	if err != nil {
		return nil, err
	}

	com := &exec.Cmd{
		Path: args[0],
		Args: args,
		Env:  r.getEnvStringSlice(kwargs),
	}

	if kwargs.Cwd != "" {
		ok, err := pathUtils.IsDir(kwargs.Cwd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("provided cwd is not a valid directory: %s", kwargs.Cwd)
		}
		com.Dir = kwargs.Cwd
	}

	return com, nil
}

func (r *Runner) getArgs(rawArgs interface{}, kwargs *Kwargs) (args []string, err error) {
	var isString bool
	switch rawArgs.(type) {
	case string:
		isString = true
	case []string:
		isString = false
	default:
		return nil, errors.New("argument 'rawArgs' to Run must be slice or string")
	}

	if kwargs.UseUnsafeShell {
		var stringArgs string
		// stringify args for unsafe/direct shell usage
		if isString {
			stringArgs = rawArgs.(string)
		} else {
			sliceArgs := rawArgs.([]string)
			quoted := make([]string, len(sliceArgs))
			for i, arg := range sliceArgs {
				quoted[i] = shellescape.Quote(arg)
			}
			stringArgs = strings.Join(quoted, " ")
		}
		shell := kwargs.Executable
		if shell == "" {
			shell = "/bin/sh"
		}
		args = []string{shell, "-c", stringArgs}
	} else {
		if isString {
			rawArgs, err = shlex.Split(rawArgs.(string))
			if err != nil {
				return
			}
		}
		args = rawArgs.([]string)
	}

	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return
}

func (r *Runner) getEnv(kwargs *Kwargs) map[string]string {
	env := getEnvMap()
	for key, val := range r.EnvironUpdate {
		env[key] = val
	}
	for key, val := range kwargs.EnvironUpdate {
		env[key] = val
	}
	return env
}

func (r *Runner) getEnvStringSlice(kwargs *Kwargs) []string {
	envMap := r.getEnv(kwargs)
	env := make([]string, 0, len(envMap))
	for key, val := range envMap {
		env = append(env, fmt.Sprintf("%s=%s", key, val))
	}
	return env
}

func getEnvMap() map[string]string {
	environ := make(map[string]string)
	for _, env := range os.Environ() {
		entry := strings.SplitN(env, "=", 2)
		if len(entry) == 2 {
			environ[entry[0]] = entry[1]
		}
	}
	return environ
}
