// Package applier drives the external Debian locale utilities: locale-gen to
// compile enabled manifest entries and update-locale to persist the default.
package applier

import (
	"github.com/AiLing2416/deblang-switch/runner"
	"github.com/pkg/errors"
)

type Strategy string

const (
	// StrategyTargeted regenerates only the requested locale and falls back
	// to a full regeneration once if that fails.
	StrategyTargeted Strategy = "targeted"
	// StrategyAll always regenerates every enabled locale.
	StrategyAll Strategy = "all"
)

type Applier struct {
	run *runner.Runner

	// replaced in tests
	lookPath func(arg string) (string, error)
}

func New(run *runner.Runner) *Applier {
	// locale-gen output is parsed by humans only, but pin the tools to the
	// POSIX locale anyway so their diagnostics stay predictable.
	run.EnvironUpdate = map[string]string{"LC_ALL": "C"}
	return &Applier{
		run: run,
		lookPath: func(arg string) (string, error) {
			return run.GetBinPath(arg, nil, true)
		},
	}
}

// Regenerate invokes locale-gen. With StrategyTargeted the single-locale form
// is tried first and the system-wide form is retried once on failure.
func (a *Applier) Regenerate(code string, strategy Strategy) (*runner.Result, error) {
	bin, err := a.lookPath("locale-gen")
	if err != nil {
		return nil, err
	}

	if strategy == StrategyTargeted {
		res, err := a.run.Run([]string{bin, code}, runner.DefaultKwargs())
		if err != nil {
			return nil, errors.Wrap(err, "locale-gen could not be started")
		}
		if res.Rc == 0 {
			return res, nil
		}
		// Retry system-wide; some locale-gen builds reject the scoped form.
	}

	res, err := a.run.Run([]string{bin}, runner.DefaultKwargs())
	if err != nil {
		return nil, errors.Wrap(err, "locale-gen could not be started")
	}
	if err = res.Validate(); err != nil {
		return res, errors.Wrap(err, "locale-gen")
	}
	return res, nil
}

// SetDefault invokes update-locale with LANG=<code>.
func (a *Applier) SetDefault(code string) (*runner.Result, error) {
	bin, err := a.lookPath("update-locale")
	if err != nil {
		return nil, err
	}

	res, err := a.run.Run([]string{bin, "LANG=" + code}, runner.DefaultKwargs())
	if err != nil {
		return nil, errors.Wrap(err, "update-locale could not be started")
	}
	if err = res.Validate(); err != nil {
		return res, errors.Wrap(err, "update-locale")
	}
	return res, nil
}
