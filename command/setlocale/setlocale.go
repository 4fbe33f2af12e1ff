// Package setlocale implements the interactive locale switch: menu selection,
// scoped backup (and swap) acquisition, manifest edit, regeneration, default
// update and verification, with guaranteed cleanup on every exit path.
package setlocale

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AiLing2416/deblang-switch/applier"
	"github.com/AiLing2416/deblang-switch/backup"
	"github.com/AiLing2416/deblang-switch/config"
	"github.com/AiLing2416/deblang-switch/manifest"
	"github.com/AiLing2416/deblang-switch/menu"
	"github.com/AiLing2416/deblang-switch/preset"
	"github.com/AiLing2416/deblang-switch/runner"
	"github.com/AiLing2416/deblang-switch/swap"
	"github.com/AiLing2416/deblang-switch/utils/display"
	"github.com/AiLing2416/deblang-switch/utils/distro"
	"github.com/AiLing2416/deblang-switch/utils/i18n"
	"github.com/AiLing2416/deblang-switch/utils/osUtils"
	"github.com/AiLing2416/deblang-switch/verify"
)

type localeApplier interface {
	Regenerate(code string, strategy applier.Strategy) (*runner.Result, error)
	SetDefault(code string) (*runner.Result, error)
}

// Run drives the whole interactive flow. It returns nil both on a completed
// switch and on user cancel; any other outcome is a fatal error whose class
// is one of the Err* variables of this package.
func Run(app context.Context, in io.Reader) error {
	settings := config.Manager().Settings

	if !osUtils.IsRoot() {
		return fmt.Errorf("%w: re-run as root (e.g. via sudo)", ErrPrivilege)
	}

	if !distro.IsDebianFamily() {
		display.SystemWarning("%s", i18n.M("this host does not look like a Debian-family system; locale-gen and update-locale may be missing"))
	}
	if stale := backup.Stale(settings.MANIFEST_PATH); len(stale) != 0 {
		display.Warning(display.WarnOptions{}, "%s: %s", i18n.M("found leftover manifest backups from an interrupted run, inspect and remove them manually"), strings.Join(stale, ", "))
	}

	presets, err := preset.Load(settings.PRESET_FILE)
	if err != nil {
		return err
	}

	target, quit, err := menu.New(in, presets).Choose()
	if err != nil {
		return err
	}
	if quit {
		display.Display(display.Options{}, "%s", i18n.M("No changes made."))
		return nil
	}

	p := newPipeline(app, settings, applier.New(runner.New()))
	err = p.execute(target.Code)
	if cleanupErr := p.cleanup(err == nil); err == nil {
		err = cleanupErr
	}
	if err != nil {
		return err
	}

	report(settings.DEFAULT_LOCALE_PATH, target.Code)
	return nil
}

// report prints the advisory verification outcome; it never fails the run.
func report(defaultLocalePath, code string) {
	res, err := verify.Verify(defaultLocalePath, code)
	if err != nil {
		display.Warning(display.WarnOptions{}, "%s %s: %v", i18n.M("could not verify"), defaultLocalePath, err)
		return
	}
	switch res.Status {
	case verify.Confirmed:
		display.Display(display.Options{Color: config.Manager().Settings.COLOR_OK}, "%s LANG=%s", i18n.M("System locale switched:"), code)
	case verify.Mismatch:
		display.Warning(display.WarnOptions{}, "%s LANG=%q", i18n.M("default locale file does not confirm the switch, found"), res.Actual)
	case verify.FileAbsent:
		display.Warning(display.WarnOptions{}, "%s %s", i18n.M("default locale file is absent:"), defaultLocalePath)
	}
}

type cleanupFn func(commit bool) error

type pipeline struct {
	ctx      context.Context
	settings config.ConfigData
	apply    localeApplier
	cleanups []cleanupFn
}

func newPipeline(ctx context.Context, settings config.ConfigData, apply localeApplier) *pipeline {
	return &pipeline{ctx: ctx, settings: settings, apply: apply}
}

func (p *pipeline) registerCleanup(fn cleanupFn) {
	p.cleanups = append(p.cleanups, fn)
}

// cleanup releases acquired resources in reverse order. It runs on every exit
// path; commit tells the guards whether the operation succeeded.
func (p *pipeline) cleanup(commit bool) error {
	var firstErr error
	for i := len(p.cleanups) - 1; i >= 0; i-- {
		if err := p.cleanups[i](commit); err != nil {
			display.Error(display.ErrorOptions{}, "cleanup: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	p.cleanups = nil
	return firstErr
}

func (p *pipeline) interrupted() error {
	if p.ctx != nil && p.ctx.Err() != nil {
		return fmt.Errorf("interrupted: %v", p.ctx.Err())
	}
	return nil
}

func (p *pipeline) execute(code string) error {
	guard, err := backup.Acquire(p.settings.MANIFEST_PATH)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackup, err)
	}
	policy := backup.Policy(p.settings.RESTORE_POLICY)
	p.registerCleanup(func(commit bool) error { return guard.Release(commit, policy) })
	display.V("manifest backed up to %s", guard.Path())

	if err = p.provisionSwap(); err != nil {
		return err
	}

	if err = p.editManifest(code); err != nil {
		return err
	}

	if err = p.interrupted(); err != nil {
		return err
	}
	display.Display(display.Options{}, "%s %s ...", i18n.M("Generating locale"), code)
	res, err := p.apply.Regenerate(code, applier.Strategy(p.settings.REGEN_STRATEGY))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegeneration, err)
	}
	display.VV("locale-gen rc=%d", res.Rc)

	if err = p.interrupted(); err != nil {
		return err
	}
	display.Display(display.Options{}, "%s LANG=%s ...", i18n.M("Updating default locale to"), code)
	if _, err = p.apply.SetDefault(code); err != nil {
		return fmt.Errorf("%w: %v", ErrDefaultUpdate, err)
	}

	return nil
}

func (p *pipeline) provisionSwap() error {
	sizeBytes := int64(p.settings.SWAP_SIZE_MB) << 20
	needed, err := swap.Needed(swap.Mode(p.settings.SWAP_MODE), sizeBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSwap, err)
	}
	if !needed {
		return nil
	}

	display.Display(display.Options{}, "%s %s", i18n.M("Provisioning temporary swap file at"), p.settings.SWAP_PATH)
	sg, err := swap.Acquire(p.settings.SWAP_PATH, sizeBytes, runner.New())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSwap, err)
	}
	p.registerCleanup(func(bool) error { return sg.Release() })
	return nil
}

func (p *pipeline) editManifest(code string) error {
	content, err := manifest.Load(p.settings.MANIFEST_PATH)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	edited := manifest.Edit(content, code)
	if edited == content {
		display.VV("manifest already enables exactly %s", code)
		return nil
	}
	if err = manifest.Save(p.settings.MANIFEST_PATH, edited); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	display.Display(display.Options{Color: p.settings.COLOR_CHANGED}, "%s %s", i18n.M("Manifest updated:"), p.settings.MANIFEST_PATH)
	return nil
}
