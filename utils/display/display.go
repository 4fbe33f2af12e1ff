package display

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/AiLing2416/deblang-switch/config"
	"github.com/hhkbp2/go-logging"
	"github.com/isbm/textwrap"
	"github.com/mattn/go-runewidth"
)

// Options struct provides default values for function parameters and a way to customize message display.
type Options struct {
	Color      string
	Stderr     bool
	ScreenOnly bool
	LogOnly    bool
	NoNewline  bool
}
type WarnOptions struct {
	Formatted bool
}
type BannerOptions struct {
	Color string
}
type ErrorOptions struct {
	DontWrapText bool
}

var logger logging.Logger = nil

func getFormatter() logging.Formatter {
	return logging.NewStandardFormatter("%(asctime)s n=%(name)s | %(message)s", "%Y-%m-%d %H:%M:%S.%3n")
}

func initFileLogger(logFile string, formatter logging.Formatter) logging.Handler {
	const (
		logRotatingSize    = 67108864 // 64 mb
		logBackupCount     = 5
		logBufferSize      = 0
		logBufferFlushTime = 1
	)
	handler := logging.MustNewRotatingFileHandler(
		logFile, os.O_APPEND, logBufferSize, time.Duration(logBufferFlushTime)*time.Second, 64,
		logRotatingSize, logBackupCount)

	handler.SetFormatter(formatter)
	return handler
}

// Setup configures colors and the optional file logger from the loaded config.
// Call it once, after config.Manager().TryLoadConfigFile.
func Setup() {
	setupColor()

	pathSetting := config.Manager().Settings.DEFAULT_LOG_PATH
	if pathSetting == "" {
		return
	}

	logger = logging.GetLogger("deblang")
	handler := initFileLogger(pathSetting, getFormatter())
	_ = handler.SetLevel(logging.LevelInfo)
	_ = logger.SetLevel(logging.LevelInfo)
	logger.AddHandler(handler)
}

var colorToLogLevelMap map[string]logging.LogLevelType = nil

func createColorToLogLevelMap() {
	cfg := config.Manager().Settings
	colorToLogLevelMap = map[string]logging.LogLevelType{
		cfg.COLOR_OK:      logging.LevelInfo,
		cfg.COLOR_ERROR:   logging.LevelError,
		cfg.COLOR_WARN:    logging.LevelWarning,
		cfg.COLOR_DEBUG:   logging.LevelDebug,
		cfg.COLOR_CHANGED: logging.LevelInfo,
		cfg.COLOR_VERBOSE: logging.LevelInfo,
	}
}

func getLogLevel(color string) logging.LogLevelType {
	if colorToLogLevelMap == nil {
		createColorToLogLevelMap()
	}

	if level, ok := colorToLogLevelMap[color]; ok {
		return level
	}
	return logging.LevelInfo
}

const DefaultVerbosityLevel = 0
const MaxVerbosityLevel = 3

var displaySingleton *display = nil

type display struct {
	columns   int
	verbosity int
}

func Instance() *display {
	if displaySingleton != nil {
		return displaySingleton
	}

	displaySingleton = &display{columns: 79}
	err := displaySingleton.SetVerbosity(DefaultVerbosityLevel)
	if err != nil {
		panic(err)
	}

	return displaySingleton
}

func (d *display) SetVerbosity(verbosity int) error {
	if verbosity < 0 || verbosity > MaxVerbosityLevel {
		return fmt.Errorf("invalid verbosity level %d", verbosity)
	}

	d.verbosity = verbosity
	return nil
}

func SetVerbosity(verbosity int) error {
	return Instance().SetVerbosity(verbosity)
}

func (d *display) GetVerbosity() int {
	return d.verbosity
}

func (d *display) Display(options Options, msg string, a ...interface{}) error {
	msg = fmt.Sprintf(msg, a...)

	if !options.LogOnly {
		hasNewline := strings.HasSuffix(msg, "\n")
		msg2 := strings.TrimSuffix(msg, "\n")

		if options.Color != "" {
			msg2 = stringc(msg2, options.Color)
		}
		if hasNewline || !options.NoNewline {
			msg2 += "\n"
		}

		var err error
		if options.Stderr {
			_, err = fmt.Fprint(os.Stderr, msg2)
		} else {
			_, err = fmt.Fprint(os.Stdout, msg2)
		}
		if err != nil && !errors.Is(err, syscall.EPIPE) {
			// Ignore EPIPE in case the file object has been prematurely closed,
			// eg. when piping to "head -n1".
			return err
		}
	}

	if logger != nil && !options.ScreenOnly {
		logger.Log(getLogLevel(options.Color), msg)
	}

	return nil
}

func Display(options Options, msg string, a ...interface{}) {
	_ = Instance().Display(options, msg, a...)
}

func (d *display) Verbose(caplevel int, msg string, a ...interface{}) error {
	if d.verbosity > caplevel {
		toStderr := config.Manager().Settings.VERBOSE_TO_STDERR
		return d.Display(Options{Color: config.Manager().Settings.COLOR_VERBOSE, Stderr: toStderr}, msg, a...)
	}

	return nil
}

func (d *display) V(msg string, a ...interface{}) error {
	return d.Verbose(0, msg, a...)
}

func V(msg string, a ...interface{}) {
	_ = Instance().V(msg, a...)
}

func (d *display) VV(msg string, a ...interface{}) error {
	return d.Verbose(1, msg, a...)
}

func VV(msg string, a ...interface{}) {
	_ = Instance().VV(msg, a...)
}

func (d *display) VVV(msg string, a ...interface{}) error {
	return d.Verbose(2, msg, a...)
}

func VVV(msg string, a ...interface{}) {
	_ = Instance().VVV(msg, a...)
}

func (d *display) Debug(msg string, a ...interface{}) error {
	if !config.Manager().Settings.DEFAULT_DEBUG {
		return nil
	}

	pid, now := os.Getpid(), float64(time.Now().UnixNano())/1e9
	formatted := fmt.Sprintf("%6d %0.5f: %s", pid, now, msg)
	return d.Display(Options{Color: config.Manager().Settings.COLOR_DEBUG}, formatted, a...)
}

func Debug(msg string, a ...interface{}) {
	_ = Instance().Debug(msg, a...)
}

func (d *display) Warning(options WarnOptions, msg string, a ...interface{}) error {
	if !options.Formatted {
		msg = fmt.Sprintf("[WARNING]: %s", msg)
		wrapped := wrapText(msg, d.columns)
		msg = strings.Join(wrapped, "\n") + "\n"
	} else {
		msg = fmt.Sprintf("\n[WARNING]: \n%s", msg)
	}

	return d.Display(Options{Color: config.Manager().Settings.COLOR_WARN, Stderr: true}, msg, a...)
}

func Warning(options WarnOptions, msg string, a ...interface{}) {
	_ = Instance().Warning(options, msg, a...)
}

func (d *display) SystemWarning(msg string, a ...interface{}) error {
	if config.Manager().Settings.SYSTEM_WARNINGS {
		return d.Warning(WarnOptions{}, msg, a...)
	}
	return nil
}

func SystemWarning(msg string, a ...interface{}) {
	_ = Instance().SystemWarning(msg, a...)
}

func (d *display) Banner(options BannerOptions, msg string, a ...interface{}) error {
	// Prints a header-looking line with stars with length depending on terminal width (3 minimum)
	msg = strings.TrimSpace(msg)

	starLen := d.columns - getTextWidth(msg)
	if starLen <= 3 {
		starLen = 3
	}

	return d.Display(Options{Color: options.Color}, fmt.Sprintf("\n%s %s", msg, strings.Repeat("*", starLen)), a...)
}

func Banner(options BannerOptions, msg string, a ...interface{}) {
	_ = Instance().Banner(options, msg, a...)
}

func (d *display) Error(options ErrorOptions, msg string, a ...interface{}) error {
	if options.DontWrapText {
		msg = fmt.Sprintf("ERROR! %s", msg)
	} else {
		msg = fmt.Sprintf("\n[ERROR]: %s", msg)
		wrapped := wrapText(msg, d.columns)
		msg = strings.Join(wrapped, "\n") + "\n"
	}

	return d.Display(Options{Stderr: true, Color: config.Manager().Settings.COLOR_ERROR}, msg, a...)
}

func Error(options ErrorOptions, msg string, a ...interface{}) {
	_ = Instance().Error(options, msg, a...)
}

func getTextWidth(text string) int {
	return runewidth.StringWidth(text)
}

func wrapText(text string, columns int) []string {
	wrapper := textwrap.NewTextWrap().SetWidth(columns).SetExpandTabs(true).SetReplaceWhitespace(true)
	wrapper = wrapper.SetDropWhitespace(true).SetTabSpacesWidth(8)
	return wrapper.Wrap(text)
}
