package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AiLing2416/deblang-switch/command"
	"github.com/AiLing2416/deblang-switch/utils/display"
	"github.com/hhkbp2/go-logging"
)

func main() {
	defer logging.Shutdown()
	err := execDeblangSwitch()
	if err != nil {
		display.Error(display.ErrorOptions{}, "%s", err.Error())
		os.Exit(1)
	}
}

func execDeblangSwitch() error {
	app := &command.App{
		Context: contextProcess(),
	}

	rootCmd := NewCommand(app)

	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func contextProcess() context.Context {
	ch := make(chan os.Signal, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-ch
		cancel()
	}()
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return ctx
}
