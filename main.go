/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/flatland/engine"
	"github.com/spaghettifunk/flatland/engine/config"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/testbed"
)

const configPath = "flatland.toml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}
	core.SetLogLevel(cfg.LogLevel())

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		panic(err)
	}

	e, err := engine.New(tb.Game, cfg)
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the window belongs to the main thread, so only ask the loop to stop
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		panic(runErr)
	}
}
