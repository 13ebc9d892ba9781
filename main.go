/*
This is an example application that drives the engine package with the
testbed scene: a morphing conifer rendered through the debug renderer.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/conifer/engine"
	"github.com/spaghettifunk/conifer/testbed"
)

func main() {
	scene, err := testbed.NewScene()
	if err != nil {
		panic(err)
	}

	engine, err := engine.New(scene.App, testbed.NewDebugRenderer())
	if err != nil {
		panic(err)
	}

	if err := engine.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = engine.Shutdown()
	}()

	// run engine
	if err := engine.Run(); err != nil {
		panic(err)
	}
}
