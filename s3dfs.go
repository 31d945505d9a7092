package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sgaunet/s3dfs/pkg/cli"
)

func main() {
	// Handle SIGTERM/SIGINT
	ctx, cancelFunc := context.WithCancel(context.Background())
	SetupCloseHandler(cancelFunc)

	code := cli.Execute(ctx)
	cancelFunc()
	os.Exit(code)
}

// SetupCloseHandler cancels the running command on SIGTERM/SIGINT.
// A transfer in progress stops at the next chunk boundary.
func SetupCloseHandler(cancelFunc context.CancelFunc) {
	c := make(chan os.Signal, 5)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-c
		fmt.Fprintf(os.Stderr, "signal received: %s\n", s.String())
		cancelFunc()
	}()
}
