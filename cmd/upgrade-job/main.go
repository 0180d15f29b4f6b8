/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/openebs/mayastor-upgrade/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args); err != nil {
		slog.Error("upgrade-job failed", "error", err)
		os.Exit(1)
	}
}
