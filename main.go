/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/bloodwork/cmd"
	"github.com/humaidq/bloodwork/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Logger(logging.SourceApp).Warn("Failed to load .env file", "error", err)
	}

	logging.Init()

	app := &cli.Command{
		Name:  "bloodwork",
		Usage: "Patient portal for blood work history and scheduling",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdMigrate,
			cmd.CmdIngest,
			cmd.CmdPatient,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logging.Logger(logging.SourceApp).Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
