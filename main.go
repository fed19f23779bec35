// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fsctl/fsctl/internal/command"
	"github.com/fsctl/fsctl/internal/config"
	"github.com/fsctl/fsctl/internal/log"
	"github.com/fsctl/fsctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// hasHelp reports whether -h/--help appears anywhere in args.
func hasHelp(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// expandSet replaces the first @name argument with the argument list stored
// under "<command>.<name>" in the config file. Each list entry may hold
// several space separated arguments. An unknown set expands to nothing.
func expandSet(args []string, lookup func(string) ([]string, error)) []string {
	if len(args) < 3 || args[1] == "completion" {
		return args
	}

	for i := 2; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "@") {
			continue
		}

		entries, err := lookup(args[1] + "." + args[i][1:])
		if err != nil {
			log.Debugf("set lookup failed: set=%s err=%v", args[i], err)
		}

		var parts []string
		for _, e := range entries {
			parts = append(parts, strings.Fields(e)...)
		}

		out := make([]string, 0, len(args)-1+len(parts))
		out = append(out, args[:i]...)
		out = append(out, parts...)
		return append(out, args[i+1:]...)
	}

	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	if !hasHelp(args) {
		args = expandSet(args, func(key string) ([]string, error) {
			return config.GetStringSlice(key)
		})
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}
