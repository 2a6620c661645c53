package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Generate GenerateCmd `cmd:"" help:"Generate a course and wait for it to finish"`
	Export   ExportCmd   `cmd:"" help:"Export a generated course as markdown or HTML"`
	Courses  CoursesCmd  `cmd:"" help:"List generated courses"`
	Progress ProgressCmd `cmd:"" help:"Show the stage progress of a generation request"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("coursegen"),
		kong.Description("Operator CLI for the course generator. Configuration comes from the environment and COURSEGEN_CONFIG."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "coursegen: %v\n", err)
		os.Exit(1)
	}
}
