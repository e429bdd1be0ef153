// Command migreport renders the JSON artifact cmd/chunkmigrate writes
// via --report-json as a human-readable or CSV summary.
//
// Usage:
//
//	migreport [--csv] <report.json>
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/chunkmigrate/chunkmigrate/migreport"
)

type options struct {
	CSV bool `long:"csv" description:"Emit CSV instead of plain text"`

	Args struct {
		ReportJSON string `positional-arg-name:"report.json" required:"true"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "migreport"
	parser.LongDescription = "Renders a chunkmigrate --report-json artifact as text or CSV."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "migreport: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	artifact, err := migreport.LoadArtifact(opts.Args.ReportJSON)
	if err != nil {
		return err
	}

	r := migreport.New(artifact.Report, artifact.Stats)
	if opts.CSV {
		return r.WriteCSV(os.Stdout)
	}
	return r.WriteText(os.Stdout)
}
