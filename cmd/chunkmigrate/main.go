// Command chunkmigrate rewrites a saved voxel world so that block and
// item identifiers from one mod configuration resolve to their
// equivalents under a second configuration.
//
// Usage:
//
//	chunkmigrate [options] <input_base_dir> <input_world_subdir> <output_base_dir> <output_world_subdir>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/chunkmigrate/chunkmigrate/catalog"
	"github.com/chunkmigrate/chunkmigrate/driver"
	"github.com/chunkmigrate/chunkmigrate/log"
	"github.com/chunkmigrate/chunkmigrate/migreport"
)

var version = "dev"

type options struct {
	Manifest   string `short:"m" long:"manifest" description:"Path to the migration manifest (vanilla configs + per-mod rule dictionaries)" required:"true"`
	HelperBin  string `long:"helper" description:"Path to the region-pack/nbt-to-xml external helper binary" default:"region-helper"`
	ReportJSON string `long:"report-json" description:"Write a migreport JSON artifact (run stats + per-mod resolution counts) to this path"`
	Version    func() `short:"V" long:"version" description:"Print version and exit"`

	Args struct {
		InputBaseDir      string `positional-arg-name:"input_base_dir"`
		InputWorldSubdir  string `positional-arg-name:"input_world_subdir"`
		OutputBaseDir     string `positional-arg-name:"output_base_dir"`
		OutputWorldSubdir string `positional-arg-name:"output_world_subdir"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts options
	opts.Version = func() {
		fmt.Printf("chunkmigrate %s\n", version)
		os.Exit(0)
	}

	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "chunkmigrate"
	parser.LongDescription = "Rewrites a saved world's block and item identifiers between mod configurations."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("migration failed", log.F("error", err.Error()))
		fmt.Fprintf(os.Stderr, "chunkmigrate: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	m, err := loadManifest(opts.Manifest)
	if err != nil {
		return err
	}
	mapInfo, stats, err := buildMapInfo(m)
	if err != nil {
		return fmt.Errorf("building map info: %w", err)
	}

	report, err := driver.Run(context.Background(), driver.Config{
		InputBaseDir:      opts.Args.InputBaseDir,
		InputWorldSubdir:  opts.Args.InputWorldSubdir,
		OutputBaseDir:     opts.Args.OutputBaseDir,
		OutputWorldSubdir: opts.Args.OutputWorldSubdir,
		HelperBinPath:     opts.HelperBin,
		MapInfo:           mapInfo,
		Transformers:      catalog.All(),
	})
	if err != nil {
		if opts.ReportJSON != "" && report != nil {
			if saveErr := migreport.SaveArtifact(opts.ReportJSON, report, stats); saveErr != nil {
				log.Error("writing report artifact after failed run", log.F("error", saveErr.Error()))
			}
		}
		return err
	}

	log.Info("migration complete",
		log.F("regions", report.RegionsProcessed),
		log.F("chunksOK", report.ChunksProcessed),
		log.F("chunksFailed", report.ChunksFailed),
		log.F("playersOK", report.PlayersProcessed),
		log.F("playersSkipped", report.PlayersSkipped),
	)

	if opts.ReportJSON != "" {
		if err := migreport.SaveArtifact(opts.ReportJSON, report, stats); err != nil {
			return err
		}
	}
	return nil
}
