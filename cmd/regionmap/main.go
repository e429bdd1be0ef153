// Command regionmap renders a top-down PNG (or, swept across a
// chunk's vertical sections, an animated GIF) of one chunk's
// packed-block identifiers, for visually diffing a world before and
// after a chunkmigrate run.
//
// Usage:
//
//	regionmap <world_dir> <out.png> [--dim DIM0] [--x N] [--z N] [--gif --turns N]
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/chunkmigrate/chunkmigrate/driver"
	"github.com/chunkmigrate/chunkmigrate/regionmap"
)

type options struct {
	Dim       string `long:"dim" description:"Dimension subdirectory (e.g. DIM-1); default is the root dimension" default:""`
	X         int    `long:"x" description:"Chunk X coordinate within the region" default:"0"`
	Z         int    `long:"z" description:"Chunk Z coordinate within the region" default:"0"`
	RegionX   int    `long:"region-x" description:"Region file X coordinate" default:"0"`
	RegionZ   int    `long:"region-z" description:"Region file Z coordinate" default:"0"`
	HelperBin string `long:"helper" description:"Path to the region-pack/nbt-to-xml external helper binary" default:"region-helper"`
	PixelSize int    `long:"pixel-size" description:"Output pixels per cell" default:"16"`
	GIF       bool   `long:"gif" description:"Emit an animated GIF sweeping through the chunk's sections instead of a top-down PNG"`
	Turns     int    `long:"turns" description:"Number of vertical sections to sweep through when --gif is set" default:"8"`

	Args struct {
		WorldDir string `positional-arg-name:"world_dir" required:"true"`
		OutFile  string `positional-arg-name:"out_file" required:"true"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "regionmap"
	parser.LongDescription = "Renders a top-down or swept visualization of a chunk's packed-block identifiers."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "regionmap: %v\n", err)
		os.Exit(1)
	}
}

// chunkIndex derives the external helper's four-digit chunk-blob index
// from a chunk's region-relative (x, z) coordinate. The helper's own
// numbering scheme is opaque per spec §6; this assumes the common
// row-major convention (z*32+x) a region's up-to-1024 chunks are listed
// in, documented here since nothing in the spec pins it down further.
func chunkIndex(x, z int) string {
	return fmt.Sprintf("%04d", z*32+x)
}

func run(opts options) error {
	fs := driver.OSFileSystem()
	helper := driver.NewExecHelper(opts.HelperBin)
	ctx := context.Background()

	regionDir := filepath.Join(opts.Args.WorldDir, opts.Dim, "region")
	regionFile := filepath.Join(regionDir, fmt.Sprintf("r.%d.%d.mca", opts.RegionX, opts.RegionZ))

	scratchDir, err := os.MkdirTemp("", "regionmap-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratchDir)

	sections, err := regionmap.LoadChunkSections(ctx, fs, helper, regionFile, scratchDir, chunkIndex(opts.X, opts.Z))
	if err != nil {
		return err
	}

	if !opts.GIF {
		img := regionmap.TopDown(sections, opts.PixelSize)
		return regionmap.SavePNG(img, opts.Args.OutFile)
	}

	anim := regionmap.NewAnimator(200)
	turns := opts.Turns
	if turns <= 0 {
		turns = len(sections)
	}
	for i := 0; i < turns && i < len(sections); i++ {
		for layer := 0; layer < 16; layer += 4 {
			anim.AddFrame(regionmap.Layer(sections, sections[i].Y, layer, opts.PixelSize))
		}
	}
	return anim.SaveGIF(opts.Args.OutFile)
}
