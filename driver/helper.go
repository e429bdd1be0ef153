package driver

import (
	"context"
	"fmt"
	"os/exec"
)

// ErrHelperFailed wraps a non-zero exit from the external helper binary,
// including its combined output for diagnosis.
type ErrHelperFailed struct {
	Subcommand string
	Args       []string
	Output     string
	Err        error
}

func (e *ErrHelperFailed) Error() string {
	return fmt.Sprintf("helper %s %v failed: %v: %s", e.Subcommand, e.Args, e.Err, e.Output)
}

func (e *ErrHelperFailed) Unwrap() error { return e.Err }

// Helper invokes the external region-pack/region-unpack/nbt-to-xml/
// nbt-from-xml utility. The core never parses region files or the
// binary NBT-equivalent format itself; that work is out of scope
// per the external-helper boundary, so Helper is the thin seam between
// driver's sequencing and the helper subprocess.
type Helper interface {
	RegionUnpack(ctx context.Context, regionFile, scratchDir string) error
	RegionPack(ctx context.Context, scratchDir, regionFile string) error
	NBTToXML(ctx context.Context, src, dst string) error
	NBTFromXML(ctx context.Context, src, dst string) error
}

// execHelper runs the real external helper binary as a subprocess.
type execHelper struct {
	binPath string
}

// NewExecHelper returns a Helper that shells out to binPath for each
// subcommand.
func NewExecHelper(binPath string) Helper {
	return &execHelper{binPath: binPath}
}

func (h *execHelper) RegionUnpack(ctx context.Context, regionFile, scratchDir string) error {
	return h.run(ctx, "region-unpack", regionFile, scratchDir)
}

func (h *execHelper) RegionPack(ctx context.Context, scratchDir, regionFile string) error {
	return h.run(ctx, "region-pack", scratchDir, regionFile)
}

func (h *execHelper) NBTToXML(ctx context.Context, src, dst string) error {
	return h.run(ctx, "nbt-to-xml", src, dst)
}

func (h *execHelper) NBTFromXML(ctx context.Context, src, dst string) error {
	return h.run(ctx, "nbt-from-xml", src, dst)
}

func (h *execHelper) run(ctx context.Context, subcommand string, args ...string) error {
	cmd := exec.CommandContext(ctx, h.binPath, append([]string{subcommand}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &ErrHelperFailed{Subcommand: subcommand, Args: args, Output: string(out), Err: err}
	}
	return nil
}
