package driver

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/chunkmigrate/chunkmigrate/log"
	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

// Config describes one migration run: the four CLI-contract directories
// plus the built map info and registered transformer catalog. FS and
// HelperImpl default to the real filesystem and a subprocess-backed
// Helper when left nil, which is the seam tests use to substitute
// fakes.
type Config struct {
	InputBaseDir      string
	InputWorldSubdir  string
	OutputBaseDir     string
	OutputWorldSubdir string

	HelperBinPath string
	MapInfo       *maptable.MapInfo
	Transformers  []transform.Transformer

	FS         FileSystem
	HelperImpl Helper
}

var regionFilePattern = regexp.MustCompile(`^r\.-?\d+\.-?\d+\.mca$`)
var dimDirPattern = regexp.MustCompile(`^DIM-?\d+$`)
var chunkBlobPattern = regexp.MustCompile(`^chunk-(\d{4})\.nbt\.zlib$`)

// Run sequences the full migration: every dimension's region files,
// then players/*, then level.dat. It aborts on the first fatal error,
// per spec no partial output is emitted for the chunk/region in flight
// when that happens, though the returned Report reflects whatever had
// already succeeded.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	fs := cfg.FS
	if fs == nil {
		fs = OSFileSystem()
	}
	helper := cfg.HelperImpl
	if helper == nil {
		helper = NewExecHelper(cfg.HelperBinPath)
	}
	tctx := transform.NewContext(cfg.MapInfo, cfg.Transformers)
	report := NewReport()

	inputWorld := filepath.Join(cfg.InputBaseDir, cfg.InputWorldSubdir)
	if ok, err := fs.Stat(inputWorld); err != nil || !ok {
		return report, fmt.Errorf("input world directory %q is absent", inputWorld)
	}
	outputWorld := filepath.Join(cfg.OutputBaseDir, cfg.OutputWorldSubdir)
	if err := fs.MkdirAll(outputWorld); err != nil {
		return report, fmt.Errorf("creating output world directory: %w", err)
	}
	scratchRoot := filepath.Join(outputWorld, ".scratch")
	defer fs.RemoveAll(scratchRoot)

	for _, regionSubdir := range dimensionRegionDirs(fs, inputWorld) {
		inRegionDir := filepath.Join(inputWorld, regionSubdir)
		outRegionDir := filepath.Join(outputWorld, regionSubdir)
		if err := fs.MkdirAll(outRegionDir); err != nil {
			return report, fmt.Errorf("creating output region directory %q: %w", outRegionDir, err)
		}

		entries, err := fs.ReadDir(inRegionDir)
		if err != nil {
			return report, fmt.Errorf("listing region directory %q: %w", inRegionDir, err)
		}

		scratchDir := filepath.Join(scratchRoot, regionSubdir)
		for _, entry := range entries {
			name := filepath.Base(entry)
			if !regionFilePattern.MatchString(name) {
				continue
			}
			if err := fs.MkdirAll(scratchDir); err != nil {
				return report, err
			}
			if err := migrateRegion(ctx, fs, helper, tctx, report,
				entry, filepath.Join(outRegionDir, name), scratchDir); err != nil {
				log.Error("region migration failed", log.F("region", name), log.F("error", err.Error()))
				return report, err
			}
			if err := fs.RemoveAll(scratchDir); err != nil {
				return report, err
			}
			report.recordRegion()
		}
	}

	if err := migratePlayers(fs, helper, tctx, report, inputWorld, outputWorld); err != nil {
		return report, err
	}
	if err := migrateLevelDat(fs, helper, tctx, report, inputWorld, outputWorld); err != nil {
		return report, err
	}

	return report, nil
}

// dimensionRegionDirs returns every region-holding directory relative
// to the world root: the root "region" plus every "DIMxxx/region".
func dimensionRegionDirs(fs FileSystem, worldDir string) []string {
	dirs := []string{"region"}
	if ok, _ := fs.Stat(filepath.Join(worldDir, "region")); !ok {
		dirs = nil
	}

	entries, err := fs.ReadDir(worldDir)
	if err != nil {
		return dirs
	}
	var dims []string
	for _, entry := range entries {
		name := filepath.Base(entry)
		if !dimDirPattern.MatchString(name) {
			continue
		}
		if ok, _ := fs.Stat(filepath.Join(worldDir, name, "region")); ok {
			dims = append(dims, name)
		}
	}
	sort.Strings(dims)
	for _, d := range dims {
		dirs = append(dirs, filepath.Join(d, "region"))
	}
	return dirs
}

func migrateRegion(ctx context.Context, fs FileSystem, helper Helper, tctx *transform.Context, report *Report,
	inRegionFile, outRegionFile, scratchDir string) error {

	if err := helper.RegionUnpack(ctx, inRegionFile, scratchDir); err != nil {
		return err
	}

	entries, err := fs.ReadDir(scratchDir)
	if err != nil {
		return err
	}
	var chunkFiles []string
	for _, e := range entries {
		if chunkBlobPattern.MatchString(filepath.Base(e)) {
			chunkFiles = append(chunkFiles, e)
		}
	}
	sort.Strings(chunkFiles)

	for _, chunkFile := range chunkFiles {
		err := migrateChunk(ctx, fs, helper, tctx, chunkFile)
		report.recordChunk(err)
		if err != nil {
			return fmt.Errorf("migrating %s: %w", filepath.Base(chunkFile), err)
		}
	}

	return helper.RegionPack(ctx, scratchDir, outRegionFile)
}

// LoadRegionChunk unpacks a single region file into scratchDir and
// parses one chunk's tag tree by its four-digit chunk-blob index,
// without running any transformer or writing anything back. This is
// the read-only half of migrateChunk, exported for companion tooling
// (regionmap) that wants to inspect a chunk's packed-block sections
// without performing a migration.
func LoadRegionChunk(ctx context.Context, fs FileSystem, helper Helper, regionFile, scratchDir, chunkIndex string) (*tagtree.Tag, error) {
	if err := helper.RegionUnpack(ctx, regionFile, scratchDir); err != nil {
		return nil, err
	}
	chunkFile := filepath.Join(scratchDir, fmt.Sprintf("chunk-%s.nbt.zlib", chunkIndex))
	return loadChunkTagReadOnly(ctx, fs, helper, chunkFile)
}

// LoadRegionChunks unpacks a single region file into scratchDir and
// parses every chunk's tag tree it contains, sorted by chunk-blob
// index, same read-only contract as LoadRegionChunk.
func LoadRegionChunks(ctx context.Context, fs FileSystem, helper Helper, regionFile, scratchDir string) ([]*tagtree.Tag, error) {
	if err := helper.RegionUnpack(ctx, regionFile, scratchDir); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(scratchDir)
	if err != nil {
		return nil, err
	}
	var chunkFiles []string
	for _, e := range entries {
		if chunkBlobPattern.MatchString(filepath.Base(e)) {
			chunkFiles = append(chunkFiles, e)
		}
	}
	sort.Strings(chunkFiles)

	tags := make([]*tagtree.Tag, 0, len(chunkFiles))
	for _, chunkFile := range chunkFiles {
		tag, err := loadChunkTagReadOnly(ctx, fs, helper, chunkFile)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", filepath.Base(chunkFile), err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func loadChunkTagReadOnly(ctx context.Context, fs FileSystem, helper Helper, chunkFile string) (*tagtree.Tag, error) {
	blob, err := fs.ReadFile(chunkFile)
	if err != nil {
		return nil, err
	}
	nbtBytes, err := inflateZlib(blob)
	if err != nil {
		return nil, fmt.Errorf("inflating chunk blob: %w", err)
	}

	binPath := chunkFile + ".bin"
	xmlPath := chunkFile + ".xml"
	if err := fs.WriteFile(binPath, nbtBytes); err != nil {
		return nil, err
	}
	if err := helper.NBTToXML(ctx, binPath, xmlPath); err != nil {
		return nil, err
	}

	xmlBytes, err := fs.ReadFile(xmlPath)
	if err != nil {
		return nil, err
	}
	root, err := tagtree.ReadXML(bytes.NewReader(xmlBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing chunk XML: %w", err)
	}
	return root, nil
}

func migrateChunk(ctx context.Context, fs FileSystem, helper Helper, tctx *transform.Context, chunkFile string) error {
	blob, err := fs.ReadFile(chunkFile)
	if err != nil {
		return err
	}
	nbtBytes, err := inflateZlib(blob)
	if err != nil {
		return fmt.Errorf("inflating chunk blob: %w", err)
	}

	binPath := chunkFile + ".bin"
	xmlPath := chunkFile + ".xml"
	if err := fs.WriteFile(binPath, nbtBytes); err != nil {
		return err
	}
	if err := helper.NBTToXML(ctx, binPath, xmlPath); err != nil {
		return err
	}

	xmlBytes, err := fs.ReadFile(xmlPath)
	if err != nil {
		return err
	}
	root, err := tagtree.ReadXML(bytes.NewReader(xmlBytes))
	if err != nil {
		return fmt.Errorf("parsing chunk XML: %w", err)
	}

	if err := tctx.RunChunk(root); err != nil {
		return fmt.Errorf("applying transformers: %w", err)
	}

	var out bytes.Buffer
	if err := tagtree.WriteXML(&out, root); err != nil {
		return err
	}
	if err := fs.WriteFile(xmlPath, out.Bytes()); err != nil {
		return err
	}
	if err := helper.NBTFromXML(ctx, xmlPath, binPath); err != nil {
		return err
	}

	rewritten, err := fs.ReadFile(binPath)
	if err != nil {
		return err
	}
	deflated, err := deflateZlib(rewritten)
	if err != nil {
		return err
	}
	return fs.WriteFile(chunkFile, deflated)
}

func migratePlayers(fs FileSystem, helper Helper, tctx *transform.Context, report *Report, inputWorld, outputWorld string) error {
	playersDir := filepath.Join(inputWorld, "players")
	if ok, _ := fs.Stat(playersDir); !ok {
		return nil
	}
	outPlayersDir := filepath.Join(outputWorld, "players")
	if err := fs.MkdirAll(outPlayersDir); err != nil {
		return err
	}

	entries, err := fs.ReadDir(playersDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		skipped, err := migratePlayerFile(fs, helper, tctx, entry, filepath.Join(outPlayersDir, filepath.Base(entry)))
		if err != nil {
			return fmt.Errorf("migrating player file %s: %w", filepath.Base(entry), err)
		}
		report.recordPlayer(skipped)
	}
	return nil
}

func migratePlayerFile(fs FileSystem, helper Helper, tctx *transform.Context, inPath, outPath string) (skipped bool, err error) {
	root, err := readGzippedTag(fs, helper, inPath)
	if err != nil {
		return false, err
	}

	player, ok := tagtree.FindChild(root, "")
	if !ok {
		player = root
	}
	if player.Kind != tagtree.KindCompound {
		return true, nil
	}

	if err := tctx.RunPlayer(player); err != nil {
		return false, err
	}

	return false, writeGzippedTag(fs, helper, root, outPath)
}

func migrateLevelDat(fs FileSystem, helper Helper, tctx *transform.Context, report *Report, inputWorld, outputWorld string) error {
	inPath := filepath.Join(inputWorld, "level.dat")
	if ok, _ := fs.Stat(inPath); !ok {
		return nil
	}
	outPath := filepath.Join(outputWorld, "level.dat")

	root, err := readGzippedTag(fs, helper, inPath)
	if err != nil {
		return err
	}

	inner, ok := tagtree.FindChild(root, "")
	if !ok {
		inner = root
	}
	data, ok := tagtree.FindChild(inner, "Data")
	if !ok {
		return fs.WriteFile(outPath, mustRead(fs, inPath))
	}
	player, ok := tagtree.FindChild(data, "Player")
	if !ok {
		return fs.WriteFile(outPath, mustRead(fs, inPath))
	}

	if err := tctx.RunPlayer(player); err != nil {
		return err
	}
	report.recordLevelDat()
	return writeGzippedTag(fs, helper, root, outPath)
}

func mustRead(fs FileSystem, path string) []byte {
	data, _ := fs.ReadFile(path)
	return data
}

// readGzippedTag gunzips a player/level.dat blob and converts it to the
// tag tree via the external helper, using the blob's own path plus
// ".bin"/".xml" suffixes as scratch filenames.
func readGzippedTag(fs FileSystem, helper Helper, path string) (*tagtree.Tag, error) {
	blob, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nbtBytes, err := gunzip(blob)
	if err != nil {
		return nil, fmt.Errorf("gunzipping %s: %w", filepath.Base(path), err)
	}

	binPath := path + ".bin"
	xmlPath := path + ".xml"
	if err := fs.WriteFile(binPath, nbtBytes); err != nil {
		return nil, err
	}
	if err := helper.NBTToXML(context.Background(), binPath, xmlPath); err != nil {
		return nil, err
	}
	xmlBytes, err := fs.ReadFile(xmlPath)
	if err != nil {
		return nil, err
	}
	return tagtree.ReadXML(bytes.NewReader(xmlBytes))
}

func writeGzippedTag(fs FileSystem, helper Helper, root *tagtree.Tag, outPath string) error {
	var out bytes.Buffer
	if err := tagtree.WriteXML(&out, root); err != nil {
		return err
	}
	xmlPath := outPath + ".xml"
	binPath := outPath + ".bin"
	if err := fs.WriteFile(xmlPath, out.Bytes()); err != nil {
		return err
	}
	if err := helper.NBTFromXML(context.Background(), xmlPath, binPath); err != nil {
		return err
	}
	nbtBytes, err := fs.ReadFile(binPath)
	if err != nil {
		return err
	}
	gzipped, err := gzipBytes(nbtBytes)
	if err != nil {
		return err
	}
	return fs.WriteFile(outPath, gzipped)
}

func inflateZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func deflateZlib(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
