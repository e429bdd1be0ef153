package driver

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFS is an in-memory FileSystem used to drive the sequencing logic
// without touching disk.
type fakeFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string][]byte{}, dirs: map[string]bool{}}
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file %s", path)
	}
	return data, nil
}

func (f *fakeFS) WriteFile(path string, data []byte) error {
	f.files[path] = data
	return nil
}

func (f *fakeFS) MkdirAll(path string) error {
	f.dirs[path] = true
	return nil
}

func (f *fakeFS) ReadDir(path string) ([]string, error) {
	var out []string
	prefix := path + "/"
	seen := map[string]bool{}
	for name := range f.files {
		if strings.HasPrefix(name, prefix) {
			rest := strings.TrimPrefix(name, prefix)
			top := strings.SplitN(rest, "/", 2)[0]
			if !seen[top] {
				seen[top] = true
				out = append(out, filepath.Join(path, top))
			}
		}
	}
	for dir := range f.dirs {
		if strings.HasPrefix(dir, prefix) {
			rest := strings.TrimPrefix(dir, prefix)
			if rest == "" || strings.Contains(rest, "/") {
				continue
			}
			if !seen[rest] {
				seen[rest] = true
				out = append(out, filepath.Join(path, rest))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeFS) RemoveAll(path string) error {
	prefix := path + "/"
	for name := range f.files {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(f.files, name)
		}
	}
	delete(f.dirs, path)
	return nil
}

func (f *fakeFS) Stat(path string) (bool, error) {
	if f.dirs[path] {
		return true, nil
	}
	if _, ok := f.files[path]; ok {
		return true, nil
	}
	prefix := path + "/"
	for name := range f.files {
		if strings.HasPrefix(name, prefix) {
			return true, nil
		}
	}
	for dir := range f.dirs {
		if strings.HasPrefix(dir, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// fakeHelper simulates the external helper in-process: region-unpack
// "splits" a region blob that is itself just a concatenation of one
// chunk's bytes for test purposes, and nbt<->xml round-trips through
// tagtree's own XML codec rather than shelling out.
type fakeHelper struct {
	fs *fakeFS
}

func (h *fakeHelper) RegionUnpack(ctx context.Context, regionFile, scratchDir string) error {
	data, err := h.fs.ReadFile(regionFile)
	if err != nil {
		return err
	}
	return h.fs.WriteFile(filepath.Join(scratchDir, "chunk-0000.nbt.zlib"), data)
}

func (h *fakeHelper) RegionPack(ctx context.Context, scratchDir, regionFile string) error {
	data, err := h.fs.ReadFile(filepath.Join(scratchDir, "chunk-0000.nbt.zlib"))
	if err != nil {
		return err
	}
	return h.fs.WriteFile(regionFile, data)
}

func (h *fakeHelper) NBTToXML(ctx context.Context, src, dst string) error {
	data, err := h.fs.ReadFile(src)
	if err != nil {
		return err
	}
	return h.fs.WriteFile(dst, data)
}

func (h *fakeHelper) NBTFromXML(ctx context.Context, src, dst string) error {
	data, err := h.fs.ReadFile(src)
	if err != nil {
		return err
	}
	return h.fs.WriteFile(dst, data)
}

func sampleChunkXML(t *testing.T) []byte {
	t.Helper()
	sections := tagtree.NewList(tagtree.KindCompound)
	level := tagtree.NewCompound()
	level.Put("Sections", sections)
	level.Put("TileEntities", tagtree.NewList(tagtree.KindCompound))
	level.Put("Entities", tagtree.NewList(tagtree.KindCompound))
	inner := tagtree.NewCompound()
	inner.Put("Level", level)
	root := tagtree.NewCompound()
	root.Put("", inner)

	var buf bytes.Buffer
	require.NoError(t, tagtree.WriteXML(&buf, root))
	return buf.Bytes()
}

func TestRun_EmptyWorldProducesEmptyOutput(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/in/world"] = true

	report, err := Run(context.Background(), Config{
		InputBaseDir:      "/in",
		InputWorldSubdir:  "world",
		OutputBaseDir:     "/out",
		OutputWorldSubdir: "world",
		MapInfo:           &maptable.MapInfo{},
		FS:                fs,
		HelperImpl:        &fakeHelper{fs: fs},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.RegionsProcessed)
	assert.Equal(t, 0, report.ChunksProcessed)
}

func TestRun_MissingInputWorldIsFatal(t *testing.T) {
	fs := newFakeFS()
	_, err := Run(context.Background(), Config{
		InputBaseDir:      "/in",
		InputWorldSubdir:  "world",
		OutputBaseDir:     "/out",
		OutputWorldSubdir: "world",
		MapInfo:           &maptable.MapInfo{},
		FS:                fs,
		HelperImpl:        &fakeHelper{fs: fs},
	})
	require.Error(t, err)
}

func TestRun_MigratesOneRegionWithOneChunk(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/in/world"] = true
	fs.dirs["/in/world/region"] = true

	nbtBytes := sampleChunkXML(t)
	var zbuf bytes.Buffer
	w, err := zlib.NewWriterLevel(&zbuf, flate.BestCompression)
	require.NoError(t, err)
	_, err = w.Write(nbtBytes)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, fs.WriteFile("/in/world/region/r.0.0.mca", zbuf.Bytes()))

	report, err := Run(context.Background(), Config{
		InputBaseDir:      "/in",
		InputWorldSubdir:  "world",
		OutputBaseDir:     "/out",
		OutputWorldSubdir: "world",
		MapInfo:           &maptable.MapInfo{},
		FS:                fs,
		HelperImpl:        &fakeHelper{fs: fs},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.RegionsProcessed)
	assert.Equal(t, 1, report.ChunksProcessed)

	out, err := fs.ReadFile("/out/world/region/r.0.0.mca")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRun_SkipsPlayerFileWithoutPlayerCompound(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/in/world"] = true
	fs.dirs["/in/world/players"] = true

	// A player blob whose unnamed wrapper is a string rather than a
	// compound has no Player compound and must be skipped, not fail the
	// run.
	root := tagtree.NewCompound()
	root.Put("", tagtree.NewString("not a player"))
	var buf bytes.Buffer
	require.NoError(t, tagtree.WriteXML(&buf, root))
	var gzbuf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&gzbuf, gzip.BestCompression)
	require.NoError(t, err)
	_, err = gw.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fs.WriteFile("/in/world/players/steve.dat", gzbuf.Bytes()))

	report, err := Run(context.Background(), Config{
		InputBaseDir:      "/in",
		InputWorldSubdir:  "world",
		OutputBaseDir:     "/out",
		OutputWorldSubdir: "world",
		MapInfo:           &maptable.MapInfo{},
		FS:                fs,
		HelperImpl:        &fakeHelper{fs: fs},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.PlayersSkipped)
	assert.Equal(t, 0, report.PlayersProcessed)
}

func TestDimensionRegionDirs_IncludesRootAndDimensions(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/w"] = true
	fs.dirs["/w/region"] = true
	fs.dirs["/w/DIM-1"] = true
	fs.dirs["/w/DIM-1/region"] = true
	fs.dirs["/w/DIM1"] = true
	fs.dirs["/w/DIM1/region"] = true

	dirs := dimensionRegionDirs(fs, "/w")
	assert.Equal(t, []string{"region", "DIM-1/region", "DIM1/region"}, dirs)
}
