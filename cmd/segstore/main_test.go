package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/segstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
specs:
  - name: messages
    large: true
    paths: [var/log/messages*]
  - name: hostname
    paths: [etc/hostname]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// fixture writes a manifest and three archive directories.
func fixture(t *testing.T) (manifest string, archives []string) {
	t.Helper()
	dir := t.TempDir()
	manifest = filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o644))

	for _, host := range []string{"web01", "web02", "web03"} {
		archive := filepath.Join(dir, host)
		testutil.WriteTree(t, archive, map[string]string{
			"etc/hostname":              host + "\n",
			"var/log/messages":          strings.Repeat(host+": service ok\n", 12),
			"var/log/messages-20240101": strings.Repeat(host+": boot\n", 7),
		})
		archives = append(archives, archive)
	}
	return manifest, archives
}

func TestIngest_ParallelMatchesSequential(t *testing.T) {
	manifest, archives := fixture(t)
	seq := filepath.Join(t.TempDir(), "seq")
	par := filepath.Join(t.TempDir(), "par")

	common := []string{"--manifest", manifest, "--small-max", "512B", "--large-max", "1KiB"}

	_, err := run(t, append(append([]string{"ingest"}, common...), append([]string{"--context", "case=42", seq}, archives...)...)...)
	require.NoError(t, err)
	_, err = run(t, append(append([]string{"ingest"}, common...), append([]string{"--context", "case=42", "--parallel", "3", par}, archives...)...)...)
	require.NoError(t, err)

	out, err := run(t, "verify", seq, par)
	require.NoError(t, err)
	assert.Equal(t, "hostname\tok\nmessages\tok\n", out)

	out, err = run(t, append([]string{"stat"}, append(common, seq)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "messages")
	assert.Contains(t, out, "large")
	assert.Contains(t, out, "hostname")
	assert.Contains(t, out, "total")
}

func TestCat(t *testing.T) {
	manifest, archives := fixture(t)
	root := t.TempDir()

	_, err := run(t, "ingest", "--manifest", manifest, root, archives[0])
	require.NoError(t, err)

	out, err := run(t, "cat", root, "hostname")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"content":"web01\n"`)

	out, err = run(t, "cat", root, "messages")
	require.NoError(t, err)
	assert.Equal(t, 19, strings.Count(out, "\n"))

	_, err = run(t, "cat", root, "missing")
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	manifest, archives := fixture(t)
	a, b, direct := t.TempDir(), t.TempDir(), t.TempDir()

	_, err := run(t, "ingest", "--manifest", manifest, a, archives[0])
	require.NoError(t, err)
	_, err = run(t, "ingest", "--manifest", manifest, b, archives[1])
	require.NoError(t, err)
	_, err = run(t, "ingest", "--manifest", manifest, direct, archives[0], archives[1])
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "dest")
	_, err = run(t, "merge", "--manifest", manifest, dest, a, b)
	require.NoError(t, err)

	_, err = run(t, "verify", dest, direct)
	require.NoError(t, err)
}

func TestMerge_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dest")
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := run(t, "merge", dest, missing)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge_FullSourceUntouched(t *testing.T) {
	src := t.TempDir()
	content := strings.Repeat(`{"content":"x"}`+"\n", 40)
	require.NoError(t, os.WriteFile(filepath.Join(src, "foo.json.00000"), []byte(content), 0o644))

	dest := filepath.Join(t.TempDir(), "dest")
	_, err := run(t, "merge", "--small-max", "512B", dest, src)
	require.NoError(t, err)

	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "foo.json.00000", entries[0].Name())

	out, err := run(t, "cat", dest, "foo")
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestVerify_Differs(t *testing.T) {
	manifest, archives := fixture(t)
	a, b := t.TempDir(), t.TempDir()

	_, err := run(t, "ingest", "--manifest", manifest, a, archives[0])
	require.NoError(t, err)
	_, err = run(t, "ingest", "--manifest", manifest, b, archives[1])
	require.NoError(t, err)

	out, err := run(t, "verify", a, b)
	require.ErrorIs(t, err, errStoresDiffer)
	assert.Contains(t, out, "messages\tdiffers")
}

func TestIngest_RequiresManifest(t *testing.T) {
	_, archives := fixture(t)
	_, err := run(t, "ingest", t.TempDir(), archives[0])
	require.ErrorContains(t, err, "--manifest")
}

func TestConfig_EnvAndFile(t *testing.T) {
	manifest, archives := fixture(t)

	cfg := filepath.Join(t.TempDir(), "segstore.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("manifest: "+manifest+"\nlarge-max: 256B\n"), 0o644))
	t.Setenv("SEGSTORE_SMALL_MAX", "128B")

	root := t.TempDir()
	_, err := run(t, "ingest", "--config", cfg, root, archives[0])
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var messages int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "messages.json.") {
			messages++
		}
	}
	assert.Equal(t, 2, messages, "one segment per source file under a tiny cap")
}

func TestConfig_BadSize(t *testing.T) {
	manifest, archives := fixture(t)
	_, err := run(t, "ingest", "--manifest", manifest, "--small-max", "lots", t.TempDir(), archives[0])
	require.ErrorContains(t, err, "small-max")
}

func TestMetricsTextfile(t *testing.T) {
	manifest, archives := fixture(t)
	prom := filepath.Join(t.TempDir(), "segstore.prom")

	_, err := run(t, "ingest", "--manifest", manifest, "--metrics-textfile", prom, t.TempDir(), archives[0])
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `segstore_records_written_total{stream="messages"} 19`)
}

func TestPublish_RequiresDestination(t *testing.T) {
	_, err := run(t, "publish", t.TempDir())
	require.ErrorContains(t, err, "--s3-bucket or --minio-endpoint")

	_, err = run(t, "publish", "--minio-endpoint", "localhost:9000", t.TempDir())
	require.ErrorContains(t, err, "--minio-bucket")
}
