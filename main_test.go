package main

import (
	"archive/zip"
	"bytes"
	"iter"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTree map[string]interface{}

func createTestTree(t *testing.T, root string, tree testTree) {
	for name, content := range tree {
		path := filepath.Join(root, name)
		switch v := content.(type) {
		case string:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, []byte(v), 0o644); err != nil {
				t.Fatal(err)
			}
		case testTree:
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			createTestTree(t, path, v)
		}
	}
}

func readTestTree(t *testing.T, root string) testTree {
	tree := make(testTree)
	entries, err := os.ReadDir(root)
	if err != nil {
		return tree
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			tree[entry.Name()] = readTestTree(t, path)
		} else {
			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			tree[entry.Name()] = string(content)
		}
	}
	return tree
}

func compareTrees(t *testing.T, name string, got, want testTree) {
	t.Helper()
	for k, wantV := range want {
		gotV, ok := got[k]
		if !ok {
			t.Errorf("%s: missing key %q", name, k)
			continue
		}
		switch wantVal := wantV.(type) {
		case string:
			gotStr, ok := gotV.(string)
			if !ok {
				t.Errorf("%s[%q]: want string, got %T", name, k, gotV)
				continue
			}
			if gotStr != wantVal {
				t.Errorf("%s[%q]: got %q, want %q", name, k, gotStr, wantVal)
			}
		case testTree:
			gotTree, ok := gotV.(testTree)
			if !ok {
				t.Errorf("%s[%q]: want tree, got %T", name, k, gotV)
				continue
			}
			compareTrees(t, name+"/"+k, gotTree, wantVal)
		}
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			t.Errorf("%s: unexpected key %q", name, k)
		}
	}
}

type zipMember struct {
	name    string
	content string
}

func createTestZip(t *testing.T, path string, members ...zipMember) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		if !strings.HasSuffix(m.name, "/") {
			_, err = w.Write([]byte(m.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestProgram(t *testing.T, cli *CLI) (*Program, *bytes.Buffer) {
	t.Helper()
	if cli.Count == 0 {
		cli.Count = maxCount
	}
	p, err := NewProgram(cli, testRNG())
	require.NoError(t, err)
	var out bytes.Buffer
	p.stdout = &out
	p.stderr = &bytes.Buffer{}
	return p, &out
}

// collect drains the candidate stream of p for roots.
func collect(t *testing.T, p *Program, roots ...string) []Candidate {
	t.Helper()
	seq, err := p.collectCandidates(roots)
	require.NoError(t, err)
	var got []Candidate
	for c := range seq {
		got = append(got, c)
	}
	return got
}

func basenames(cands []Candidate) []string {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Basename()
	}
	return names
}

func countFiles(t *testing.T, tree testTree) int {
	n := 0
	for _, v := range tree {
		switch v := v.(type) {
		case string:
			n++
		case testTree:
			n += countFiles(t, v)
		}
	}
	return n
}

func TestRunWritesSample(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dest := filepath.Join(tmpDir, "sample")

	createTestTree(t, src, testTree{
		"a.txt": "aaa",
		"b.txt": "bb",
		"dir1": testTree{
			"c.txt": "c",
			"d.dat": "ddd",
		},
	})

	p, _ := newTestProgram(t, &CLI{
		Paths:      []string{src},
		Output:     dest,
		Count:      10,
		Include:    []string{`.*\.txt`},
		Invocation: "mksample --output sample src",
	})
	require.NoError(t, p.Run())

	got := readTestTree(t, dest)
	assert.Equal(t, "mksample --output sample src\n", got[sentinelName])
	shard, ok := got["00"].(testTree)
	require.True(t, ok, "missing shard 00")
	assert.Len(t, shard, 3)

	var contents []string
	for name, v := range shard {
		assert.Regexp(t, `^000[0-2] [abc]\.txt$`, name)
		contents = append(contents, v.(string))
	}
	assert.ElementsMatch(t, []string{"aaa", "bb", "c"}, contents)
	assert.EqualValues(t, 3, p.stats.Selected)
}

func TestRunSkipsEarlierSample(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	createTestTree(t, src, testTree{
		"one.txt": "1",
		"two.txt": "22",
	})

	first, _ := newTestProgram(t, &CLI{
		Paths:  []string{src},
		Output: filepath.Join(src, "sample1"),
	})
	require.NoError(t, first.Run())

	// The first sample now lives inside src; its files must not be offered again.
	second, _ := newTestProgram(t, &CLI{
		Paths:  []string{src},
		Output: filepath.Join(tmpDir, "sample2"),
	})
	require.NoError(t, second.Run())

	assert.EqualValues(t, 2, second.stats.Candidates)
	got := readTestTree(t, filepath.Join(tmpDir, "sample2"))
	assert.Equal(t, 2, countFiles(t, got["00"].(testTree)))
}

func TestRunNoCandidates(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	createTestTree(t, src, testTree{
		".hidden": "x",
		"empty":   "",
	})
	dest := filepath.Join(tmpDir, "out")

	p, _ := newTestProgram(t, &CLI{Paths: []string{src}, Output: dest})
	err := p.Run()
	require.ErrorIs(t, err, ErrNoCandidates)
	assert.NoDirExists(t, dest)
}

func TestRunMissingRoots(t *testing.T) {
	tmpDir := t.TempDir()
	missing1 := filepath.Join(tmpDir, "nope1")
	missing2 := filepath.Join(tmpDir, "nope2")
	createTestTree(t, tmpDir, testTree{"real.txt": "r"})
	dest := filepath.Join(tmpDir, "out")

	p, _ := newTestProgram(t, &CLI{
		Paths:  []string{missing1, filepath.Join(tmpDir, "real.txt"), missing2},
		Output: dest,
	})
	err := p.Run()

	var mre *MissingRootsError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, []string{missing1, missing2}, mre.Paths)
	assert.Contains(t, err.Error(), "nope1, ")
	assert.NoDirExists(t, dest)
}

func TestRunDryRun(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	createTestTree(t, src, testTree{
		"f1": "x",
		"f2": "y",
	})
	dest := filepath.Join(tmpDir, "out")

	p, out := newTestProgram(t, &CLI{
		Paths:  []string{src},
		Output: dest,
		DryRun: true,
	})
	require.NoError(t, p.Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.ElementsMatch(t, []string{filepath.Join(src, "f1"), filepath.Join(src, "f2")}, lines)
	assert.NoDirExists(t, dest)
}

func TestRunExistingDestination(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dest := filepath.Join(tmpDir, "out")
	createTestTree(t, src, testTree{"f": "x"})
	require.NoError(t, os.Mkdir(dest, 0o755))

	p, _ := newTestProgram(t, &CLI{Paths: []string{src}, Output: dest})
	err := p.Run()

	var dee *DestinationExistsError
	require.ErrorAs(t, err, &dee)
	assert.Empty(t, readTestTree(t, dest))
}

func TestRunUniformZip(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	createTestZip(t, filepath.Join(src, "archive.zip"),
		zipMember{"inner.txt", "content"},
		zipMember{"empty.txt", ""},
	)
	dest := filepath.Join(tmpDir, "out")

	p, _ := newTestProgram(t, &CLI{
		Paths:   []string{src},
		Output:  dest,
		Uniform: true,
		Zip:     true,
	})
	require.NoError(t, p.Run())

	// uniform weighting keeps the empty member
	got := readTestTree(t, filepath.Join(dest, "00"))
	assert.Len(t, got, 2)
	assert.EqualValues(t, 2, p.stats.Extracted)
}

func TestNewProgramInvalidPattern(t *testing.T) {
	_, err := NewProgram(&CLI{Include: []string{"("}}, testRNG())
	var pe *PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "--include", pe.Option)

	_, err = NewProgram(&CLI{Exclude: []string{"ok", "[a-"}}, testRNG())
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "--exclude", pe.Option)
	assert.Contains(t, err.Error(), "invalid regular expression for --exclude")
}

// seqOf streams cands in order.
func seqOf(cands ...Candidate) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, c := range cands {
			if !yield(c) {
				return
			}
		}
	}
}

func TestRunVerboseLogs(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	createTestTree(t, src, testTree{
		"a.txt":   "aaa",
		"bad.zip": "not a zip",
	})

	p, _ := newTestProgram(t, &CLI{
		Paths:   []string{src},
		Output:  filepath.Join(tmpDir, "out"),
		Zip:     true,
		Verbose: 2,
	})
	var stderr bytes.Buffer
	p.stderr = &stderr
	require.NoError(t, p.Run())

	log := stderr.String()
	assert.Contains(t, log, "DEBUG: cannot read zip")
	assert.Contains(t, log, "'00/0000 a.txt' <- ")
	assert.Contains(t, log, "Summary:")
}
