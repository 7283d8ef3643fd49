package proofimport

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/proof"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

type deposit struct {
	id       uint
	hasProof bool
}

type fakeDeposits struct {
	mu        sync.Mutex
	byNomor   map[string]deposit
	attached  map[uint]proof.Stored
	attachErr error
}

func newFakeDeposits(d map[string]deposit) *fakeDeposits {
	return &fakeDeposits{byNomor: d, attached: map[uint]proof.Stored{}}
}

func (f *fakeDeposits) Lookup(_ context.Context, nomor string) (uint, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byNomor[nomor]
	if !ok {
		return 0, false, ErrNoDeposit
	}
	return d.id, d.hasProof, nil
}

func (f *fakeDeposits) Attach(_ context.Context, id uint, s proof.Stored) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached[id] = s
	return nil
}

type dirs struct {
	inbox, done, failed string
}

func setup(t *testing.T, deps Deposits) (*Importer, *storage.Local, dirs) {
	t.Helper()
	root := t.TempDir()
	d := dirs{
		inbox:  filepath.Join(root, "inbox"),
		done:   filepath.Join(root, "done"),
		failed: filepath.Join(root, "failed"),
	}
	require.NoError(t, os.MkdirAll(d.inbox, 0o755))
	store, err := storage.NewLocal(filepath.Join(root, "store"))
	require.NoError(t, err)
	im := &Importer{
		Inbox:    d.inbox,
		Done:     d.done,
		Failed:   d.failed,
		Proofs:   &proof.Ingester{Store: store},
		Deposits: deps,
		Store:    store,
		Workers:  2,
	}
	return im, store, d
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func countObjects(t *testing.T, base string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(base, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestScanSortsFilesIntoDoneAndFailed(t *testing.T) {
	deps := newFakeDeposits(map[string]deposit{
		"SET-001": {id: 1},
		"SET-002": {id: 2, hasProof: true},
	})
	im, store, d := setup(t, deps)
	writePNG(t, filepath.Join(d.inbox, "SET-001.png"))
	writePNG(t, filepath.Join(d.inbox, "SET-002.png"))
	require.NoError(t, os.WriteFile(filepath.Join(d.inbox, "SET-404.pdf"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d.inbox, "notes.txt"), []byte("x"), 0o644))

	stats, err := im.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Attached: 1, Skipped: 1, Failed: 1}, stats)

	assert.FileExists(t, filepath.Join(d.done, "SET-001.png"))
	assert.FileExists(t, filepath.Join(d.failed, "SET-002.png"))
	assert.FileExists(t, filepath.Join(d.failed, "SET-404.pdf"))
	assert.FileExists(t, filepath.Join(d.inbox, "notes.txt"))

	got, ok := deps.attached[1]
	require.True(t, ok)
	assert.Equal(t, "SET-001.png", got.FileName)
	assert.Equal(t, "image/png", got.ContentType)
	_, err = store.Open(context.Background(), got.Key)
	assert.NoError(t, err)
}

func TestScanReplaceOverwritesExistingProof(t *testing.T) {
	deps := newFakeDeposits(map[string]deposit{"SET-002": {id: 2, hasProof: true}})
	im, _, d := setup(t, deps)
	im.Replace = true
	writePNG(t, filepath.Join(d.inbox, "SET-002.jpg"))

	stats, err := im.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Attached)
	assert.Contains(t, deps.attached, uint(2))
}

func TestAttachFailureRemovesStoredObject(t *testing.T) {
	deps := newFakeDeposits(map[string]deposit{"SET-001": {id: 1}})
	deps.attachErr = errors.New("db down")
	im, store, d := setup(t, deps)
	writePNG(t, filepath.Join(d.inbox, "SET-001.png"))

	stats, err := im.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, countObjects(t, store.Base))
	assert.FileExists(t, filepath.Join(d.failed, "SET-001.png"))
}

func TestScanMissingInbox(t *testing.T) {
	im, _, d := setup(t, newFakeDeposits(nil))
	require.NoError(t, os.RemoveAll(d.inbox))
	_, err := im.Scan(context.Background())
	assert.Error(t, err)
}

func TestMoveFileKeepsExistingTarget(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dst, "a.png"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.png"), []byte("new"), 0o644))

	require.NoError(t, moveFile(filepath.Join(src, "a.png"), dst, "a.png"))
	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	old, err := os.ReadFile(filepath.Join(dst, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestWatchPicksUpNewFiles(t *testing.T) {
	deps := newFakeDeposits(map[string]deposit{"SET-010": {id: 10}})
	im, _, d := setup(t, deps)
	im.Settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- im.Watch(ctx) }()

	// the inbox may not be watched yet; either the initial scan or the
	// watcher picks the file up
	time.Sleep(50 * time.Millisecond)
	writePNG(t, filepath.Join(d.inbox, "SET-010.png"))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(d.done, "SET-010.png"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	deps.mu.Lock()
	defer deps.mu.Unlock()
	assert.Contains(t, deps.attached, uint(10))
}
