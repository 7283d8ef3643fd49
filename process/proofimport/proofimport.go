// Package proofimport attaches scanned deposit proofs dropped into an inbox
// directory. A file named "<nomor_setor>.<ext>" is stored through the proof
// pipeline and linked to the bank deposit with that number, then moved to
// the done or failed directory.
package proofimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/proof"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

var (
	ErrNoDeposit = errors.New("no bank deposit with that nomor setor")
	ErrHasProof  = errors.New("bank deposit already has a proof")
)

const DefaultSettle = 300 * time.Millisecond

// Deposits finds bank deposits and links stored proofs to them.
type Deposits interface {
	Lookup(ctx context.Context, nomorSetor string) (id uint, hasProof bool, err error)
	Attach(ctx context.Context, id uint, s proof.Stored) error
}

// Ingester is satisfied by *proof.Ingester.
type Ingester interface {
	Ingest(ctx context.Context, name string, r io.Reader, size int64) (proof.Stored, error)
}

type Importer struct {
	Inbox  string
	Done   string
	Failed string

	Proofs   Ingester
	Deposits Deposits
	// Store, when set, is used to remove an ingested object whose attach failed.
	Store storage.Store

	Workers int
	// Settle is how long a new file must stay quiet before it is picked up.
	Settle time.Duration
	// Replace allows overwriting a proof already attached to the deposit.
	Replace bool
	Log     logging.Logger
}

// Stats counts outcomes of a Scan.
type Stats struct {
	Attached int
	Skipped  int
	Failed   int
}

type outcome int

const (
	attached outcome = iota
	skipped
	failed
)

func (im *Importer) log() logging.Logger {
	if im.Log == nil {
		return logging.Discard()
	}
	return im.Log
}

func (im *Importer) workers() int {
	if im.Workers <= 0 {
		return runtime.NumCPU()
	}
	return im.Workers
}

func (im *Importer) prepare() error {
	for _, dir := range []string{im.Done, im.Failed} {
		if dir == "" {
			return errors.New("done and failed directories are required")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Scan processes every candidate currently in the inbox.
func (im *Importer) Scan(ctx context.Context) (Stats, error) {
	if err := im.prepare(); err != nil {
		return Stats{}, err
	}
	names, err := listCandidates(im.Inbox)
	if err != nil {
		return Stats{}, err
	}
	im.log().Info(ctx, "scanning inbox", "dir", im.Inbox, "files", len(names), "workers", im.workers())

	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, n := range names {
			select {
			case ch <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return im.run(ctx, ch), ctx.Err()
}

// Watch scans the inbox once and then processes files as they appear until
// ctx is cancelled. The watch starts before the scan so no file is missed.
func (im *Importer) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(im.Inbox); err != nil {
		return err
	}
	if _, err := im.Scan(ctx); err != nil {
		return err
	}
	im.log().Info(ctx, "watching inbox", "dir", im.Inbox)

	settle := im.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	ch := make(chan string, 64)
	go func() {
		defer close(ch)
		// name -> time of the last write; a file is ready once it stops changing
		pending := map[string]time.Time{}
		ticker := time.NewTicker(settle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				if isCandidate(name) {
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) < settle {
						continue
					}
					delete(pending, name)
					select {
					case ch <- name:
					case <-ctx.Done():
						return
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				im.log().Warn(ctx, "watch error", "err", err)
			}
		}
	}()
	im.run(ctx, ch)
	return nil
}

// run drains names with a fixed worker pool and returns when names is closed.
func (im *Importer) run(ctx context.Context, names <-chan string) Stats {
	var (
		mu    sync.Mutex
		stats Stats
		wg    sync.WaitGroup
	)
	for i := 0; i < im.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range names {
				o := im.process(ctx, name)
				mu.Lock()
				switch o {
				case attached:
					stats.Attached++
				case skipped:
					stats.Skipped++
				default:
					stats.Failed++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return stats
}

func (im *Importer) process(ctx context.Context, name string) outcome {
	log := im.log().With("file", name)
	src := filepath.Join(im.Inbox, name)
	nomor := strings.TrimSuffix(name, filepath.Ext(name))
	if _, err := os.Stat(src); err != nil {
		// already handled by the initial scan
		return skipped
	}

	reject := func(o outcome, reason string, err error) outcome {
		log.Warn(ctx, reason, "err", err)
		if mErr := moveFile(src, im.Failed, name); mErr != nil {
			log.Error(ctx, "move to failed", "err", mErr)
		}
		return o
	}

	id, hasProof, err := im.Deposits.Lookup(ctx, nomor)
	if err != nil {
		return reject(failed, "deposit lookup failed", err)
	}
	if hasProof && !im.Replace {
		return reject(skipped, "deposit already has a proof", ErrHasProof)
	}

	stored, err := im.ingest(ctx, src, name)
	if err != nil {
		return reject(failed, "ingest failed", err)
	}
	if err := im.Deposits.Attach(ctx, id, stored); err != nil {
		if im.Store != nil {
			_ = im.Store.Delete(ctx, stored.Key)
		}
		return reject(failed, "attach failed", err)
	}
	if err := moveFile(src, im.Done, name); err != nil {
		log.Error(ctx, "move to done", "err", err)
	}
	log.Info(ctx, "proof attached", "deposit_id", id, "key", stored.Key, "ocr_amount", stored.OCRAmount)
	return attached
}

func (im *Importer) ingest(ctx context.Context, path, name string) (proof.Stored, error) {
	f, err := os.Open(path)
	if err != nil {
		return proof.Stored{}, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return proof.Stored{}, err
	}
	return im.Proofs.Ingest(ctx, name, f, st.Size())
}

func listCandidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isCandidate(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// isCandidate skips hidden files and anything the upload rules reject.
func isCandidate(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return forms.CheckUpload(name, 0) == nil
}

// moveFile renames src into dir, falling back to copy and remove across
// devices. An existing target gets a timestamp suffix.
func moveFile(src, dir, name string) error {
	dst := filepath.Join(dir, name)
	if _, err := os.Stat(dst); err == nil {
		ext := filepath.Ext(name)
		dst = filepath.Join(dir, fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), time.Now().UnixNano(), ext))
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyRemove(src, dst)
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
