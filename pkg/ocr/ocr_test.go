package ocr

import (
	"context"
	"image/color"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedEngine struct {
	mu    sync.Mutex
	text  map[string]string
	calls int
}

func (e *scriptedEngine) Text(path, whitelist string, mode PageMode) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if whitelist == digitChars {
		return e.text["digits"], nil
	}
	return e.text["any"], nil
}

func writeProof(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bukti.png")
	require.NoError(t, imaging.Save(imaging.New(320, 200, color.NRGBA{255, 255, 255, 255}), p))
	return p
}

func TestReadAmountCombinesPasses(t *testing.T) {
	eng := &scriptedEngine{text: map[string]string{
		"any":    "Transfer Berhasil\nTotal  Rp 1.250.000",
		"digits": "1.250.000 0812",
	}}
	r := NewReader(eng, nil)

	got, err := r.ReadAmount(context.Background(), writeProof(t))
	require.NoError(t, err)
	assert.EqualValues(t, 1250000, got.Amount)
	assert.GreaterOrEqual(t, eng.calls, 5)
}

func TestReadAmountNothingFound(t *testing.T) {
	r := NewReader(&scriptedEngine{text: map[string]string{}}, nil)
	_, err := r.ReadAmount(context.Background(), writeProof(t))
	assert.ErrorIs(t, err, ErrNoAmount)
}

func TestReadAmountMissingFile(t *testing.T) {
	r := NewReader(&scriptedEngine{}, nil)
	_, err := r.ReadAmount(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAmount)
}
