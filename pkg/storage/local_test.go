package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutOpenDelete(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	key := NewKey("bukti", "Setoran.PNG")
	assert.True(t, strings.HasPrefix(key, "bukti/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	require.NoError(t, l.Put(ctx, key, strings.NewReader("png-bytes"), 9, "image/png"))
	rc, err := l.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, l.Delete(ctx, key))
	_, err = l.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, l.Delete(ctx, key))
}

func TestLocalRejectsTraversal(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	err = l.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}
