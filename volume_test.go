package main

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyForFile(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		key, err := keyForFile("KOKX20210902_000428_V06")
		require.NoError(t, err)
		assert.Equal(t, "2021/09/02/KOKX/KOKX20210902_000428_V06", key)
	})

	t.Run("gzipped archive name", func(t *testing.T) {
		key, err := keyForFile("KVWX20150515_080737_V06.gz")
		require.NoError(t, err)
		assert.Equal(t, "2015/05/15/KVWX/KVWX20150515_080737_V06.gz", key)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := keyForFile("KOKX2021")
		assert.Error(t, err)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := keyForFile("KOKX20211345_996699_V06")
		assert.Error(t, err)
	})
}

func TestDecodeVolume(t *testing.T) {
	t.Run("empty stream", func(t *testing.T) {
		_, err := decodeVolume(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("gzip wrapper is unwrapped", func(t *testing.T) {
		// a valid gzip stream whose payload is not an archive still has to
		// make it past the sniffing into the decoder
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte("not an archive"))
		require.NoError(t, gz.Close())

		_, err := decodeVolume(&buf)
		assert.Error(t, err)
		assert.NotContains(t, err.Error(), "gzip")
	})

	t.Run("garbage passes through to the decoder", func(t *testing.T) {
		_, err := decodeVolume(strings.NewReader("XYZ garbage"))
		assert.Error(t, err)
	})
}
