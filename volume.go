package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/kallsyms/go-nexrad/archive2"
)

// keyForFile maps an archive filename like KVWX20150515_080737_V06(.gz)
// to its bucket key YYYY/MM/DD/SITE/<fn>.
func keyForFile(fn string) (string, error) {
	if len(fn) < 19 {
		return "", fmt.Errorf("malformed archive filename %q", fn)
	}
	site := fn[:4]
	date, err := time.Parse("20060102_150405", fn[4:19])
	if err != nil {
		return "", err
	}
	return date.Format("2006/01/02/") + site + "/" + fn, nil
}

// decodeVolume decodes an archive byte stream, unwrapping whole-file
// compression first. Pre-2016 keys are gzip-wrapped; some mirrors carry
// bzip2-wrapped copies.
func decodeVolume(r io.Reader) (*archive2.Archive2, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(3)
	if err != nil {
		return nil, err
	}

	switch {
	case magic[0] == 0x1f && magic[1] == 0x8b:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return archive2.Extract(gz)
	case bytes.Equal(magic, []byte("BZh")):
		bz, err := bzip2.NewReader(br, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		return archive2.Extract(bz)
	}

	return archive2.Extract(br)
}

func loadVolume(ctx context.Context, store ObjectStore, fn string) (*archive2.Archive2, error) {
	key, err := keyForFile(fn)
	if err != nil {
		return nil, err
	}

	body, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	metrics.Fetches.WithLabelValues(store.Name()).Inc()

	ar2, err := decodeVolume(body)
	if err != nil {
		metrics.DecodeErrors.Inc()
		return nil, err
	}
	return ar2, nil
}
