package main

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kallsyms/go-nexrad/archive2"
	"github.com/sirupsen/logrus"
)

type VolumeMeta struct {
	LDMOffsets []int
	// For each elevation, the list of chunk offsets which hold any data for that elevation
	ElevationChunks [][]int
}

// VolumeCache remembers the chunk layout of decoded volume scans so later
// single-elevation requests can fetch only the byte ranges they need.
type VolumeCache struct {
	mtx  sync.RWMutex
	meta map[string]VolumeMeta
}

var Volumes = &VolumeCache{
	meta: make(map[string]VolumeMeta),
}

// GetMeta returns the chunk layout for a file, decoding the whole volume on
// a cache miss. The decoded volume is returned alongside on a miss so the
// caller can avoid a second fetch.
func (vc *VolumeCache) GetMeta(ctx context.Context, store ObjectStore, fn string) (VolumeMeta, *archive2.Archive2, error) {
	vc.mtx.RLock()
	if meta, ok := vc.meta[fn]; ok {
		vc.mtx.RUnlock()
		return meta, nil, nil
	}
	vc.mtx.RUnlock()

	logrus.Debugf("%q not in cache", fn)
	ar2, err := loadVolume(ctx, store, fn)
	if err != nil {
		return VolumeMeta{}, nil, err
	}

	meta := VolumeMeta{
		LDMOffsets:      ar2.LDMOffsets,
		ElevationChunks: make([][]int, len(ar2.ElevationScans)),
	}

	chunkSets := make([]map[int]struct{}, len(ar2.ElevationScans))
	for i := range chunkSets {
		chunkSets[i] = make(map[int]struct{})
	}
	for i, record := range ar2.LDMRecords {
		offset := ar2.LDMOffsets[i]
		for _, m31 := range record.M31s {
			chunkSets[m31.Header.ElevationNumber-1][offset] = struct{}{}
		}
	}

	for elv, offsetMap := range chunkSets {
		offsets := make([]int, 0, len(offsetMap))
		for offset := range offsetMap {
			offsets = append(offsets, offset)
		}
		sort.Ints(offsets)
		meta.ElevationChunks[elv] = offsets
	}

	vc.mtx.Lock()
	vc.meta[fn] = meta
	vc.mtx.Unlock()

	return meta, ar2, nil
}

// GetVolume fetches and decodes the complete volume scan.
func (vc *VolumeCache) GetVolume(ctx context.Context, store ObjectStore, fn string) (*archive2.Archive2, error) {
	return loadVolume(ctx, store, fn)
}

// GetVolumeWithElevation returns a volume holding at least the radials of
// the given 1-based elevation, using ranged reads of only the LDM chunks
// that cover it when the chunk layout is already known.
func (vc *VolumeCache) GetVolumeWithElevation(ctx context.Context, store ObjectStore, fn string, elv int) (*archive2.Archive2, error) {
	// ranged reads into a gzip-wrapped archive are useless; take the
	// whole-file path for the pre-2016 keys
	if strings.HasSuffix(fn, ".gz") {
		return loadVolume(ctx, store, fn)
	}

	meta, ar2, err := vc.GetMeta(ctx, store, fn)
	if err != nil {
		return nil, err
	}
	if ar2 != nil {
		return ar2, nil
	}
	if elv < 1 || elv > len(meta.ElevationChunks) || len(meta.LDMOffsets) < 2 {
		return loadVolume(ctx, store, fn)
	}

	key, err := keyForFile(fn)
	if err != nil {
		return nil, err
	}

	// the volume header plus the first LDM message (should be a Message2)
	head, err := store.GetRange(ctx, key, 0, int64(meta.LDMOffsets[1])-1)
	if err != nil {
		return nil, err
	}
	ar2, err = archive2.Extract(head)
	head.Close()
	if err != nil {
		return nil, err
	}
	metrics.Fetches.WithLabelValues(store.Name()).Inc()

	mtx := sync.Mutex{}
	wg := sync.WaitGroup{}

	// Load the other records covering this elevation in parallel
	for _, offset := range meta.ElevationChunks[elv-1] {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()

			// everything is streamed so it is fine to request to EOF,
			// despite only needing probably a few hundred KB
			body, err := store.GetRange(ctx, key, int64(offset), -1)
			if err != nil {
				logrus.Debugf("chunk at %d: %v", offset, err)
				return
			}

			record, err := ar2.LoadLDMRecord(body)
			body.Close()
			if err != nil {
				logrus.Debugf("chunk at %d: %v", offset, err)
				return
			}

			mtx.Lock()
			ar2.AddFromLDMRecord(record)
			mtx.Unlock()
		}(offset)
	}
	wg.Wait()

	return ar2, nil
}
