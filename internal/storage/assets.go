package storage

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Names tried for the reference fallback directory, in order. It holds
// same-filename replacements for assets pruned from the rarity
// directories.
var referenceDirNames = []string{"reference", "Reference"}

// AssetLibrary selects award assets from a directory-of-directories
// layout where each subdirectory name is parsed as an integer rarity
// weight: a file under 9/ is drawn nine times as often as one under 1/.
// Directories whose names do not parse, or that hold no files, are
// excluded from the pool.
type AssetLibrary struct {
	dir string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssetLibrary creates an asset library rooted at dir.
func NewAssetLibrary(dir string, rng *rand.Rand) *AssetLibrary {
	return &AssetLibrary{
		dir: dir,
		rng: rng,
	}
}

type assetBucket struct {
	name   string
	weight int
	files  []string
}

func (l *AssetLibrary) buckets() ([]assetBucket, int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to read asset directory %s: %w", l.dir, err)
	}

	var buckets []assetBucket
	total := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		weight, err := strconv.Atoi(entry.Name())
		if err != nil || weight < 1 {
			continue
		}

		files, err := os.ReadDir(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read asset directory %s: %w", filepath.Join(l.dir, entry.Name()), err)
		}
		var names []string
		for _, f := range files {
			if !f.IsDir() {
				names = append(names, f.Name())
			}
		}
		if len(names) == 0 {
			continue
		}

		buckets = append(buckets, assetBucket{name: entry.Name(), weight: weight, files: names})
		total += weight
	}
	return buckets, total, nil
}

// PickRandom draws one asset: a directory chosen with probability
// proportional to its numeric weight, then a file chosen uniformly
// within it. Returns ErrNoAssets when the pool is empty.
func (l *AssetLibrary) PickRandom() (string, error) {
	buckets, total, err := l.buckets()
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "", ErrNoAssets
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.rng.Intn(total)
	for _, b := range buckets {
		if n < b.weight {
			file := b.files[l.rng.Intn(len(b.files))]
			return filepath.Join(l.dir, b.name, file), nil
		}
		n -= b.weight
	}
	return "", ErrNoAssets
}

// ResolveReference looks for a same-filename replacement of a pruned
// asset under the reference fallback directory, trying both case
// spellings of the directory name.
func (l *AssetLibrary) ResolveReference(assetPath string) (string, bool) {
	base := filepath.Base(assetPath)
	for _, dir := range referenceDirNames {
		candidate := filepath.Join(l.dir, dir, base)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Exists reports whether the asset's backing file is still on disk.
func (l *AssetLibrary) Exists(assetPath string) bool {
	info, err := os.Stat(assetPath)
	return err == nil && !info.IsDir()
}
