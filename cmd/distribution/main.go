package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/joinemm/quotegame/internal/storage"
)

// Draws from the award asset pool repeatedly and prints how the draws
// land per weight bucket, to sanity-check a pool layout before using it.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <asset-dir> [draws]\n", os.Args[0])
		os.Exit(1)
	}

	dir := os.Args[1]
	draws := 10000
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "Invalid draw count %q\n", os.Args[2])
			os.Exit(1)
		}
		draws = n
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	assets := storage.NewAssetLibrary(dir, rng)

	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		path, err := assets.PickRandom()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Draw failed: %v\n", err)
			os.Exit(1)
		}
		// bucket is the weight directory the asset came from
		counts[filepath.Base(filepath.Dir(path))]++
	}

	buckets := make([]string, 0, len(counts))
	for bucket := range counts {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)

	fmt.Printf("%d draws from %s:\n", draws, dir)
	for _, bucket := range buckets {
		n := counts[bucket]
		fmt.Printf("  %-8s %6d  (%.2f%%)\n", bucket, n, 100*float64(n)/float64(draws))
	}
}
