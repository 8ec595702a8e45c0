package generator

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/virtual-patient-simulator/internal/domain"
)

// ImageCatalog resolves a disease to a random illustrative image asset under
// <root>/<disease>/. Directory listings are cached in an LRU so batch
// generation does not re-scan the filesystem per patient.
type ImageCatalog struct {
	root   string
	cache  *lru.Cache
	logger *logrus.Logger
}

// NewImageCatalog creates a catalog rooted at the given directory. The root
// not existing is fine; lookups simply return no reference.
func NewImageCatalog(root string, cacheSize int, logger *logrus.Logger) (*ImageCatalog, error) {
	if cacheSize < 1 {
		cacheSize = 16
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ImageCatalog{root: root, cache: cache, logger: logger}, nil
}

// Choose returns the path of a random image asset for the disease, or the
// empty string when the catalog has none. It never fails generation.
func (c *ImageCatalog) Choose(disease domain.Disease, rng *rand.Rand) string {
	files := c.listing(disease)
	if len(files) == 0 {
		return ""
	}
	return files[rng.Intn(len(files))]
}

func (c *ImageCatalog) listing(disease domain.Disease) []string {
	if cached, ok := c.cache.Get(disease); ok {
		return cached.([]string)
	}

	dir := filepath.Join(c.root, string(disease))
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Missing catalog directory is expected for diseases without assets.
		c.cache.Add(disease, []string(nil))
		return nil
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	c.logger.WithFields(logrus.Fields{
		"disease": disease,
		"assets":  len(files),
	}).Debug("Scanned synthetic image catalog")

	c.cache.Add(disease, files)
	return files
}
