package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"text2phenotype.com/seqtag/maxent"
	"text2phenotype.com/seqtag/postag"
	"text2phenotype.com/seqtag/s3client"
	"text2phenotype.com/seqtag/utils"
)

// Downloader fetches s3:// locations. *s3client.Client implements it.
type Downloader interface {
	DownloadURI(location string) ([]byte, error)
}

// Resources resolves model and dictionary locations. Relative paths are
// read from Dir, s3:// locations through Bucket. Models are loaded once.
type Resources struct {
	Dir    string
	Bucket Downloader

	mu      sync.Mutex
	models  map[string]*maxent.Model
	digests map[string]uint64
}

// read must be called with mu held.
func (r *Resources) read(location string) ([]byte, error) {
	var buf []byte
	var err error
	switch {
	case s3client.IsURI(location):
		if r.Bucket == nil {
			return nil, fmt.Errorf("no bucket configured to read %s", location)
		}
		buf, err = r.Bucket.DownloadURI(location)
	case filepath.IsAbs(location):
		buf, err = os.ReadFile(location)
	default:
		buf, err = os.ReadFile(filepath.Join(r.Dir, location))
	}
	if err != nil {
		return nil, err
	}
	if r.digests == nil {
		r.digests = make(map[string]uint64)
	}
	r.digests[location] = utils.HashBytes(buf)
	return buf, nil
}

// Version identifies the content of every model and dictionary read so far.
// It changes when a file is replaced under the same location.
func (r *Resources) Version() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	locations := make([]string, 0, len(r.digests))
	for location := range r.digests {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	parts := make([][]byte, 0, len(locations))
	for _, location := range locations {
		parts = append(parts, []byte(fmt.Sprintf("%s=%016x\n", location, r.digests[location])))
	}
	return fmt.Sprintf("%016x", utils.HashBytes(parts...))
}

func (r *Resources) Model(location string) (*maxent.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.models[location]; ok {
		return m, nil
	}
	buf, err := r.read(location)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", location, err)
	}
	m, err := maxent.LoadFromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", location, err)
	}
	if r.models == nil {
		r.models = make(map[string]*maxent.Model)
	}
	r.models[location] = m
	return m, nil
}

func (r *Resources) TagDictionary(location string) (*postag.DictionaryValidator, error) {
	r.mu.Lock()
	buf, err := r.read(location)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read tag dictionary %s: %w", location, err)
	}
	return postag.ParseTagDictionary(bytes.NewReader(buf), location)
}
