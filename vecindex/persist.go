// Copyright 2025 Avallon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vecindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avallon/claimlens/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Artifact file names within an index directory.
const (
	VectorsFile  = "vectors.mus"
	MetaFile     = "meta.json"
	ManifestFile = "manifest.json"
)

// Manifest identifies an index snapshot: which embedding model produced the
// vectors, their dimension and count, and a fingerprint of the source corpus.
// The retriever refuses to serve a snapshot whose model does not match its
// own embedder, since mismatched embedders produce meaningless distances.
//
// VectorsFingerprint and MetaFingerprint pin the exact artifact bytes the
// manifest was written for. The manifest is published last, so a reader that
// catches a snapshot mid-replacement sees artifacts that fail the
// fingerprint check instead of a silent row-to-metadata misjoin.
type Manifest struct {
	Model              string    `json:"model"`
	Dimension          int       `json:"dimension"`
	Count              int       `json:"count"`
	CorpusFingerprint  core.ID   `json:"corpus_fingerprint"`
	VectorsFingerprint core.ID   `json:"vectors_fingerprint"`
	MetaFingerprint    core.ID   `json:"meta_fingerprint"`
	CreatedAt          time.Time `json:"created_at"`
}

var vectorRowMUS = ord.NewSliceSer[float32](raw.Float32)

// Save persists the index into dir as three artifacts: raw vectors, metadata
// and a manifest. All files are written to temporary names first and renamed
// into place only after every write succeeded, so a reader never observes a
// half-written file and a failed save leaves any previous snapshot
// untouched. The manifest is renamed last and fingerprints the other two
// artifacts, so Load rejects a directory caught between renames even when
// the old and new snapshots share row count and dimension.
func Save(ix *Index, dir string, manifest Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	manifest.Dimension = ix.Dim()
	manifest.Count = ix.Len()

	vectorsData := marshalVectors(ix)

	metas := make([]core.CaseMeta, ix.Len())
	for row := range metas {
		metas[row] = ix.entries[row].Meta
	}
	metaData, err := json.Marshal(metas)
	if err != nil {
		return err
	}

	manifest.VectorsFingerprint = core.IDFromContent(string(vectorsData))
	manifest.MetaFingerprint = core.IDFromContent(string(metaData))

	manifestData, err := json.Marshal(&manifest)
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{VectorsFile, vectorsData},
		{MetaFile, metaData},
		{ManifestFile, manifestData},
	}

	tmpNames := make([]string, len(files))
	for i, f := range files {
		tmp := filepath.Join(dir, f.name+".tmp")
		if err := os.WriteFile(tmp, f.data, 0o644); err != nil {
			removeAll(tmpNames[:i])
			return err
		}
		tmpNames[i] = tmp
	}

	for i, f := range files {
		if err := os.Rename(tmpNames[i], filepath.Join(dir, f.name)); err != nil {
			removeAll(tmpNames[i:])
			return err
		}
	}

	return nil
}

// Load reads a persisted snapshot from dir and validates it before returning.
// Vector data and metadata must match the manifest's artifact fingerprints
// and all three must agree on row count and dimension; any disagreement
// fails with ErrCorruptIndex and no index is returned.
func Load(dir string) (*Index, Manifest, error) {
	var manifest Manifest

	manifestData, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, manifest, err
	}
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, manifest, fmt.Errorf("%w: manifest: %w", ErrCorruptIndex, err)
	}

	metaData, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, manifest, err
	}
	var metas []core.CaseMeta
	if err := json.Unmarshal(metaData, &metas); err != nil {
		return nil, manifest, fmt.Errorf("%w: metadata: %w", ErrCorruptIndex, err)
	}

	vectorsData, err := os.ReadFile(filepath.Join(dir, VectorsFile))
	if err != nil {
		return nil, manifest, err
	}

	// Reject artifacts from different snapshot generations before looking
	// inside them; a torn replacement can pair same-shape files that would
	// otherwise load with misjoined rows.
	if got := core.IDFromContent(string(vectorsData)); got != manifest.VectorsFingerprint {
		return nil, manifest, fmt.Errorf("%w: vector data does not match the manifest fingerprint",
			ErrCorruptIndex)
	}
	if got := core.IDFromContent(string(metaData)); got != manifest.MetaFingerprint {
		return nil, manifest, fmt.Errorf("%w: metadata does not match the manifest fingerprint",
			ErrCorruptIndex)
	}

	vectors, dim, err := unmarshalVectors(vectorsData)
	if err != nil {
		return nil, manifest, err
	}

	if len(vectors) != len(metas) {
		return nil, manifest, fmt.Errorf("%w: %d vectors but %d metadata entries",
			ErrCorruptIndex, len(vectors), len(metas))
	}
	if len(vectors) != manifest.Count {
		return nil, manifest, fmt.Errorf("%w: manifest declares %d rows, found %d",
			ErrCorruptIndex, manifest.Count, len(vectors))
	}
	if len(vectors) > 0 && dim != manifest.Dimension {
		return nil, manifest, fmt.Errorf("%w: manifest declares dimension %d, found %d",
			ErrCorruptIndex, manifest.Dimension, dim)
	}

	entries := make([]Entry, len(vectors))
	for row := range vectors {
		entries[row] = Entry{Vector: vectors[row], Meta: metas[row]}
	}

	ix, err := Build(entries)
	if err != nil {
		return nil, manifest, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	return ix, manifest, nil
}

// marshalVectors encodes the vector rows: a varint count and dimension
// header followed by each row as a float32 slice.
func marshalVectors(ix *Index) []byte {
	size := varint.Int.Size(ix.Len()) + varint.Int.Size(ix.Dim())
	for _, entry := range ix.entries {
		size += vectorRowMUS.Size(entry.Vector)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(ix.Len(), buf)
	n += varint.Int.Marshal(ix.Dim(), buf[n:])
	for _, entry := range ix.entries {
		n += vectorRowMUS.Marshal(entry.Vector, buf[n:])
	}
	return buf
}

func unmarshalVectors(data []byte) (vectors [][]float32, dim int, err error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: vector header: %w", ErrCorruptIndex, err)
	}
	dim, n1, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: vector header: %w", ErrCorruptIndex, err)
	}
	n += n1
	if count < 0 || dim < 0 {
		return nil, 0, fmt.Errorf("%w: negative vector header", ErrCorruptIndex)
	}

	vectors = make([][]float32, count)
	for row := 0; row < count; row++ {
		vector, n1, err := vectorRowMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: vector row %d: %w", ErrCorruptIndex, row, err)
		}
		if len(vector) != dim {
			return nil, 0, fmt.Errorf("%w: vector row %d has dimension %d, want %d",
				ErrCorruptIndex, row, len(vector), dim)
		}
		n += n1
		vectors[row] = vector
	}

	if n != len(data) {
		return nil, 0, fmt.Errorf("%w: %d trailing bytes after vector data",
			ErrCorruptIndex, len(data)-n)
	}
	return vectors, dim, nil
}

func removeAll(paths []string) {
	for _, path := range paths {
		if path != "" {
			os.Remove(path)
		}
	}
}
