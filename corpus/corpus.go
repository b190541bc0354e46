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


package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/avallon/claimlens/core"
)

var (
	// ErrDuplicateCaseID indicates two corpus records share an ID.
	ErrDuplicateCaseID = errors.New("duplicate case id")

	// ErrMalformedCorpus indicates the corpus file could not be parsed.
	ErrMalformedCorpus = errors.New("malformed corpus file")
)

// Corpus is an ordered collection of labeled past claims. Record order is
// significant: it defines the row order of any index built from the corpus.
type Corpus struct {
	records []core.CaseRecord
}

// Load reads a corpus from a JSON file containing an array of case records.
// Every record is validated and IDs must be unique across the file. An empty
// array is a valid corpus.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var records []core.CaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedCorpus, path, err)
	}

	return New(records)
}

// New builds a corpus from in-memory records, validating each one and
// rejecting duplicate IDs.
func New(records []core.CaseRecord) (*Corpus, error) {
	seen := make(map[string]int, len(records))
	for i := range records {
		if err := core.ValidateCaseRecord(&records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if prev, ok := seen[records[i].ID]; ok {
			return nil, fmt.Errorf("%w: %q at records %d and %d",
				ErrDuplicateCaseID, records[i].ID, prev, i)
		}
		seen[records[i].ID] = i
	}

	return &Corpus{records: records}, nil
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	return len(c.records)
}

// Records returns the records in corpus order.
func (c *Corpus) Records() []core.CaseRecord {
	return c.records
}

// Texts returns the full transcripts in corpus order, ready for batch
// embedding.
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.records))
	for i := range c.records {
		texts[i] = c.records[i].FullText
	}
	return texts
}

// Fingerprint derives a deterministic ID for the corpus content. The same
// records in the same order always produce the same fingerprint, and the
// label distribution is included so relabeling a case changes it too.
func (c *Corpus) Fingerprint() core.ID {
	var b strings.Builder
	for i := range c.records {
		b.WriteString(c.records[i].ID)
		b.WriteByte(0)
		b.WriteString(string(c.records[i].Label))
		b.WriteByte(0)
		b.WriteString(c.records[i].FullText)
		b.WriteByte(0)
	}
	return core.IDFromContent(b.String())
}

// LabelCounts returns how many records carry each label, for reporting
// after a build.
func (c *Corpus) LabelCounts() map[core.Label]int {
	counts := make(map[core.Label]int)
	for i := range c.records {
		counts[c.records[i].Label]++
	}
	return counts
}

// LabelSummary formats label counts as a stable single-line summary.
func (c *Corpus) LabelSummary() string {
	counts := c.LabelCounts()
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, string(label))
	}
	sort.Strings(labels)

	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = fmt.Sprintf("%s=%d", label, counts[core.Label(label)])
	}
	return strings.Join(parts, " ")
}
