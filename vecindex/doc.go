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


// Package vecindex provides an exact nearest-neighbor index over embedding
// vectors of past claims.
//
// The index is a flat structure searched by exhaustive squared-Euclidean
// scan, which guarantees exact results at O(N·D) per query. Each stored
// vector is bound to its case metadata inside a single Entry, so the
// row-order join between vectors and metadata cannot drift; the two-artifact
// split (raw vectors plus JSON metadata) appears only on disk.
//
// Snapshots are immutable. Save writes the vectors, metadata and manifest
// behind temp-file renames so a concurrent loader never sees a half-written
// pair, and Load refuses any snapshot whose artifacts disagree.
package vecindex
