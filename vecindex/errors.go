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

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from the
	// index dimension. This is a configuration error: it means the embedder
	// used for the query is not the one used to build the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidK indicates a search with k <= 0.
	ErrInvalidK = errors.New("k must be positive")

	// ErrCorruptIndex indicates persisted index artifacts that disagree with
	// each other or with their manifest. A corrupt index is never partially
	// loaded.
	ErrCorruptIndex = errors.New("corrupt index")
)
