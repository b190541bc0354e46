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


package ai

import "errors"

var (
	// ErrModelUnavailable indicates the embedding or classification model
	// could not be reached or initialized. This is fatal at startup and is
	// not retried by the services themselves.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrMalformedResponse indicates the model returned output that could
	// not be parsed into the expected structure after all repair attempts.
	ErrMalformedResponse = errors.New("malformed model response")
)
