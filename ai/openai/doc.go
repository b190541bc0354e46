// Package openai implements the ai interfaces against OpenAI-compatible APIs.
//
// The implementations work with any endpoint that speaks the OpenAI wire
// protocol, including local servers such as Ollama, LocalAI and vLLM. The
// extractor and classifier request strict JSON output, strip markdown fences,
// repair common formatting defects, and retry parsing a bounded number of
// times before giving up with ai.ErrMalformedResponse.
package openai
