// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs via langchaingo. It works with any server speaking the OpenAI
// wire format: Ollama, LocalAI, vLLM, or the hosted API itself.
package openai
