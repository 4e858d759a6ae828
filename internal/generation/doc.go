// Package generation defines the boundary between the application core
// and external structured-generation services. The core depends only on
// the Generator interface and the sentinel errors declared here;
// concrete LLM integrations live under internal/platform.
package generation
