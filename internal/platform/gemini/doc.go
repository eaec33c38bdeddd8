// Package gemini implements the generation interfaces using Google's
// Gemini API. Prompts are built from embedded templates; model output is
// required to be JSON and is validated against an embedded schema before
// it is mapped to domain drafts.
package gemini
