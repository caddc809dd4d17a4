// Package edurag provides a queue-based research crawler for building
// education-domain RAG datasets. Given a seed query it runs a localized
// search plan, discovers related queries through Gemini and provider
// heuristics, extracts the content of the most relevant results, and
// aggregates the findings as Markdown sections plus fixed-size chunks
// ready for downstream ingestion.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., tavily/, gemini/, sqlite/).
package edurag
