// Package telemetry assembles the per-image diagnostic record consumed by
// callers: the statistics pass, the synthesized findings and the display
// readouts, combined into one deterministic Telemetry value.
//
// Analyze is stateless. Two images (for example an original and its processed
// rendition) can be analysed concurrently with Compare. History is the one
// stateful type here: an append-only log of analysis results, keyed by an ID
// per analysis call, owned by whichever surface orchestrates revisions.
package telemetry
