// Package content produces the app record shown in the workspace after a prompt is submitted.
//
// A [Generator] never fails. The Gemini-backed [GenAI] asks for a JSON object matching
// [Record]; any transport, decoding or validation error is logged and replaced by [Fallback].
// Without an API key [New] returns the offline [Mock].
package content
