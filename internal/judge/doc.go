// Package judge submits content to an LLM judge under a forced
// structured-response protocol and turns the result into a gauntlet Verdict.
//
// The protocol is strict: the judge model is instructed to respond by
// invoking exactly one tool (submit_audit) whose arguments carry the verdict
// fields. Free text is not a verdict. If the model returns no tool call,
// calls an unrecognized tool, or the payload fails shape validation, the
// evaluator reports an error (distinct from "content failed") and the
// gauntlet fails closed. There is no fallback text-parsing path.
//
// Transport-level transient failures (5xx, 429, connection errors) are
// retried once. A malformed tool call is not a transport failure and is not
// retried past that cap.
package judge
