// Package token defines the token value and the tokenizer protocol.
// Invariants:
//   - Token carries only Kind and Tag; its location travels beside it as a
//     source.Range, so tokens compare by value.
//   - Kind values are opaque here. Concrete tokenizers define their own set;
//     Unknown (-1) is reserved.
//   - A Tokenizer is fed every character exactly once, in increasing offset
//     order, and emits at most one token per call.
package token
