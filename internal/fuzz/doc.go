// Package fuzztests houses Go fuzz harnesses for the lexical front-end.
// They feed arbitrary bytes through a reader and the basic tokenizer and
// check that nothing panics and that the emitted ranges still tile the
// input.
package fuzztests
