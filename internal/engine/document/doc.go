// Package document defines the line-oriented text model that the wrap
// index reads from, and a simple slice-of-lines implementation of it.
//
// Locations address text by line index and rune column. A column may be
// one past the last rune of its line, which is where the caret rests
// after the final character.
package document
