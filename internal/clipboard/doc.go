// Package clipboard produces a single concatenated text snapshot of a
// directory and places it on the system clipboard.
//
// Every readable text file under the root is appended with a separator
// line and a relative-path header, so the whole tree can be pasted into
// a chat or document in one go. Binary files are detected by a null-byte
// probe and skipped.
package clipboard
