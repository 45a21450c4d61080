// Package storage persists extracted article text as flat files.
//
// Each article becomes one .txt file in the output directory. The
// filename is derived deterministically from the URL path, so re-crawling
// the same page overwrites its previous file instead of duplicating it.
// There is no manifest or index: the files themselves are the archive.
//
// Known limitation: names longer than the cap are truncated, so two very
// long titles sharing their first 200 characters collide and the later
// write wins. Accepted for simplicity; wiki titles of that length are
// pathological.
package storage
