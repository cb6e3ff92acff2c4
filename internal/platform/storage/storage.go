// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
Package storage provides a key-based blob store with directory semantics for
comic assets (covers and chapter page images).

Keys are slash-separated and rooted at a configured base, mirroring the
public URL layout (e.g. "comics/15-naruto/cover.jpg"). The comic lifecycle
relies on three directory-level guarantees:

  - MoveDir renames a whole comic folder atomically when a slug changes.
  - DeleteDir removes a comic folder and everything nested beneath it.
  - Exists answers for files and folders alike, so rename can no-op safely.

The interface-first design keeps an object-store backend possible; the local
disk implementation lives in [Disk].
*/
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that are absolute, empty, or attempt
// to traverse outside the store root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Store is the blob-storage contract consumed by the comic lifecycle.
type Store interface {

	/*
		Exists reports whether a file or directory is present at key.

		Parameters:
		  - context: context.Context
		  - key: string (slash-separated storage key)

		Returns:
		  - bool: Presence of the key
		  - error: I/O failures other than absence
	*/
	Exists(context context.Context, key string) (bool, error)

	/*
		WriteFile stores the reader's contents at key, creating parent
		directories as needed and truncating any existing file.

		Parameters:
		  - context: context.Context
		  - key: string (destination file key)
		  - data: io.Reader (file contents)

		Returns:
		  - error: Write or key validation failures
	*/
	WriteFile(context context.Context, key string, data io.Reader) error

	/*
		DeleteFile removes the single file at key. Absence is not an error.

		Parameters:
		  - context: context.Context
		  - key: string (file key)

		Returns:
		  - error: Removal failures
	*/
	DeleteFile(context context.Context, key string) error

	/*
		MoveDir renames the directory at oldKey to newKey.

		Parameters:
		  - context: context.Context
		  - oldKey: string (existing directory key)
		  - newKey: string (destination directory key)

		Returns:
		  - error: Rename failures, including a missing source
	*/
	MoveDir(context context.Context, oldKey, newKey string) error

	/*
		DeleteDir recursively removes the directory at key and all nested
		files. Absence is not an error.

		Parameters:
		  - context: context.Context
		  - key: string (directory key)

		Returns:
		  - error: Removal failures
	*/
	DeleteDir(context context.Context, key string) error
}
