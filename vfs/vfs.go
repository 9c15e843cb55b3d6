// Package vfs implements the koma shell's inode-structured virtual
// filesystem: a hierarchical file/directory store over a transactional
// key/value backend, with POSIX-style error kinds (spec.md §4.1).
package vfs

import (
	"path"
	"strings"
	"time"
)

// EntryType distinguishes files from directories in Stat/Readdir results.
type EntryType string

const (
	TypeFile EntryType = "file"
	TypeDir  EntryType = "directory"
)

// Info is the result of Stat.
type Info struct {
	Type  EntryType
	Size  int
	Ctime time.Time
	Mtime time.Time
}

// DirEntry is one row of a Readdir result.
type DirEntry struct {
	Name  string
	Type  EntryType
	Size  int
	Ctime time.Time
	Mtime time.Time
}

// seedDirs are created on first open (spec.md §4.1 "Initialisation").
var seedDirs = []string{
	"/", "/home", "/tmp", "/usr", "/usr/bin", "/usr/share",
	"/usr/share/man", "/etc", "/mnt", "/proc",
}

// Store is the koma virtual filesystem.
type Store struct {
	backend *kvBackend
	now     func() time.Time
}

// Open creates a Store. If persistPath is non-empty, the store loads an
// existing snapshot from that path (if any) and persists every
// subsequent mutation back to it atomically; if persistPath is empty the
// store is purely in-memory. On first open (nothing to load, or the
// store is empty) the seed set is created; a subsequent open of a
// populated store does not re-seed (spec.md §4.1).
func Open(persistPath string) (*Store, error) {
	b := newBackend()
	if persistPath != "" {
		if err := b.loadFrom(persistPath); err != nil {
			return nil, err
		}
	}
	s := &Store{backend: b, now: time.Now}
	if len(b.records) == 0 {
		if err := s.seed(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) seed() error {
	return s.backend.Txn(func(tx *txn) error {
		for _, p := range seedDirs {
			parent, name := splitPath(p)
			now := s.now()
			tx.put(record{
				Kind:   kindDir,
				Path:   p,
				Parent: parent,
				Name:   name,
				Ctime:  now,
				Mtime:  now,
			})
		}
		return nil
	})
}

// splitPath returns the parent directory and base name of an absolute,
// already-clean path. The root's parent is "" (spec.md §3: "Root `/` has
// parent `null`").
func splitPath(p string) (parent, name string) {
	if p == "/" {
		return "", "/"
	}
	dir, base := path.Split(p)
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		dir = "/"
	}
	return dir, base
}

// clean normalizes an absolute path: collapses "." / ".." / duplicate
// slashes, always starting with "/", with no trailing slash except at
// the root.
func clean(p string) string {
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	c := path.Clean(p)
	if c == "." {
		c = "/"
	}
	return c
}

func toInfo(r record) Info {
	t := TypeFile
	if r.Kind == kindDir {
		t = TypeDir
	}
	return Info{Type: t, Size: r.Size, Ctime: r.Ctime, Mtime: r.Mtime}
}

// ReadFile returns the text content of the file at path.
func (s *Store) ReadFile(p string) (string, error) {
	p = clean(p)
	var content string
	err := s.backend.View(func(tx *txn) error {
		r, ok := tx.get(p)
		if !ok {
			return newErr(ENOENT, p, "no such file")
		}
		if r.Kind == kindDir {
			return newErr(EISDIR, p, "is a directory")
		}
		content = r.Content
		return nil
	})
	return content, err
}

// WriteFile creates or overwrites the file at path with text.
func (s *Store) WriteFile(p, text string) error {
	p = clean(p)
	return s.backend.Txn(func(tx *txn) error {
		parent, name := splitPath(p)
		if name == "/" {
			return newErr(EISDIR, p, "cannot write to root")
		}
		pr, ok := tx.get(parent)
		if !ok {
			return newErr(ENOENT, parent, "parent does not exist")
		}
		if pr.Kind != kindDir {
			return newErr(ENOTDIR, parent, "parent is not a directory")
		}
		if existing, ok := tx.get(p); ok && existing.Kind == kindDir {
			return newErr(EISDIR, p, "is a directory")
		}
		now := s.now()
		ctime := now
		if existing, ok := tx.get(p); ok {
			ctime = existing.Ctime
		}
		tx.put(record{
			Kind:    kindFile,
			Path:    p,
			Parent:  parent,
			Name:    name,
			Ctime:   ctime,
			Mtime:   now,
			Size:    len(text),
			Content: text,
		})
		return nil
	})
}

// Mkdir creates a new, empty directory. It is not recursive: the parent
// must already exist.
func (s *Store) Mkdir(p string) error {
	p = clean(p)
	return s.backend.Txn(func(tx *txn) error {
		parent, name := splitPath(p)
		if _, ok := tx.get(p); ok {
			return newErr(EEXIST, p, "already exists")
		}
		pr, ok := tx.get(parent)
		if !ok {
			return newErr(ENOENT, parent, "parent does not exist")
		}
		if pr.Kind != kindDir {
			return newErr(ENOTDIR, parent, "parent is not a directory")
		}
		now := s.now()
		tx.put(record{
			Kind:   kindDir,
			Path:   p,
			Parent: parent,
			Name:   name,
			Ctime:  now,
			Mtime:  now,
		})
		return nil
	})
}

// Unlink removes a file, or a directory only if it is empty. The root
// cannot be removed.
func (s *Store) Unlink(p string) error {
	p = clean(p)
	return s.backend.Txn(func(tx *txn) error {
		if p == "/" {
			return newErr(EISDIR, p, "cannot remove root")
		}
		r, ok := tx.get(p)
		if !ok {
			return newErr(ENOENT, p, "no such file or directory")
		}
		if r.Kind == kindDir && len(tx.childPaths(p)) > 0 {
			return newErr(ENOTEMPTY, p, "directory not empty")
		}
		tx.delete(p)
		return nil
	})
}

// UnlinkRecursive removes p and, if it is a directory, everything
// beneath it.
func (s *Store) UnlinkRecursive(p string) error {
	p = clean(p)
	return s.backend.Txn(func(tx *txn) error {
		if p == "/" {
			return newErr(EISDIR, p, "cannot remove root")
		}
		if _, ok := tx.get(p); !ok {
			return newErr(ENOENT, p, "no such file or directory")
		}
		removeSubtree(tx, p)
		return nil
	})
}

func removeSubtree(tx *txn, p string) {
	for _, child := range tx.childPaths(p) {
		removeSubtree(tx, child)
	}
	tx.delete(p)
}

// Stat returns metadata about the entry at path.
func (s *Store) Stat(p string) (Info, error) {
	p = clean(p)
	var info Info
	err := s.backend.View(func(tx *txn) error {
		r, ok := tx.get(p)
		if !ok {
			return newErr(ENOENT, p, "no such file or directory")
		}
		info = toInfo(r)
		return nil
	})
	return info, err
}

// Readdir lists the entries of a directory in insertion order.
func (s *Store) Readdir(p string) ([]DirEntry, error) {
	p = clean(p)
	var entries []DirEntry
	err := s.backend.View(func(tx *txn) error {
		r, ok := tx.get(p)
		if !ok {
			return newErr(ENOENT, p, "no such file or directory")
		}
		if r.Kind != kindDir {
			return newErr(ENOTDIR, p, "not a directory")
		}
		for _, childPath := range tx.childPaths(p) {
			c, ok := tx.get(childPath)
			if !ok {
				continue
			}
			entries = append(entries, DirEntry{
				Name:  c.Name,
				Type:  toInfo(c).Type,
				Size:  c.Size,
				Ctime: c.Ctime,
				Mtime: c.Mtime,
			})
		}
		return nil
	})
	return entries, err
}

// Move renames oldPath to newPath. Callers that want "move into
// directory" semantics must pre-compose newPath as
// newPath + "/" + basename(oldPath) themselves (spec.md §4.1).
func (s *Store) Move(oldPath, newPath string) error {
	oldPath, newPath = clean(oldPath), clean(newPath)
	return s.backend.Txn(func(tx *txn) error {
		r, ok := tx.get(oldPath)
		if !ok {
			return newErr(ENOENT, oldPath, "no such file or directory")
		}
		newParent, newName := splitPath(newPath)
		pr, ok := tx.get(newParent)
		if !ok {
			return newErr(ENOENT, newParent, "parent does not exist")
		}
		if pr.Kind != kindDir {
			return newErr(ENOTDIR, newParent, "parent is not a directory")
		}
		moveSubtree(tx, r, oldPath, newPath, newParent, newName)
		return nil
	})
}

func moveSubtree(tx *txn, r record, oldPath, newPath, newParent, newName string) {
	children := tx.childPaths(oldPath)
	tx.delete(oldPath)
	r.Path, r.Parent, r.Name = newPath, newParent, newName
	tx.put(r)
	for _, childOld := range children {
		cr, _ := tx.get(childOld)
		childNew := newPath + "/" + cr.Name
		moveSubtree(tx, cr, childOld, childNew, newPath, cr.Name)
	}
}

// CopyFile copies the content of a single file from src to dst.
func (s *Store) CopyFile(src, dst string) error {
	src, dst = clean(src), clean(dst)
	return s.backend.Txn(func(tx *txn) error {
		r, ok := tx.get(src)
		if !ok {
			return newErr(ENOENT, src, "no such file")
		}
		if r.Kind == kindDir {
			return newErr(EISDIR, src, "is a directory")
		}
		parent, name := splitPath(dst)
		pr, ok := tx.get(parent)
		if !ok {
			return newErr(ENOENT, parent, "parent does not exist")
		}
		if pr.Kind != kindDir {
			return newErr(ENOTDIR, parent, "parent is not a directory")
		}
		if existing, ok := tx.get(dst); ok && existing.Kind == kindDir {
			return newErr(EISDIR, dst, "is a directory")
		}
		now := s.now()
		tx.put(record{
			Kind:    kindFile,
			Path:    dst,
			Parent:  parent,
			Name:    name,
			Ctime:   now,
			Mtime:   now,
			Size:    r.Size,
			Content: r.Content,
		})
		return nil
	})
}
