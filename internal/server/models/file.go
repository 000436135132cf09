package models

import "time"

// Accepted file types.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// RootParentID marks entries that live at the top level. It is distinct from
// "no parent filter" when listing: a query for ParentID == RootParentID
// returns only top-level entries, while an empty filter returns everything.
const RootParentID = "0"

// File describes a stored file, image, or folder. Entries form a tree via
// ParentID; a parent must already exist as a folder when a child is created,
// and entries are never moved, so the tree stays acyclic.
type File struct {
	ID       string
	UserID   string
	Name     string
	Type     string
	ParentID string
	IsPublic bool

	// LocalPath is the blob-store path of the content. Empty for folders,
	// always set otherwise. It is never exposed to API callers.
	LocalPath string

	CreatedAt time.Time
}

// IsFolder reports whether the entry is a folder (and therefore has no blob).
func (f *File) IsFolder() bool { return f.Type == TypeFolder }
