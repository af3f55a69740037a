package ixgest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/kinlink/errors"
)

// DefaultExtensions are the document file extensions ingested when none
// are configured.
var DefaultExtensions = []string{".htm", ".html"}

// Document is an annotated source document found on disk.
type Document struct {
	RefID int64
	Path  string
}

// RefIDFromPath reads the reference id from a file named RD<n>.<ext>,
// case-insensitively. It reports false for any other name.
func RefIDFromPath(path string) (int64, bool) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if len(stem) < 3 || !strings.EqualFold(stem[:2], "RD") {
		return 0, false
	}
	id, err := strconv.ParseInt(stem[2:], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FindDocuments walks root for reference documents with one of exts and
// returns them ordered by reference id. A single file root is returned on
// its own if its name carries a reference id.
func FindDocuments(root string, exts []string) ([]Document, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}

	var docs []Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if id, ok := RefIDFromPath(path); ok {
			docs = append(docs, Document{RefID: id, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].RefID != docs[j].RefID {
			return docs[i].RefID < docs[j].RefID
		}
		return docs[i].Path < docs[j].Path
	})
	return docs, nil
}
