package source

import (
	"cmp"
	"slices"
)

// FormatGroup is one format category with the item's files in that category.
type FormatGroup struct {
	Category string `json:"category"`
	Files    []File `json:"files"`
}

// Formats groups the item's files by category, sorted by file count
// descending so the most populated format appears first.
func (it *Item) Formats() []FormatGroup {
	byCategory := make(map[string][]File)
	for _, f := range it.Files {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	groups := make([]FormatGroup, 0, len(byCategory))
	for cat, files := range byCategory {
		groups = append(groups, FormatGroup{Category: cat, Files: files})
	}
	slices.SortFunc(groups, func(a, b FormatGroup) int {
		if c := cmp.Compare(len(b.Files), len(a.Files)); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return groups
}

// FilesIn returns the item's files in the given category.
func (it *Item) FilesIn(category string) []File {
	var files []File
	for _, f := range it.Files {
		if f.Category == category {
			files = append(files, f)
		}
	}
	return files
}

// FindFile returns the file with the given name, if present.
func (it *Item) FindFile(name string) (File, bool) {
	for _, f := range it.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}
