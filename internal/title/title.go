// Package title implements the "Category - Title" codec used for titles
// embedded in note names and event frontmatter.
package title

import "strings"

// Delimiter separates a category prefix from the rest of the title.
const Delimiter = " - "

// Parsed is the result of splitting a full title.
type Parsed struct {
	Category string // empty when the title carries no category prefix
	Title    string
}

// Parse splits a full title on the first occurrence of the delimiter.
// If the delimiter is absent, or the prefix before it is empty or
// whitespace, the whole string is the title and no category is reported.
func Parse(full string) Parsed {
	idx := strings.Index(full, Delimiter)
	if idx < 0 {
		return Parsed{Title: full}
	}
	prefix := full[:idx]
	if strings.TrimSpace(prefix) == "" {
		return Parsed{Title: full}
	}
	return Parsed{Category: prefix, Title: full[idx+len(Delimiter):]}
}

// Construct is the inverse of Parse: it joins category and title with the
// delimiter, omitting the delimiter when the category is absent or blank.
func Construct(category, t string) string {
	if strings.TrimSpace(category) == "" {
		return t
	}
	return category + Delimiter + t
}

// ConstructFull joins category, optional sub-category and title, matching
// the note-name shape "Category - Sub - Title".
func ConstructFull(category, subCategory, t string) string {
	if strings.TrimSpace(subCategory) == "" {
		return Construct(category, t)
	}
	return Construct(category, Construct(subCategory, t))
}
