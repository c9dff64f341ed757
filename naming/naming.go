// Package naming turns file paths into the canonical identifiers, display
// titles, and sort ranks the rest of the assembler keys everything by.
package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSeparator is the token that marks a file as a variant of another
// item, e.g. "button--large.html".
const DefaultSeparator = "--"

// Unranked sorts after every explicitly numbered sibling.
const Unranked = int(^uint(0) >> 1)

// Name is the canonical form of a file path. For variant files ParentID
// holds the item the variant belongs to and ID is the variant's own id.
type Name struct {
	ID           string
	DisplayTitle string
	OrderRank    int
	IsVariant    bool
	ParentID     string
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	leadingDigits = regexp.MustCompile(`^[0-9]+`)
	orderPrefix   = regexp.MustCompile(`^[0-9.\-]+`)
)

// Resolve derives a canonical Name using the default variant separator.
func Resolve(path string, preserveNumbers bool) Name {
	return ResolveWith(path, DefaultSeparator, preserveNumbers)
}

// ResolveWith derives a canonical Name from any path string. It is pure
// and total: every input yields a usable Name, never an error. With
// preserveNumbers set, numeric ordering prefixes are kept in the id;
// that form is only used for directory labels that must stay ordered.
func ResolveWith(path, separator string, preserveNumbers bool) Name {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if separator != "" && strings.Contains(stem, separator) {
		parts := strings.SplitN(stem, separator, 2)
		parentID, _ := normalize(parts[0], preserveNumbers)
		id, rank := normalize(parts[1], preserveNumbers)
		if rank == Unranked {
			// Ordering prefixes sit on the parent half of the file name.
			_, rank = normalize(parts[0], false)
		}
		return Name{
			ID:           id,
			DisplayTitle: titleize(id),
			OrderRank:    rank,
			IsVariant:    true,
			ParentID:     parentID,
		}
	}

	id, rank := normalize(stem, preserveNumbers)
	return Name{
		ID:           id,
		DisplayTitle: titleize(id),
		OrderRank:    rank,
	}
}

// normalize lowercases, collapses whitespace to dashes, and (unless
// preserveNumbers is set) strips the leading run of digits, dots, and
// dashes that encodes ordering. A name that is nothing but an ordering
// prefix keeps its numerals, since an empty id would collide across
// siblings.
func normalize(s string, preserveNumbers bool) (string, int) {
	id := whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-")
	id = strings.ToLower(id)

	rank := Unranked
	if m := leadingDigits.FindString(id); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			rank = n
		}
	}

	if !preserveNumbers {
		stripped := orderPrefix.ReplaceAllString(id, "")
		if stripped != "" {
			id = stripped
		} else {
			id = strings.Trim(id, ".-")
		}
	}
	return id, rank
}

func titleize(id string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return cases.Title(language.English).String(words)
}
