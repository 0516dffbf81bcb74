// Package shortname normalizes and formats legacy 8.3 DOS short names: the
// uppercase, ASCII, space-padded NAME.EXT format FAT directory entries
// require.
package shortname

import (
	"strings"

	"github.com/mkhdmenu/atarihd/hderrors"
)

// legalByte reports whether b is a legal character in an 8.3 short name,
// per the character class in the data model's naming invariant.
func legalByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case strings.IndexByte("_!#$%&'()@^`{}~-", b) >= 0:
		return true
	default:
		return false
	}
}

// Normalize uppercases name and validates it against the 8.3 character
// class, returning hderrors.ErrInvalidPath if it can't be made legal.
//
// The returned string is the bare uppercased NAME.EXT (no padding); use
// Split to get the separate 8-byte/3-byte directory-entry fields.
func Normalize(name string) (string, error) {
	upper := strings.ToUpper(name)

	base, ext, hasExt := strings.Cut(upper, ".")
	if len(base) == 0 || len(base) > 8 {
		return "", hderrors.ErrInvalidPath.WithMessage("base name must be 1-8 characters: " + name)
	}
	if hasExt && len(ext) > 3 {
		return "", hderrors.ErrInvalidPath.WithMessage("extension must be 0-3 characters: " + name)
	}

	for i := 0; i < len(base); i++ {
		if !legalByte(base[i]) {
			return "", hderrors.ErrInvalidPath.WithMessage("illegal character in base name: " + name)
		}
	}
	for i := 0; i < len(ext); i++ {
		if !legalByte(ext[i]) {
			return "", hderrors.ErrInvalidPath.WithMessage("illegal character in extension: " + name)
		}
	}

	if hasExt {
		return base + "." + ext, nil
	}
	return base, nil
}

// Split separates a normalized NAME.EXT string into its fixed-width
// directory-entry fields: 8 bytes of name, space-padded, and 3 bytes of
// extension, space-padded.
func Split(normalized string) (name [8]byte, ext [3]byte) {
	base, extension, _ := strings.Cut(normalized, ".")

	for i := range name {
		name[i] = ' '
	}
	for i := range ext {
		ext[i] = ' '
	}
	copy(name[:], base)
	copy(ext[:], extension)
	return
}

// Join reverses Split, trimming trailing spaces from each field and
// producing "NAME" or "NAME.EXT" depending on whether ext is blank.
func Join(name [8]byte, ext [3]byte) string {
	trimmedName := strings.TrimRight(string(name[:]), " ")
	trimmedExt := strings.TrimRight(string(ext[:]), " ")
	if trimmedExt == "" {
		return trimmedName
	}
	return trimmedName + "." + trimmedExt
}
