// Package importer translates already-fetched external inputs (raw byte
// blobs, directory listings, ZIP archive listings) into insertions on an
// fsnode.Tree, per spec §4.2. It never touches a network or the host
// filesystem itself; fetching and decoding are the caller's job.
//
// Grounded on dargueta-disko's driver-level file creation helpers
// (drivers/common), generalized here from "write bytes through a mounted
// driver" to "insert bytes into an in-memory tree ahead of serialization".
package importer

import (
	"strings"

	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/mkhdmenu/atarihd/hderrors"
	"github.com/mkhdmenu/atarihd/shortname"
)

// knownExecutables are the PPera-scheme main-executable names a ZIP's
// destination can be inferred from, checked in this priority order.
var knownExecutables = []string{"RUNME.TOS", "RUNFALC.TOS", "START.TOS", "START2M.TOS", "START.PRG"}

// ImportRaw inserts a single raw byte payload at destination. If destination
// ends in a backslash, or already names a directory in tree, basename
// (uppercased per 8.3 rules) is appended to form the final path.
func ImportRaw(tree *fsnode.Tree, destination string, data []byte, basename string, date dostime.Date, tm dostime.Time) error {
	dest := destination
	if strings.HasSuffix(dest, `\`) || namesExistingDir(tree, dest) {
		name, err := shortname.Normalize(basename)
		if err != nil {
			return err
		}
		dest = strings.TrimRight(dest, `\`) + `\` + name
	}
	return tree.Insert(dest, fsnode.NewFile("_", data, date, tm))
}

func namesExistingDir(tree *fsnode.Tree, path string) bool {
	node := tree.Lookup(strings.TrimRight(path, `\`))
	return node != nil && node.IsDir()
}

// DirEntry is one file or subdirectory inside a directory listing being
// imported. IsDir distinguishes a subdirectory (whose Children are walked
// recursively) from a file (whose Data is inserted directly).
type DirEntry struct {
	Name     string
	IsDir    bool
	Data     []byte
	Children []DirEntry
	Date     dostime.Date
	Time     dostime.Time
}

// ImportDirectory recursively inserts a directory listing's entries under
// destPrefix, preserving subdirectory structure. All names are uppercased
// by fsnode.Tree.Insert's own normalization.
func ImportDirectory(tree *fsnode.Tree, destPrefix string, entries []DirEntry) error {
	for _, e := range entries {
		if err := importEntry(tree, destPrefix, e); err != nil {
			return err
		}
	}
	return nil
}

func importEntry(tree *fsnode.Tree, prefix string, e DirEntry) error {
	path := e.Name
	if prefix != "" {
		path = prefix + `\` + e.Name
	}
	if e.IsDir {
		if err := tree.Insert(path, fsnode.NewDir("_", e.Date, e.Time)); err != nil {
			return err
		}
		return ImportDirectory(tree, path, e.Children)
	}
	return tree.Insert(path, fsnode.NewFile("_", e.Data, e.Date, e.Time))
}

// ZipEntry is one entry from an already-opened ZIP archive's listing. Name
// uses '/' separators, as ZIP archives do; directory entries end in '/'.
type ZipEntry struct {
	Name string
	Data []byte
	Date dostime.Date
	Time dostime.Time
}

// ZipImportOptions controls destination inference for ImportZip. At most
// one of Destination or ProgramName is expected to be set by the caller;
// if neither is, the destination is inferred from the archive's own
// contents.
type ZipImportOptions struct {
	// Destination, if non-empty, is used verbatim as the insertion prefix.
	Destination string

	// ProgramName, if non-empty and Destination is empty, yields prefix
	// GAMES\<ProgramName>.
	ProgramName string

	// ArchiveBasename names the archive file itself (sans extension), used
	// when a known executable is found with no embedded directory.
	ArchiveBasename string
}

// ImportZip inserts every non-directory entry from entries into tree, under
// a prefix resolved per spec §4.2's destination-inference rules. Archive
// paths are rewritten from '/' to '\' at insertion.
func ImportZip(tree *fsnode.Tree, entries []ZipEntry, opts ZipImportOptions) error {
	prefix, err := inferZipDestination(entries, opts)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		rel := strings.ReplaceAll(e.Name, "/", `\`)
		dest := rel
		if prefix != "" {
			dest = strings.TrimRight(prefix, `\`) + `\` + rel
		}
		if err := tree.Insert(dest, fsnode.NewFile("_", e.Data, e.Date, e.Time)); err != nil {
			return err
		}
	}
	return nil
}

func inferZipDestination(entries []ZipEntry, opts ZipImportOptions) (string, error) {
	if opts.Destination != "" {
		return opts.Destination, nil
	}
	if opts.ProgramName != "" {
		return `GAMES\` + opts.ProgramName, nil
	}

	if entry, ok := findByNames(entries, knownExecutables); ok {
		if strings.Contains(entry.Name, "/") {
			return `GAMES`, nil
		}
		return `GAMES\` + opts.ArchiveBasename, nil
	}

	if entry, ok := findBySuffix(entries, ".PRG"); ok {
		return `GAMES\` + prgStem(entry.Name), nil
	}

	return "", hderrors.ErrNoProgramPath
}

func findByNames(entries []ZipEntry, names []string) (ZipEntry, bool) {
	for _, name := range names {
		for _, e := range entries {
			if strings.HasSuffix(e.Name, "/") {
				continue
			}
			if strings.EqualFold(lastSegment(e.Name), name) {
				return e, true
			}
		}
	}
	return ZipEntry{}, false
}

func findBySuffix(entries []ZipEntry, suffix string) (ZipEntry, bool) {
	for _, e := range entries {
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		if strings.HasSuffix(strings.ToUpper(e.Name), suffix) {
			return e, true
		}
	}
	return ZipEntry{}, false
}

func lastSegment(name string) string {
	idx := strings.LastIndex(name, "/")
	return name[idx+1:]
}

func prgStem(name string) string {
	base := lastSegment(name)
	idx := strings.LastIndex(base, ".")
	if idx == -1 {
		return strings.ToUpper(base)
	}
	return strings.ToUpper(base[:idx])
}
