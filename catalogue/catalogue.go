// Package catalogue discovers launchable game programs inside a built
// partition tree, resolves each one's display name, and renders the
// HDMENU.CSV launcher catalogue plus screenshot lookups, per spec §4.7.
//
// Grounded on dargueta-disko's CSV-backed disk geometry catalog
// (disks/geometries.go, which used gocarina/gocsv to load a table of known
// floppy formats); here the same library runs in the opposite direction,
// marshaling discovered games instead of unmarshaling a fixture table.
package catalogue

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/mkhdmenu/atarihd/shortname"
)

// knownExecutables lists the PPera-scheme main-executable names, in the
// priority order a directory is checked against.
var knownExecutables = []string{"RUNME.TOS", "RUNFALC.TOS", "START.TOS", "START2M.TOS", "START.PRG"}

// Game is one discovered launchable program.
type Game struct {
	// Drive is the partition letter ('C'..'F') this game lives on.
	Drive byte

	// DirPath is the backslash path (drive-relative) to the game's directory.
	DirPath string

	// DirName is DirPath's last component: the name used for link-table
	// lookup and as the screenshot archive key.
	DirName string

	// Executable is the child file name identified as the game's entry
	// point (e.g. "FOO.PRG" or "RUNME.TOS").
	Executable string
}

// execPath returns the full drive-relative path to the game's executable.
func (g Game) execPath() string {
	if g.DirPath == "" {
		return g.Executable
	}
	return g.DirPath + `\` + g.Executable
}

// Discover walks tree and returns every directory identified as a game by
// the Klapauzius or PPera scheme, drive-tagged with drive.
func Discover(tree *fsnode.Tree, drive byte) []Game {
	var games []Game
	tree.Walk(func(path string, node *fsnode.Node, depth int) {
		if !node.IsDir() {
			return
		}
		exec, ok := findExecutable(node)
		if !ok {
			return
		}
		games = append(games, Game{
			Drive:      drive,
			DirPath:    path,
			DirName:    node.Name,
			Executable: exec,
		})
	})
	return games
}

// findExecutable checks dir's children against the Klapauzius scheme first
// (an X.PRG matching dir's own name), then the PPera scheme (the first
// present name from knownExecutables, checked in priority order).
func findExecutable(dir *fsnode.Node) (string, bool) {
	if dir.Name != "" {
		for _, c := range dir.Dir.Children {
			if c.IsDir() {
				continue
			}
			base, ext := shortname.Split(c.Name)
			if trimPadding(base[:]) == dir.Name && trimPadding(ext[:]) == "PRG" {
				return c.Name, true
			}
		}
	}

	for _, name := range knownExecutables {
		for _, c := range dir.Dir.Children {
			if !c.IsDir() && c.Name == name {
				return c.Name, true
			}
		}
	}

	return "", false
}

func trimPadding(b []byte) string {
	return strings.TrimRight(string(b), " ")
}

// NameMapping is an explicit display-name override, matched by path prefix.
type NameMapping struct {
	PathPrefix string
	Display    string
}

// LinkMapping is a display-name override keyed by a game's directory name.
type LinkMapping struct {
	DirName string
	Display string
}

// ResolveDisplayName picks g's catalogue display name in the priority order
// spec §4.7 requires: explicit path-prefix mapping, then link mapping by
// directory name, then the directory name itself.
func ResolveDisplayName(g Game, explicit []NameMapping, links []LinkMapping) string {
	for _, m := range explicit {
		if strings.HasPrefix(g.DirPath, m.PathPrefix) {
			return m.Display
		}
	}
	for _, l := range links {
		if l.DirName == g.DirName {
			return l.Display
		}
	}
	return g.DirName
}

// catalogueRow is the two-column shape gocsv marshals; field names don't
// matter since the CSV is written without a header row.
type catalogueRow struct {
	Display string `csv:"display"`
	Target  string `csv:"target"`
}

func init() {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = ';'
		w.UseCRLF = true
		return gocsv.NewSafeCSVWriter(w)
	})
}

// BuildCSV renders games into the HDMENU.CSV byte contents: one
// "<display-name>;<drive>:\<path>" line per game, CRLF-terminated, encoded
// as Latin-1. Latin-1 is a direct 1:1 mapping from the low 256 Unicode code
// points, so no charset library is wired in for it; see DESIGN.md.
func BuildCSV(games []Game, explicit []NameMapping, links []LinkMapping) ([]byte, error) {
	rows := make([]*catalogueRow, len(games))
	for i, g := range games {
		rows[i] = &catalogueRow{
			Display: ResolveDisplayName(g, explicit, links),
			Target:  fmt.Sprintf("%c:\\%s", g.Drive, g.execPath()),
		}
	}

	var buf bytes.Buffer
	if err := gocsv.MarshalWithoutHeaders(rows, &buf); err != nil {
		return nil, err
	}
	return toLatin1(buf.Bytes()), nil
}

// toLatin1 re-encodes UTF-8 text as single-byte Latin-1, substituting '?'
// for any code point outside the Latin-1 range. Paths are already 8.3
// ASCII; display names from caller-supplied mappings are not restricted.
func toLatin1(utf8Bytes []byte) []byte {
	runes := []rune(string(utf8Bytes))
	out := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			r = '?'
		}
		out[i] = byte(r)
	}
	return out
}

// ScreenshotKey returns the entry name a game's screenshot is expected
// under inside the caller-supplied screenshot archive, per spec §4.7.
func ScreenshotKey(gameName string) string {
	if strings.Contains(gameName, "/") {
		return gameName + "/" + gameName + ".NEO"
	}
	letter := strings.ToLower(gameName[:1])
	return letter + "/" + gameName + "/" + gameName + ".NEO"
}
