// Package cfgparse lexes the line-oriented `.cfg` configuration grammar
// described in spec §6: one command per line, semicolon-separated fields,
// `#`-prefixed comments, blank lines ignored.
//
// There is no parser-combinator or config-DSL library anywhere in the
// retrieved dependency pack to ground a heavier implementation on, so this
// is the one ambient-stack component built on bufio.Scanner alone; see
// DESIGN.md for the justification.
package cfgparse

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mkhdmenu/atarihd/hderrors"
)

// Kind identifies which grammar command a Command line was.
type Kind int

const (
	CmdImg Kind = iota
	CmdFile
	CmdGame
	CmdLink
	CmdPartition
	CmdCfg
	CmdEnd
)

// Command is one parsed configuration line. Only the fields relevant to
// Kind are populated; the rest are zero.
type Command struct {
	Kind Kind

	// img <name>;<size>
	ImageName string
	SizeBytes uint64

	// file <dest>;<src>
	Dest string
	Src  string

	// game <url>[;<name>[;<neopic>]]
	GameURL    string
	GameName   string
	GameNeopic string

	// link <dirname>;<display-name>
	LinkDirName string
	LinkDisplay string
}

const maxSizeBytes = 16 * 1024 * 1024

// Parse reads r line by line and returns the parsed command sequence.
// Unknown commands and malformed size specifiers are fatal, per spec §7.
func Parse(r io.Reader) ([]Command, error) {
	scanner := bufio.NewScanner(r)
	var commands []Command

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		cmd, err := parseLine(keyword, rest)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return commands, nil
}

func parseLine(keyword, rest string) (Command, error) {
	switch keyword {
	case "img":
		name, sizeSpec, ok := strings.Cut(rest, ";")
		if !ok {
			return Command{}, hderrors.ErrMalformedSize.WithMessage("img requires <name>;<size>")
		}
		size, err := ParseSize(sizeSpec)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdImg, ImageName: name, SizeBytes: size}, nil

	case "file":
		dest, src, ok := strings.Cut(rest, ";")
		if !ok {
			return Command{}, hderrors.ErrUnknownCommand.WithMessage("file requires <dest>;<src>")
		}
		return Command{Kind: CmdFile, Dest: dest, Src: src}, nil

	case "game":
		fields := strings.Split(rest, ";")
		cmd := Command{Kind: CmdGame, GameURL: fields[0]}
		if len(fields) > 1 {
			cmd.GameName = fields[1]
		}
		if len(fields) > 2 {
			cmd.GameNeopic = fields[2]
		}
		return cmd, nil

	case "link":
		dir, display, ok := strings.Cut(rest, ";")
		if !ok {
			return Command{}, hderrors.ErrUnknownCommand.WithMessage("link requires <dirname>;<display-name>")
		}
		return Command{Kind: CmdLink, LinkDirName: dir, LinkDisplay: display}, nil

	case "partition":
		return Command{Kind: CmdPartition}, nil

	case "cfg":
		return Command{Kind: CmdCfg}, nil

	case "end":
		return Command{Kind: CmdEnd}, nil

	default:
		return Command{}, hderrors.ErrUnknownCommand.WithMessage("unrecognized command: " + keyword)
	}
}

// ParseSize parses a decimal byte count optionally suffixed K (x1024) or M
// (x1048576), enforcing the <=16MiB / 512-byte-alignment rule spec §6 sets
// for partition sizes.
func ParseSize(spec string) (uint64, error) {
	if spec == "" {
		return 0, hderrors.ErrMalformedSize.WithMessage("empty size specifier")
	}

	multiplier := uint64(1)
	numeric := spec
	switch spec[len(spec)-1] {
	case 'K', 'k':
		multiplier = 1024
		numeric = spec[:len(spec)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		numeric = spec[:len(spec)-1]
	}

	n, err := strconv.ParseUint(numeric, 10, 64)
	if err != nil {
		return 0, hderrors.ErrMalformedSize.WrapError(err)
	}

	size := n * multiplier
	if size == 0 || size > maxSizeBytes {
		return 0, hderrors.ErrMalformedSize.WithMessage("size must be in (0, 16 MiB]")
	}
	if size%512 != 0 {
		return 0, hderrors.ErrMalformedSize.WithMessage("size must be a multiple of 512")
	}
	return size, nil
}
