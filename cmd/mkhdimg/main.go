// Command mkhdimg assembles a bootable Atari ST hard-disk image from
// either a `.cfg` configuration file or a size-spec plus DEST=SRC
// commands, per spec §6.
//
// This is the peripheral collaborator the core engine expects: it decodes
// a configuration source and already-local byte blobs and hands them to
// package imagebuild. Network fetch and ZIP extraction are explicitly
// outside the core's scope (spec §1), so the `game` config command, which
// would require an HTTP fetch, is accepted but logged as unsupported
// rather than implemented here.
//
// Grounded on dargueta-disko's cmd/main.go, which wires a single cli.App
// command (format) to a stub Action; this generalizes that skeleton to
// the full positional-argument grammar spec §6 describes.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mkhdmenu/atarihd/catalogue"
	"github.com/mkhdmenu/atarihd/cfgparse"
	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/mkhdmenu/atarihd/hderrors"
	"github.com/mkhdmenu/atarihd/imagebuild"
	"github.com/mkhdmenu/atarihd/importer"
)

func main() {
	app := &cli.App{
		Name:      "mkhdimg",
		Usage:     "assemble a bootable Atari ST hard-disk image",
		ArgsUsage: "<config.cfg> | <size-spec> [DEST=SRC ...] <output-image>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "export-bootloader", Usage: "write <name>_mbr.bin/<name>_bootsector.bin alongside the image"},
			&cli.BoolFlag{Name: "quiet", Usage: "suppress informational warnings"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("mkhdimg: %s", err)
	}
}

func run(c *cli.Context) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("missing arguments: "+c.App.ArgsUsage, 1)
	}

	quiet := c.Bool("quiet")
	exportName := c.String("export-bootloader")

	var (
		img        *imagebuild.Image
		outputPath string
		links      []catalogue.LinkMapping
		err        error
	)

	if len(args) == 1 && strings.HasSuffix(strings.ToLower(args[0]), ".cfg") {
		img, outputPath, links, err = buildFromConfig(args[0])
	} else {
		img, outputPath, links, err = buildFromArgs(args)
	}
	if err != nil {
		return err
	}

	date, tm := dostime.Pack(time.Now())
	data, buildErr := img.Assemble(imagebuild.AssembleOptions{
		CatalogueDate:        date,
		CatalogueTime:        tm,
		LinkMappings:         links,
		ExportBootloaderName: exportName,
		ExportBootloaderDir:  filepath.Dir(outputPath),
	})
	if buildErr != nil {
		if data == nil {
			return buildErr
		}
		if !quiet {
			log.Printf("mkhdimg: build warnings: %s", buildErr)
		}
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return err
	}

	if !quiet {
		stats := img.Stats()
		log.Printf("mkhdimg: wrote %s (%d directories, %d files, %d bytes of data)",
			outputPath, stats.Directories, stats.Files, stats.DataBytes)
	}
	return nil
}

// buildFromConfig drives the pipeline from a `.cfg` script: img commands
// size the partitions, file commands insert local byte blobs, link
// commands feed the catalogue's display-name table, and cfg requests the
// default HDMENU.CFG. game commands are logged and skipped.
func buildFromConfig(path string) (*imagebuild.Image, string, []catalogue.LinkMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", nil, err
	}
	defer f.Close()

	commands, err := cfgparse.Parse(f)
	if err != nil {
		return nil, "", nil, err
	}

	var (
		capacities     []uint
		imageName      string
		links          []catalogue.LinkMapping
		wantDefaultCfg bool
		fileCommands   []cfgparse.Command
	)

loop:
	for _, cmd := range commands {
		switch cmd.Kind {
		case cfgparse.CmdImg:
			imageName = cmd.ImageName
			capacities = append(capacities, uint(cmd.SizeBytes/512))
		case cfgparse.CmdLink:
			links = append(links, catalogue.LinkMapping{DirName: cmd.LinkDirName, Display: cmd.LinkDisplay})
		case cfgparse.CmdCfg:
			wantDefaultCfg = true
		case cfgparse.CmdFile:
			fileCommands = append(fileCommands, cmd)
		case cfgparse.CmdGame:
			log.Printf("mkhdimg: game fetch not supported by this build, skipping %s", cmd.GameURL)
		case cfgparse.CmdPartition:
			// No separate partition index to track here: each "img" command
			// already declares one partition in drive-letter order.
		case cfgparse.CmdEnd:
			break loop
		}
	}

	if len(capacities) == 0 {
		return nil, "", nil, hderrors.ErrPartitionOutOfRange.WithMessage("config declares no img command")
	}

	img, err := imagebuild.NewImage(capacities, uint32(time.Now().Unix()))
	if err != nil {
		return nil, "", nil, err
	}

	if err := importFiles(img, fileCommands); err != nil {
		return nil, "", nil, err
	}

	if wantDefaultCfg {
		date, tm := dostime.Pack(time.Now())
		if err := img.InsertDefaultLauncherConfig(date, tm); err != nil {
			return nil, "", nil, err
		}
	}

	outputPath := imageName
	if outputPath == "" {
		outputPath = "output"
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".img") {
		outputPath += ".img"
	}

	return img, outputPath, links, nil
}

func importFiles(img *imagebuild.Image, commands []cfgparse.Command) error {
	for _, cmd := range commands {
		drive, rel, err := parseDrivePath(cmd.Dest)
		if err != nil {
			return err
		}
		part := img.PartitionByDrive(drive)
		if part == nil {
			return hderrors.ErrPartitionOutOfRange.WithMessage("no such partition: " + string(drive))
		}

		data, err := os.ReadFile(cmd.Src)
		if err != nil {
			return err
		}

		date, tm := dostime.Pack(time.Now())
		if err := importer.ImportRaw(part.Tree, rel, data, filepath.Base(cmd.Src), date, tm); err != nil {
			return err
		}
	}
	return nil
}

// buildFromArgs drives the pipeline from the CLI's positional grammar: a
// size-spec like "16M+8M", zero or more DEST=SRC commands, and a final
// output path. An existing image path in place of a size-spec would imply
// live-editing an image on the host, which is a stated Non-goal, so only
// the size-spec form is supported here.
func buildFromArgs(args []string) (*imagebuild.Image, string, []catalogue.LinkMapping, error) {
	if len(args) < 2 {
		return nil, "", nil, cli.Exit("need a size-spec and an output path", 1)
	}

	sizeSpec := args[0]
	destSrcArgs := args[1 : len(args)-1]
	outputPath := args[len(args)-1]

	capacities, err := parseSizeSpec(sizeSpec)
	if err != nil {
		return nil, "", nil, err
	}

	img, err := imagebuild.NewImage(capacities, uint32(time.Now().Unix()))
	if err != nil {
		return nil, "", nil, err
	}

	for _, arg := range destSrcArgs {
		dest, src, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, "", nil, fmt.Errorf("malformed command, expected DEST=SRC: %s", arg)
		}

		drive, rel, err := parseDrivePath(dest)
		if err != nil {
			return nil, "", nil, err
		}
		part := img.PartitionByDrive(drive)
		if part == nil {
			return nil, "", nil, hderrors.ErrPartitionOutOfRange.WithMessage("no such partition: " + string(drive))
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return nil, "", nil, err
		}

		date, tm := dostime.Pack(time.Now())
		if err := importer.ImportRaw(part.Tree, rel, data, filepath.Base(src), date, tm); err != nil {
			return nil, "", nil, err
		}
	}

	return img, outputPath, nil, nil
}

func parseSizeSpec(spec string) ([]uint, error) {
	parts := strings.Split(spec, "+")
	capacities := make([]uint, 0, len(parts))
	for _, p := range parts {
		size, err := cfgparse.ParseSize(p)
		if err != nil {
			return nil, err
		}
		capacities = append(capacities, uint(size/512))
	}
	return capacities, nil
}

func parseDrivePath(path string) (byte, string, error) {
	if len(path) < 2 || path[1] != ':' {
		return 0, "", hderrors.ErrPartitionOutOfRange.WithMessage("path must begin with a drive letter: " + path)
	}
	drive := strings.ToUpper(path[:1])[0]
	rest := strings.TrimPrefix(path[2:], `\`)
	return drive, rest, nil
}
