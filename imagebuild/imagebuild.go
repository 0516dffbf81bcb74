// Package imagebuild orchestrates the full pipeline: bootloader detection,
// catalogue generation, per-partition planning and serialization, and
// final concatenation into one byte-exact image, per spec §4.8.
//
// Grounded on dargueta-disko's file_systems/common/blockcache package,
// which wraps a byte slice in a bytesextra.ReadWriteSeeker to give
// sequential, offset-tracked access to backing storage; the final
// concatenation pass here plays the same role, writing each partition's
// serialized buffer (and the root sector) into one pre-sized output
// stream instead of mutating an in-place cache.
package imagebuild

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/mkhdmenu/atarihd/bootloader"
	"github.com/mkhdmenu/atarihd/catalogue"
	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/mkhdmenu/atarihd/fat16"
	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/mkhdmenu/atarihd/hderrors"
	"github.com/mkhdmenu/atarihd/launchercfg"
	"github.com/mkhdmenu/atarihd/mbr"
	"github.com/xaionaro-go/bytesextra"
)

// PartitionState is one stage of a partition's Empty → Populating →
// Planned → Serialized lifecycle (spec §4.8). Transitions occur exactly
// once, in order; Partition.transition rejects anything else.
type PartitionState int

const (
	StateEmpty PartitionState = iota
	StatePopulating
	StatePlanned
	StateSerialized
)

// driveLetters is the fixed assignment of partition position to drive
// letter; at most four partitions are ever supported.
var driveLetters = [mbr.MaxPartitions]byte{'C', 'D', 'E', 'F'}

// Partition is one of an image's 1-4 FAT16 volumes.
type Partition struct {
	Drive           byte
	Tree            *fsnode.Tree
	CapacitySectors uint
	State           PartitionState

	Plan     *fat16.Plan
	StartLBA uint32
	Bootable bool
	BootCode []byte
}

func (p *Partition) transition(to PartitionState) error {
	if to != p.State+1 {
		return hderrors.ErrPartitionOutOfRange.WithMessage("invalid partition state transition")
	}
	p.State = to
	return nil
}

// ScreenshotSource looks up a screenshot archive entry by key (see
// catalogue.ScreenshotKey). Implementations wrap whatever decoded ZIP or
// directory listing the collaborator fetched.
type ScreenshotSource interface {
	Lookup(key string) ([]byte, bool)
}

// Image is the full build: its partitions, and the collaborator-supplied
// inputs the catalogue generator and bootloader installer need.
type Image struct {
	Partitions   []*Partition
	VolumeSerial uint32

	mbrBootCode []byte
	Warnings    *multierror.Error
}

// NewImage creates an Image with one partition per entry in
// capacitiesSectors (in C, D, E, F order), each starting in StateEmpty
// with a fresh, empty tree.
func NewImage(capacitiesSectors []uint, volumeSerial uint32) (*Image, error) {
	if len(capacitiesSectors) == 0 || len(capacitiesSectors) > mbr.MaxPartitions {
		return nil, hderrors.ErrPartitionOutOfRange.WithMessage("must have 1-4 partitions")
	}

	img := &Image{VolumeSerial: volumeSerial}
	for i, capacity := range capacitiesSectors {
		img.Partitions = append(img.Partitions, &Partition{
			Drive:           driveLetters[i],
			Tree:            fsnode.NewTree(),
			CapacitySectors: capacity,
		})
	}
	return img, nil
}

// PartitionByDrive returns the partition assigned drive, or nil if drive
// isn't part of this image.
func (img *Image) PartitionByDrive(drive byte) *Partition {
	for _, p := range img.Partitions {
		if p.Drive == drive {
			return p
		}
	}
	return nil
}

// ExistsInAnyPartition reports whether path exists in any partition,
// searched in partition order (first match wins), restoring the original
// mkhdmenu.py find_file() semantics per SPEC_FULL §12.
func (img *Image) ExistsInAnyPartition(path string) (drive byte, found bool) {
	for _, p := range img.Partitions {
		if p.Tree.Exists(path) {
			return p.Drive, true
		}
	}
	return 0, false
}

// Stats summarizes a built image's contents, restoring mkhdmenu.py's
// statistics() per SPEC_FULL §12.
type Stats struct {
	Directories int
	Files       int
	DataBytes   uint64
}

// Stats walks every partition and totals directories, files, and data bytes.
func (img *Image) Stats() Stats {
	var s Stats
	for _, p := range img.Partitions {
		p.Tree.Walk(func(path string, node *fsnode.Node, depth int) {
			if node.IsDir() {
				s.Directories++
				return
			}
			s.Files++
			s.DataBytes += uint64(len(node.File.Data))
		})
	}
	return s
}

// InsertDefaultLauncherConfig inserts the default HDMENU.CFG blob at
// C:\HDMENU.CFG, per spec §6's "cfg" command.
func (img *Image) InsertDefaultLauncherConfig(date dostime.Date, tm dostime.Time) error {
	c := img.PartitionByDrive('C')
	if c == nil {
		return hderrors.ErrPartitionOutOfRange
	}
	return c.Tree.Insert("HDMENU.CFG", fsnode.NewFile("_", launchercfg.Default(), date, tm))
}

// AssembleOptions carries the values the assembly pipeline needs beyond
// what's already been inserted into each partition's tree.
type AssembleOptions struct {
	CatalogueDate        dostime.Date
	CatalogueTime        dostime.Time
	NameMappings         []catalogue.NameMapping
	LinkMappings         []catalogue.LinkMapping
	Screenshots          ScreenshotSource
	ExportBootloaderDir  string
	ExportBootloaderName string
}

func rootFileNames(tree *fsnode.Tree) []string {
	names := make([]string, 0, len(tree.Root.Dir.Children))
	for _, c := range tree.Root.Dir.Children {
		names = append(names, c.Name)
	}
	return names
}

// Assemble runs the full pipeline described in spec §4.8 and returns the
// final byte-exact image stream.
func (img *Image) Assemble(opts AssembleOptions) ([]byte, error) {
	if err := img.installBootloader(opts); err != nil {
		return nil, err
	}

	if err := img.generateCatalogue(opts); err != nil {
		return nil, err
	}

	for _, p := range img.Partitions {
		if err := p.transition(StatePopulating); err != nil {
			return nil, err
		}
	}

	lba := uint32(1)
	for _, p := range img.Partitions {
		p.StartLBA = lba
		lba += uint32(p.CapacitySectors)
	}
	totalSectors := lba

	buffers := make([][]byte, len(img.Partitions))
	for i, p := range img.Partitions {
		plan, err := fat16.PlanPartition(p.Tree, p.CapacitySectors)
		if err != nil {
			return nil, err
		}
		p.Plan = plan
		if err := p.transition(StatePlanned); err != nil {
			return nil, err
		}

		buffers[i] = fat16.Serialize(p.Tree, plan, fat16.Options{
			HiddenSectors: p.StartLBA,
			VolumeSerial:  img.VolumeSerial,
			Bootable:      p.Bootable,
			BootCode:      p.BootCode,
		})
		if err := p.transition(StateSerialized); err != nil {
			return nil, err
		}
	}

	var mbrOpts mbr.Options
	mbrOpts.TotalImageSectors = totalSectors
	mbrOpts.BootCode = img.mbrBootCode
	for i, p := range img.Partitions {
		mbrOpts.Partitions[i] = mbr.PartitionEntry{
			Present:     true,
			Bootable:    p.Bootable,
			StartSector: p.StartLBA,
			SectorCount: uint32(p.CapacitySectors),
		}
		if p.Bootable {
			mbrOpts.AnyBootable = true
		}
	}
	root := mbr.Serialize(mbrOpts)

	out, err := concatenate(root, img.Partitions, buffers, totalSectors)
	if err != nil {
		return nil, err
	}
	return out, img.Warnings.ErrorOrNil()
}

// concatenate writes the root sector and every partition buffer into one
// pre-sized output stream, each sector written exactly once in ascending
// LBA order (spec §5), via a bytesextra.ReadWriteSeeker the same way the
// teacher's block cache wraps a byte slice for offset-tracked access.
func concatenate(root []byte, partitions []*Partition, buffers [][]byte, totalSectors uint32) ([]byte, error) {
	out := make([]byte, int(totalSectors)*mbr.SectorSize)
	stream := bytesextra.NewReadWriteSeeker(out)

	if _, err := stream.Write(root); err != nil {
		return nil, err
	}
	for i, p := range partitions {
		if _, err := stream.Seek(int64(p.StartLBA)*mbr.SectorSize, io.SeekStart); err != nil {
			return nil, err
		}
		if _, err := stream.Write(buffers[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (img *Image) installBootloader(opts AssembleOptions) error {
	c := img.PartitionByDrive('C')
	if c == nil {
		return nil
	}

	loader, err := bootloader.Detect(rootFileNames(c.Tree))
	if err != nil {
		img.Warnings = multierror.Append(img.Warnings, err)
		return nil
	}

	c.Bootable = true
	c.BootCode = loader.BootsectCode
	img.mbrBootCode = loader.MBRCode

	if opts.ExportBootloaderName != "" {
		return loader.Export(opts.ExportBootloaderDir, opts.ExportBootloaderName)
	}
	return nil
}

func (img *Image) generateCatalogue(opts AssembleOptions) error {
	var games []catalogue.Game
	for _, p := range img.Partitions {
		games = append(games, catalogue.Discover(p.Tree, p.Drive)...)
	}

	csvBytes, err := catalogue.BuildCSV(games, opts.NameMappings, opts.LinkMappings)
	if err != nil {
		return err
	}

	c := img.PartitionByDrive('C')
	if c != nil {
		if err := c.Tree.Insert("HDMENU.CSV", fsnode.NewFile("_", csvBytes, opts.CatalogueDate, opts.CatalogueTime)); err != nil {
			return err
		}
	}

	if opts.Screenshots == nil {
		return nil
	}

	for _, g := range games {
		key := catalogue.ScreenshotKey(g.DirName)
		data, ok := opts.Screenshots.Lookup(key)
		if !ok {
			img.Warnings = multierror.Append(img.Warnings, hderrors.ErrMissingScreenshot.WithMessage(g.DirName))
			continue
		}

		part := img.PartitionByDrive(g.Drive)
		dest := `GAMES\` + g.DirName + `\` + g.DirName + `.NEO`
		if err := part.Tree.Insert(dest, fsnode.NewFile("_", data, opts.CatalogueDate, opts.CatalogueTime)); err != nil {
			return err
		}
	}
	return nil
}
