// Package rm is the top-level entry point for reading a reMarkable
// .lines file: it parses the 43-byte header, dispatches to the v6
// tagged-block reader or the legacy v3/v5 flat reader, and attaches
// cursor-position context to any error that escapes.
package rm

import (
	"strconv"
	"strings"

	"github.com/ctw00272/rmlines/blockstream"
	"github.com/ctw00272/rmlines/bytestream"
	"github.com/ctw00272/rmlines/legacy"
	"github.com/ctw00272/rmlines/rmerr"
	"github.com/ctw00272/rmlines/scene"
	"github.com/ctw00272/rmlines/tagged"
)

const headerSize = 43

// outdatedHeader is the literal header string emitted by an early,
// unsupported revision of the format, predating the "version=" scheme.
const outdatedHeader = "reMarkable lines with selections and layers"

const versionedHeaderPrefix = "reMarkable .lines file, version="

// File is the result of a successful read: either a v6 document (its
// assembled scene tree plus the raw block list) or a legacy flat
// document (a version number and its pages).
type File struct {
	v6    *v6File
	other *otherFile
}

type v6File struct {
	Tree   *scene.Tree
	Blocks []blockstream.Block
}

type otherFile struct {
	Version uint32
	Pages   []legacy.Page
}

// V6 reports whether f is a version-6 document and, if so, returns its
// assembled tree and raw block list.
func (f *File) V6() (tree *scene.Tree, blocks []blockstream.Block, ok bool) {
	if f.v6 == nil {
		return nil, nil, false
	}
	return f.v6.Tree, f.v6.Blocks, true
}

// Other reports whether f is a legacy v3/v5 document and, if so,
// returns its version and pages.
func (f *File) Other() (version uint32, pages []legacy.Page, ok bool) {
	if f.other == nil {
		return 0, nil, false
	}
	return f.other.Version, f.other.Pages, true
}

// Version returns the file's format version: 6 for a v6 document, or
// the legacy version number otherwise.
func (f *File) Version() uint32 {
	if f.v6 != nil {
		return 6
	}
	return f.other.Version
}

// Read parses a complete in-memory .lines file.
func Read(data []byte) (*File, error) {
	r := bytestream.New(data)
	file, err := read(r)
	if err != nil {
		pos, atEOF := r.Position(), r.EOF()
		return nil, rmerr.WithContext(err, pos, atEOF)
	}
	return file, nil
}

func read(r *bytestream.Reader) (*File, error) {
	headerBytes, err := r.ReadBytes(headerSize)
	if err != nil {
		return nil, err
	}
	header := strings.TrimRight(string(headerBytes), " \x00")

	version, err := parseVersion(header)
	if err != nil {
		return nil, err
	}

	switch {
	case version == 6:
		blocks, err := readV6Blocks(r)
		if err != nil {
			return nil, err
		}
		tree, err := scene.Assemble(blocks)
		if err != nil {
			return nil, err
		}
		return &File{v6: &v6File{Tree: tree, Blocks: blocks}}, nil

	case version >= 3 && version <= 5:
		pages, err := legacy.Read(r, version)
		if err != nil {
			return nil, err
		}
		return &File{other: &otherFile{Version: version, Pages: pages}}, nil

	default:
		return nil, rmerr.Unsupported("version %d is not supported", version)
	}
}

func parseVersion(header string) (uint32, error) {
	if header == outdatedHeader {
		return 0, rmerr.Unsupported("outdated header %q is not supported", header)
	}
	if !strings.HasPrefix(header, versionedHeaderPrefix) {
		return 0, rmerr.Unsupported("unrecognized header %q", header)
	}
	suffix := strings.TrimPrefix(header, versionedHeaderPrefix)
	version, err := strconv.ParseUint(suffix, 10, 32)
	if err != nil {
		return 0, rmerr.Unsupported("could not parse version from header %q", header)
	}
	return uint32(version), nil
}

// readV6Blocks reads blocks until the stream is exhausted.
func readV6Blocks(r *bytestream.Reader) ([]blockstream.Block, error) {
	tr := tagged.New(r)
	var blocks []blockstream.Block
	for {
		if r.EOF() {
			return blocks, nil
		}
		block, err := blockstream.Read(tr)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
}
