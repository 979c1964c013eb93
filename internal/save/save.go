// Package save manages persistent cartridge RAM, backed by a memory-mapped
// file on disk so that writes are flushed without an explicit save step.
package save

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"ggcore/internal/rom"
)

const (
	magic     = "CRATER GAMEGEAR SAVE FILE\n"
	headerLen = 64

	// CartRAMSize is the fixed size of Game Gear cartridge RAM.
	CartRAMSize = 32 * 1024

	saveVersion = 1
)

var (
	// ErrHeaderTooShort is returned when a save file is shorter than the
	// fixed header length.
	ErrHeaderTooShort = errors.New("save: file too short to contain a header")
	// ErrBadMagic is returned when the file doesn't start with the save
	// magic string.
	ErrBadMagic = errors.New("save: invalid header magic")
	// ErrBadHeaderFields is returned when the header's version/product/
	// checksum fields can't be parsed.
	ErrBadHeaderFields = errors.New("save: invalid header fields")
	// ErrUnsupportedVersion is returned for save files not in version 1.
	ErrUnsupportedVersion = errors.New("save: unsupported save file version")
	// ErrWrongROM is returned when a save's product code or checksum
	// doesn't match the ROM it's being loaded against.
	ErrWrongROM = errors.New("save: file was created for a different ROM")
	// ErrSizeMismatch is returned when the file size doesn't match the
	// expected header-plus-cart-RAM size.
	ErrSizeMismatch = errors.New("save: cart RAM size is wrong; file may be corrupt")
)

// Save represents persistent cartridge RAM for a ROM, backed by an optional
// memory-mapped file at Path.
type Save struct {
	Path string
	rom  *rom.ROM

	mapping    []byte
	cartOffset int
	hasCartRAM bool
}

// Init opens (but does not create) the save file at path for rom. If the
// file doesn't exist yet, a Save with no cart RAM is returned and cart RAM
// is created lazily via InitCartRAM. If path is "", the save is
// memory-only: HasCartRAM always reports false and InitCartRAM always fails.
func Init(path string, r *rom.ROM) (*Save, error) {
	s := &Save{rom: r}
	if path == "" {
		return s, nil
	}
	s.Path = path

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("save: stat %s: %w", path, err)
	}
	size := int(info.Size())

	mapping, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("save: mmap %s: %w", path, err)
	}

	offset, err := parseHeader(mapping, r)
	if err != nil {
		unix.Munmap(mapping)
		return nil, fmt.Errorf("save: %s: %w", path, err)
	}

	s.mapping = mapping
	s.cartOffset = offset
	s.hasCartRAM = true
	return s, nil
}

func parseHeader(data []byte, r *rom.ROM) (int, error) {
	if len(data) < headerLen {
		return 0, ErrHeaderTooShort
	}
	if !strings.HasPrefix(string(data[:len(magic)]), magic) {
		return 0, ErrBadMagic
	}

	rest := string(data[len(magic):])
	nul := strings.IndexByte(rest, 0x00)
	if nul >= 0 {
		rest = rest[:nul]
	}
	line := strings.SplitN(strings.TrimRight(rest, "\n\x00"), "\n", 2)[0]
	fields := strings.SplitN(line, ":", 3)
	if len(fields) != 3 {
		return 0, ErrBadHeaderFields
	}

	version, err1 := strconv.Atoi(fields[0])
	prodcode, err2 := strconv.Atoi(fields[1])
	checksumStr := strings.TrimPrefix(fields[2], "0x")
	checksum, err3 := strconv.ParseUint(checksumStr, 16, 16)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, ErrBadHeaderFields
	}

	if version != saveVersion {
		return 0, ErrUnsupportedVersion
	}
	if uint32(prodcode) != r.ProductCode || uint16(checksum) != r.ExpectedChecksum {
		return 0, ErrWrongROM
	}
	if len(data) != headerLen+CartRAMSize {
		return 0, ErrSizeMismatch
	}
	return headerLen, nil
}

// HasCartRAM reports whether this save holds existing cartridge RAM loaded
// from disk.
func (s *Save) HasCartRAM() bool {
	return s.hasCartRAM
}

// CartRAM returns a slice over the mapped cartridge RAM, or nil if none has
// been loaded or created yet.
func (s *Save) CartRAM() []byte {
	if !s.hasCartRAM {
		return nil
	}
	return s.mapping[s.cartOffset : s.cartOffset+CartRAMSize]
}

// InitCartRAM creates fresh cartridge RAM backed by a new save file, if one
// hasn't been created or loaded already. It is a no-op returning nil if
// cart RAM already exists.
func (s *Save) InitCartRAM() error {
	if s.hasCartRAM {
		return nil
	}
	if s.Path == "" || s.mapping != nil {
		return fmt.Errorf("save: cannot create cart RAM without a save path")
	}

	header := fmt.Sprintf("%s%d:%06d:0x%04X\n", magic, saveVersion, s.rom.ProductCode, s.rom.ExpectedChecksum)
	if len(header) > headerLen {
		return fmt.Errorf("save: header was unexpectedly long")
	}

	f, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("save: create %s: %w", s.Path, err)
	}

	total := headerLen + CartRAMSize
	buf := make([]byte, total)
	copy(buf, header)
	for i := len(header); i < headerLen; i++ {
		buf[i] = 0
	}
	for i := headerLen; i < total; i++ {
		buf[i] = 0
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(s.Path)
		return fmt.Errorf("save: write %s: %w", s.Path, err)
	}

	mapping, err := unix.Mmap(int(f.Fd()), 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	f.Close()
	if err != nil {
		os.Remove(s.Path)
		return fmt.Errorf("save: mmap %s: %w", s.Path, err)
	}

	s.mapping = mapping
	s.cartOffset = headerLen
	s.hasCartRAM = true
	return nil
}

// Close flushes and unmaps the save file, if one is mapped.
func (s *Save) Close() error {
	if s.mapping == nil {
		return nil
	}
	if err := unix.Msync(s.mapping, unix.MS_SYNC); err != nil {
		return fmt.Errorf("save: msync %s: %w", s.Path, err)
	}
	err := unix.Munmap(s.mapping)
	s.mapping = nil
	return err
}
