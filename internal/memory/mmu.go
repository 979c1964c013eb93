// Package memory implements the Game Gear's Memory Management Unit: a
// bank-switched view over up to 64 16KiB ROM banks, 8KiB of system RAM
// (mirrored into the top of the address space), and lazily-allocated 32KiB
// of cartridge RAM.
package memory

import (
	"fmt"

	"ggcore/internal/save"
)

const (
	NumSlots      = 3
	NumROMBanks   = 64
	ROMBankSize   = 16 * 1024
	SystemRAMSize = 8 * 1024
	CartRAMSize   = save.CartRAMSize
)

// MMU is the Game Gear's bank-switched memory map.
type MMU struct {
	systemRAM [SystemRAMSize]byte
	cartRAM   []byte

	romSlots [NumSlots][]byte
	romBanks [NumROMBanks][]byte

	cartRAMSlot     []byte
	cartRAMMapped   bool
	cartRAMExternal bool

	bios        []byte
	BIOSEnabled bool

	save *save.Save
}

// New returns a powered-down MMU. Call LoadROM and Power before use.
func New() *MMU {
	return &MMU{}
}

// LoadROM maps data into the MMU's ROM bank table. size must be a multiple
// of ROMBankSize or the load is silently ignored (matching the original
// hardware's bank granularity). Banks beyond NumROMBanks are dropped;
// fewer banks than NumROMBanks are mirrored to fill the table.
func (m *MMU) LoadROM(data []byte) {
	if len(data)%ROMBankSize != 0 || len(data) == 0 {
		return
	}
	banks := len(data) / ROMBankSize
	if banks > NumROMBanks {
		banks = NumROMBanks
	}
	for bank := 0; bank < banks; bank++ {
		slice := data[bank*ROMBankSize : (bank+1)*ROMBankSize]
		for mirror := bank; mirror < NumROMBanks; mirror += banks {
			m.romBanks[mirror] = slice
		}
	}
}

// LoadBIOS maps a BIOS ROM image, toggled into view by the memory-control
// port. The MMU tracks BIOSEnabled as an observable flag; it does not
// itself remap reads at 0x0000, matching the upstream emulator this toolkit
// is modeled on (BIOS mapping was left unimplemented there too).
func (m *MMU) LoadBIOS(data []byte) {
	m.bios = data
}

// LoadSave attaches persistent cartridge RAM. If the save already holds
// cart RAM from a previous run, it replaces whatever the MMU currently has.
func (m *MMU) LoadSave(s *save.Save) {
	m.save = s
	if s.HasCartRAM() {
		m.cartRAM = s.CartRAM()
		m.cartRAMExternal = true
	}
}

// Power resets the MMU to its post-reset state: ROM slots 0-2 map to banks
// 0-2, and system RAM reads as 0xFF.
func (m *MMU) Power() {
	for slot := 0; slot < NumSlots; slot++ {
		m.mapROMSlot(slot, slot)
	}
	for i := range m.systemRAM {
		m.systemRAM[i] = 0xFF
	}
}

func (m *MMU) mapROMSlot(slot, bank int) {
	m.romSlots[slot] = m.romBanks[bank]
}

func bankByteRead(bank []byte, addr uint16) uint8 {
	if bank == nil {
		return 0xFF
	}
	return bank[addr]
}

// ReadByte reads one byte of the Z80 address space.
//
// Layout (see spec's MMU contract): the first KiB is always bank 0
// regardless of slot mapping (interrupt vector table), 0x0400-0x3FFF is
// slot 0, 0x4000-0x7FFF is slot 1, 0x8000-0xBFFF is slot 2 or cart RAM when
// mapped, and 0xC000-0xFFFF is system RAM mirrored twice.
func (m *MMU) ReadByte(addr uint16) uint8 {
	switch {
	case addr < 0x0400:
		return bankByteRead(m.romBanks[0], addr)
	case addr < 0x4000:
		return bankByteRead(m.romSlots[0], addr)
	case addr < 0x8000:
		return bankByteRead(m.romSlots[1], addr-0x4000)
	case addr < 0xC000:
		if m.cartRAMMapped {
			return m.cartRAMSlot[addr-0x8000]
		}
		return bankByteRead(m.romSlots[2], addr-0x8000)
	case addr < 0xE000:
		return m.systemRAM[addr-0xC000]
	default:
		return m.systemRAM[addr-0xE000]
	}
}

// ReadWord reads a little-endian 16-bit value.
func (m *MMU) ReadWord(addr uint16) uint16 {
	return uint16(m.ReadByte(addr)) | uint16(m.ReadByte(addr+1))<<8
}

func (m *MMU) writeRAMControlRegister(value uint8) {
	bankSelect := value&0x04 != 0
	slot2Enable := value&0x08 != 0

	if slot2Enable && m.cartRAM == nil {
		if m.save != nil && m.save.InitCartRAM() == nil {
			m.cartRAM = m.save.CartRAM()
			m.cartRAMExternal = true
		} else {
			m.cartRAM = make([]byte, CartRAMSize)
			m.cartRAMExternal = false
		}
		for i := range m.cartRAM {
			m.cartRAM[i] = 0xFF
		}
	}

	if m.cartRAM != nil {
		if bankSelect {
			m.cartRAMSlot = m.cartRAM[0x4000:]
		} else {
			m.cartRAMSlot = m.cartRAM
		}
	}
	m.cartRAMMapped = slot2Enable
}

// WriteByte writes one byte of the Z80 address space. It returns false if
// the write targeted read-only memory (an unmapped cart-RAM-less ROM
// region) and was discarded.
func (m *MMU) WriteByte(addr uint16, value uint8) bool {
	switch {
	case addr < 0xC000:
		if addr >= 0x8000 && m.cartRAMMapped {
			m.cartRAMSlot[addr-0x8000] = value
			return true
		}
		return false
	case addr < 0xE000:
		m.systemRAM[addr-0xC000] = value
		return true
	default:
		switch addr {
		case 0xFFFC:
			m.writeRAMControlRegister(value)
		case 0xFFFD:
			m.mapROMSlot(0, int(value&0x3F))
		case 0xFFFE:
			m.mapROMSlot(1, int(value&0x3F))
		case 0xFFFF:
			m.mapROMSlot(2, int(value&0x3F))
		}
		m.systemRAM[addr-0xE000] = value
		return true
	}
}

// WriteWord writes a little-endian 16-bit value. It returns false if either
// byte's write was discarded.
func (m *MMU) WriteWord(addr uint16, value uint16) bool {
	ok1 := m.WriteByte(addr, uint8(value))
	ok2 := m.WriteByte(addr+1, uint8(value>>8))
	return ok1 && ok2
}

// String describes the current bank mapping, useful for debug dumps.
func (m *MMU) String() string {
	return fmt.Sprintf("slots=[%p %p %p] cartRAMMapped=%v bios=%v",
		m.romSlots[0], m.romSlots[1], m.romSlots[2], m.cartRAMMapped, m.BIOSEnabled)
}
