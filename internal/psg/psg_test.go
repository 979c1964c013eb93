package psg

import "testing"

func TestToneLatchThenDataSets10BitDivider(t *testing.T) {
	p := New()
	p.Power()
	p.Write(0x80 | (0 << 5) | 0x05) // latch tone1, low nibble 0x5
	p.Write(0x1A)                   // data byte, high 6 bits 0x1A

	want := uint16(0x1A)<<4 | 0x05
	if p.Tone1 != want {
		t.Fatalf("Tone1 = 0x%04X, want 0x%04X", p.Tone1, want)
	}
}

func TestVolumeLatchIsFullyLoadedByOneByte(t *testing.T) {
	p := New()
	p.Power()
	p.Write(0x80 | (1 << 5) | (1 << 4) | 0x03) // latch tone2 volume, 0x03
	if p.Vol2 != 0x03 {
		t.Fatalf("Vol2 = 0x%02X, want 0x03", p.Vol2)
	}
}

func TestNoiseChannelLatch(t *testing.T) {
	p := New()
	p.Power()
	p.Write(0x80 | (3 << 5) | 0x06) // latch noise control
	if p.Noise != 0x06 {
		t.Fatalf("Noise = 0x%02X, want 0x06", p.Noise)
	}
	p.Write(0x80 | (3 << 5) | (1 << 4) | 0x0A) // latch noise volume
	if p.NoiseVol != 0x0A {
		t.Fatalf("NoiseVol = 0x%02X, want 0x0A", p.NoiseVol)
	}
}

func TestDataByteIgnoredAfterVolumeLatch(t *testing.T) {
	p := New()
	p.Power()
	p.Write(0x80 | (0 << 5) | (1 << 4) | 0x03) // latch tone1 volume
	p.Write(0x3F)                              // should be ignored: last latch was volume
	if p.Tone1 != 0 {
		t.Fatalf("Tone1 should be untouched by a data byte following a volume latch")
	}
}

func TestStereoLatch(t *testing.T) {
	p := New()
	p.Power()
	p.WriteStereo(0xF0)
	if p.Stereo != 0xF0 {
		t.Fatalf("Stereo = 0x%02X, want 0xF0", p.Stereo)
	}
}
