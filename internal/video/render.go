package video

// getBackgroundTile returns the packed tile-name-table entry at the given
// (row, col) of the 32-wide background tilemap.
func (v *VDP) getBackgroundTile(row, col byte) uint16 {
	base := v.pntBase()
	index := uint16(row)*32 + uint16(col)
	lo := v.VRAM[base+2*index]
	hi := v.VRAM[base+2*index+1]
	return uint16(lo) | uint16(hi)<<8
}

// readPattern returns the CRAM palette index (0-15) of the pixel at
// (row, col) within the given 8x8 pattern, decoded from its four bit-plane
// bytes.
func (v *VDP) readPattern(pattern uint16, row, col byte) byte {
	planes := v.VRAM[32*pattern+4*uint16(row):]
	var idx byte
	idx |= (planes[0] >> (7 - col)) & 1
	idx |= ((planes[1] >> (7 - col)) & 1) << 1
	idx |= ((planes[2] >> (7 - col)) & 1) << 2
	idx |= ((planes[3] >> (7 - col)) & 1) << 3
	return idx
}

// color returns the BGR444 color word at the given palette/index.
func (v *VDP) color(index byte, palette bool) uint16 {
	offset := 2 * (uint16(index))
	if palette {
		offset += 32
	}
	return uint16(v.CRAM[offset]) | uint16(v.CRAM[offset+1])<<8
}

// drawPixel converts a BGR444 color word to ARGB8888 and writes it into
// the pixel buffer, if one is attached.
func (v *VDP) drawPixel(y, x byte, color uint16) {
	if v.Pixels == nil {
		return
	}
	r := uint32(0x11 * (color & 0x000F))
	g := uint32(0x11 * ((color & 0x00F0) >> 4))
	b := uint32(0x11 * ((color & 0x0F00) >> 8))
	argb := 0xFF000000 | (r << 16) | (g << 8) | b
	v.Pixels[int(y)*ScreenWidth+int(x)] = argb
}

func (v *VDP) drawBackground(colbuf *[ScreenWidth]byte) {
	srcRow := byte((int(v.vCounter) + int(v.bgVScroll())) % (28 * 8))
	dstRow := v.vCounter - 0x18
	vcell := srcRow >> 3

	startCol := v.bgHScroll() >> 3
	fineScroll := v.bgHScroll() % 8

	for col := byte(5); col < 20+6; col++ {
		hcell := byte((32 - int(startCol) + int(col)) % 32)
		tile := v.getBackgroundTile(vcell, hcell)
		pattern := tile & 0x01FF
		palette := tile&0x0800 != 0
		priority := tile&0x1000 != 0
		vflip := tile&0x0400 != 0
		hflip := tile&0x0200 != 0

		vshift := srcRow % 8
		if vflip {
			vshift = 7 - vshift
		}

		for pixel := byte(0); pixel < 8; pixel++ {
			dstCol := (int(col)-6)*8 + int(pixel) + int(fineScroll)
			if dstCol < 0 || dstCol >= ScreenWidth {
				continue
			}

			hshift := pixel
			if hflip {
				hshift = 7 - pixel
			}
			index := v.readPattern(pattern, vshift, hshift)

			var c uint16
			if v.displayVisible() {
				c = v.color(index, palette)
			} else {
				c = v.color(v.backdropColor(), true)
			}
			v.drawPixel(dstRow, byte(dstCol), c)

			if priority && index != 0 {
				colbuf[dstCol] |= colbufBGPriority
			}
		}
	}
}

func (v *VDP) drawSprites(colbuf *[ScreenWidth]byte) {
	sat := v.VRAM[v.satBase():]
	var spritebuf [8]byte
	nsprites := 0
	height := v.spriteHeightPatterns()

	for i := 0; i < 64; i++ {
		y := sat[i] + 1
		if y == 0xD0+1 {
			break
		}
		if v.vCounter >= y && int(v.vCounter) < int(y)+height*8 {
			if nsprites >= 8 {
				v.flags |= flagSprOvf
				break
			}
			spritebuf[nsprites] = byte(i)
			nsprites++
		}
	}

	dstRow := v.vCounter - 0x18

	for nsprites > 0 {
		nsprites--
		i := spritebuf[nsprites]
		y := sat[i] + 1
		x := sat[0x80+2*int(i)]

		var vshift byte
		var pattern uint16
		switch height {
		case 1:
			pattern = v.sgtOffset() + uint16(sat[0x80+2*int(i)+1])
			vshift = v.vCounter - y
		case 2:
			pattern = (v.sgtOffset() + uint16(sat[0x80+2*int(i)+1])) & 0x1FE
			pattern |= uint16(v.vCounter-y) >> 3
			vshift = (v.vCounter - y) % 8
		}

		for pixel := 0; pixel < 8; pixel++ {
			dstCol := int(x) + pixel - 6*8
			if dstCol < 0 || dstCol >= ScreenWidth {
				continue
			}
			if colbuf[dstCol]&colbufBGPriority != 0 {
				continue
			}

			index := v.readPattern(pattern, vshift, byte(pixel))
			if index == 0 {
				continue
			}

			if colbuf[dstCol]&colbufOpaqueSprite != 0 {
				v.flags |= flagSprCol
			} else {
				colbuf[dstCol] |= colbufOpaqueSprite
			}

			if v.displayVisible() {
				v.drawPixel(dstRow, byte(dstCol), v.color(index, true))
			}
		}
	}
}

func (v *VDP) drawScanline() {
	if v.Pixels == nil {
		return
	}
	var colbuf [ScreenWidth]byte
	v.drawBackground(&colbuf)
	v.drawSprites(&colbuf)
}
