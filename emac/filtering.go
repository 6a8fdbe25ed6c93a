package emac

import "github.com/photon-circus/ph-esp32-mac/internal/regs"

const numFilterSlots = 4
const numHashBuckets = 64

// ComputeHashIndex returns the 6-bit multicast hash bucket (0..63) for
// addr, computed as the low 6 bits of the Ethernet CRC-32 register
// state after processing all 48 address bits LSB-first, with no final
// complement. Two distinct addresses may land in the same bucket; that
// is an accepted property of the hash filter, not a bug.
func ComputeHashIndex(addr [6]byte) uint8 {
	const poly uint32 = 0xEDB8_8320
	crc := uint32(0xFFFF_FFFF)
	for _, b := range addr {
		data := b
		for i := 0; i < 8; i++ {
			if (crc^uint32(data))&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
			data >>= 1
		}
	}
	return uint8(crc & 0x3F)
}

// filterSlots tracks which of the four perfect-match slots are in use,
// so AddMacFilter can find a free one and RemoveMacFilter can tell an
// empty slot from one that is genuinely occupied.
type filterSlots struct {
	used [numFilterSlots]bool
}

// AddMacFilter programs addr into the first free perfect-match slot and
// returns its index, or NoFreeSlot if all four are occupied.
func (e *Emac) AddMacFilter(addr [6]byte, byteMask uint8) (int, error) {
	for i := 0; i < numFilterSlots; i++ {
		if !e.slots.used[i] {
			regs.SetFilterSlot(i, addr, byteMask, true)
			e.slots.used[i] = true
			return i, nil
		}
	}
	return -1, NoFreeSlot
}

// RemoveMacFilter disables slot index without disturbing its stored
// address, matching the hardware's own "AE=0 leaves the rest intact"
// behavior.
func (e *Emac) RemoveMacFilter(index int) {
	if index < 0 || index >= numFilterSlots {
		return
	}
	regs.ClearFilterSlot(index)
	e.slots.used[index] = false
}

// AddHashFilter computes addr's bucket, bumps that bucket's reference
// count, and ORs it into the 64-bit hash shadow, then writes the shadow
// to the hardware hash registers.
func (e *Emac) AddHashFilter(addr [6]byte) uint8 {
	idx := ComputeHashIndex(addr)
	e.hashRefCount[idx]++
	e.hashShadow |= uint64(1) << idx
	e.writeHashShadow()
	return idx
}

// RemoveHashFilter drops addr's reference to its bucket and clears the
// bucket in the hash shadow only once no other registered address still
// refers to it. Because buckets can collide, removing one address must
// not disable reception for a different address still mapped to the
// same bucket.
func (e *Emac) RemoveHashFilter(addr [6]byte) {
	idx := ComputeHashIndex(addr)
	if e.hashRefCount[idx] == 0 {
		return
	}
	e.hashRefCount[idx]--
	if e.hashRefCount[idx] == 0 {
		e.hashShadow &^= uint64(1) << idx
	}
	e.writeHashShadow()
}

func (e *Emac) writeHashShadow() {
	e.writeHash(uint32(e.hashShadow), uint32(e.hashShadow>>32))
}

// SetVLANFilter enables the single C-VLAN tag filter and programs tag.
func (e *Emac) SetVLANFilter(tag uint16) {
	regs.SetVLANTag(regs.VLANTagETV | uint32(tag)&regs.VLANTagMask)
}

// DisableVLANFilter clears the VLAN filter enable bit, leaving the
// stored tag untouched.
func (e *Emac) DisableVLANFilter() {
	regs.SetVLANTag(regs.VLANTag() &^ regs.VLANTagETV)
}
