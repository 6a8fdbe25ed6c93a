// Package regs is the typed, volatile register facade over the three
// disjoint EMAC register blocks on the ESP32: DMA control, MAC control,
// and the SoC-specific extension block (clock, RMII mux, RAM power).
//
// Every accessor here is a direct volatile read or write; nothing in this
// package sleeps or retries. Bounded waits (soft reset, MII busy, FIFO
// flush) live one layer up, in the packages that know what "bounded"
// means for that operation.
package regs

import (
	"runtime/volatile"
	"unsafe"
)

// Physical base addresses of the three register blocks on the classic
// ESP32 (Xtensa LX6). These are fixed for the SoC family this driver
// targets; there is no probing or relocation.
const (
	DMABase uintptr = 0x3FF6_9000
	ExtBase uintptr = 0x3FF6_9800
	MACBase uintptr = 0x3FF6_A000
)

// DPORT_WIFI_CLK_EN_REG gates the EMAC peripheral clock at the
// system/DPORT level. It sits outside all three EMAC blocks proper but is
// a mandatory prerequisite for touching any of them.
const dportWifiClkEnReg uintptr = 0x3FF0_00CC

// DPORT_WIFI_CLK_EN_EMAC_EN is bit 14 of DPORT_WIFI_CLK_EN_REG.
const dportWifiClkEnEMACEn uint32 = 1 << 14

func reg(base, offset uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(base + offset)) //nolint:govet
}

// EnablePeripheralClock gates on the EMAC peripheral clock at the DPORT
// level. This must happen before any other register in this package is
// touched; without it reads return garbage and writes are lost.
func EnablePeripheralClock() {
	r := reg(dportWifiClkEnReg, 0)
	r.Set(r.Get() | dportWifiClkEnEMACEn)
}

// DisablePeripheralClock reverses EnablePeripheralClock, used when init
// fails partway through and is releasing everything it had acquired.
func DisablePeripheralClock() {
	r := reg(dportWifiClkEnReg, 0)
	r.Set(r.Get() &^ dportWifiClkEnEMACEn)
}
