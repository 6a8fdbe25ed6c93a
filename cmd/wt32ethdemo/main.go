package main

// Minimal bring-up example for a WT32-ETH01 style board: ESP32 with an
// on-board LAN8720A wired for RMII, MDC on GPIO23, MDIO on GPIO18.

import (
	"log/slog"
	"machine"
	"time"

	"github.com/photon-circus/ph-esp32-mac/concurrency"
	"github.com/photon-circus/ph-esp32-mac/emac"
	"github.com/photon-circus/ph-esp32-mac/internal/desc"
	"github.com/photon-circus/ph-esp32-mac/internal/mdio"
	"github.com/photon-circus/ph-esp32-mac/internal/phy/lan8720a"
	"github.com/photon-circus/ph-esp32-mac/internal/regs"
)

const (
	linkLED = machine.GPIO2
	rxLED   = machine.GPIO4
)

const ringLen = 4

var (
	txDesc [ringLen]desc.TxDescriptor
	rxDesc [ringLen]desc.RxDescriptor
	txBuf  [ringLen][emac.DefaultBufferSize]byte
	rxBuf  [ringLen][emac.DefaultBufferSize]byte
)

func bufSlices(b *[ringLen][emac.DefaultBufferSize]byte) [][]byte {
	out := make([][]byte, 0, ringLen) // fixed-length, backing arrays are static
	for i := range b {
		out = append(out, b[i][:])
	}
	return out
}

var log = slog.Default()

func main() {
	linkLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	rxLED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	cfg, _ := emac.NewDefault()
	cfg = cfg.
		WithMacAddress([6]byte{0x02, 0xD1, 0x91, 0x07, 0x02, 0x03}).
		WithMdcClockDivider(regs.CSRClockDiv62)

	e := emac.New(txDesc[:], bufSlices(&txBuf), rxDesc[:], bufSlices(&rxBuf), cfg, log)
	if err := e.Init(); err != nil {
		println("emac init failed:", err.Error())
		return
	}

	cell := concurrency.NewSharedCell(e)
	wakers := concurrency.NewWakerSet()

	bus := mdio.New(regs.CSRClockDiv62)
	phyDev := lan8720a.New(0, bus)
	if err := phyDev.VerifyID(); err != nil {
		println("phy id mismatch:", err.Error())
		return
	}
	if err := phyDev.Init(); err != nil {
		println("phy init failed:", err.Error())
		return
	}

	if err := waitForLinkUp(phyDev); err != nil {
		println("link never came up:", err.Error())
		return
	}

	if err := With(cell, e.Start); err != nil {
		println("emac start failed:", err.Error())
		return
	}

	println("init done")

	var rxbuf [emac.DefaultBufferSize]byte
	var pulse bool
	for {
		wakers.SnapshotStatus() // drained by a real ISR in a non-demo build

		n, err, ready := concurrency.ReceivePoll(cell, wakers, rxbuf[:], func() {})
		if ready && err == nil {
			rxLED.Low()
			dumpFrame(rxbuf[:n])
			rxLED.High()
		}

		pulse = !pulse
		if pulse {
			linkLED.Low()
		} else {
			linkLED.High()
		}
		time.Sleep(500 * time.Millisecond)

		machine.Watchdog.Update()
	}
}

// With adapts a plain Emac method taking no closure argument to the
// generic SharedCell.With signature.
func With(cell *concurrency.SharedCell, f func() error) error {
	return concurrency.With(cell, func(_ *emac.Emac) error { return f() })
}

func waitForLinkUp(phyDev *lan8720a.PHY) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err := phyDev.LinkStatus()
		if err != nil {
			return err
		}
		if status.Up {
			println("link up, speed", status.Speed)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errLinkTimeout
}

type linkTimeoutError struct{}

func (linkTimeoutError) Error() string { return "phy link not up" }

var errLinkTimeout = linkTimeoutError{}
