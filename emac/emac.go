// Package emac implements the MAC controller: lifecycle, static and
// runtime configuration, filtering, flow control, and the interrupt
// surface, layered on top of internal/dma's descriptor engine and
// internal/regs's register facade.
package emac

import (
	"log/slog"
	"time"

	"github.com/photon-circus/ph-esp32-mac/internal/desc"
	"github.com/photon-circus/ph-esp32-mac/internal/dma"
	"github.com/photon-circus/ph-esp32-mac/internal/regs"
)

// State is the controller's lifecycle position.
type State int

const (
	Uninitialized State = iota
	Initialized
	Running
	Stopped
)

// DmaState decodes the DMA block's 3-bit TX or RX process state
// machine, exposed for diagnostics and for Stop's drain wait.
type DmaState uint32

const (
	DmaStateStopped           DmaState = 0
	DmaStateRunningFetching   DmaState = 1
	DmaStateRunningWaiting    DmaState = 2 // TX: waiting for status: RX: reserved
	DmaStateRunningReading    DmaState = 3 // TX only: reading data from host
	DmaStateSuspended         DmaState = 6
	DmaStateRunningClosing    DmaState = 7
)

// Emac owns one DMA engine instance and the MAC/extension register
// state that engine shares the peripheral with. It is not reentrant;
// concurrency package's SharedCell is what serializes access across
// task and ISR contexts.
type Emac struct {
	engine *dma.Engine
	cfg    EmacConfig
	state  State
	log    *slog.Logger

	slots        filterSlots
	hashShadow   uint64
	hashRefCount [numHashBuckets]uint8

	// writeHash defaults to the real MAC hash-register pair. Tests
	// substitute a no-op so AddHashFilter/RemoveHashFilter's bucket
	// bookkeeping can be exercised without touching real MMIO.
	writeHash func(lo, hi uint32)

	txRingLen, rxRingLen, bufSize int
}

// New wires an Emac to caller-allocated descriptor and buffer slices.
// It does not touch hardware; call Init to bring the peripheral up.
// log may be nil.
func New(txDescs []desc.TxDescriptor, txBufs [][]byte, rxDescs []desc.RxDescriptor, rxBufs [][]byte, cfg EmacConfig, log *slog.Logger) *Emac {
	return &Emac{
		engine:    dma.NewEngine(txDescs, txBufs, rxDescs, rxBufs, uint32(cfg.Checksum.TxMode), log),
		cfg:       cfg,
		state:     Uninitialized,
		log:       log,
		writeHash: func(lo, hi uint32) { regs.SetHashLow(lo); regs.SetHashHigh(hi) },
		txRingLen: len(txDescs),
		rxRingLen: len(rxDescs),
		bufSize:   len(rxBufs[0]),
	}
}

// State returns the controller's current lifecycle state.
func (e *Emac) State() State { return e.state }

func (e *Emac) macConfigBits() uint32 {
	v := regs.MACConfigACS | regs.MACConfigJD | regs.MACConfigWD | regs.MACConfigCST
	if e.cfg.Duplex == FullDuplex {
		v |= regs.MACConfigDM
	}
	if e.cfg.Speed == Speed100 {
		v |= regs.MACConfigFES
	}
	if e.cfg.Checksum.RxEnable {
		v |= regs.MACConfigIPC
	}
	return v
}

func (e *Emac) frameFilterBits() uint32 {
	var v uint32
	if e.cfg.Promiscuous {
		v |= regs.FrameFilterPR
	}
	if e.cfg.PassAllMulticast {
		v |= regs.FrameFilterPM
	}
	return v
}

func (e *Emac) release() {
	regs.DisableAllInterrupts()
	regs.DisablePeripheralClock()
}

// Init brings the peripheral up from Uninitialized: peripheral clock
// and RAM power, DMA soft reset (bounded by cfg.ResetTimeout), bus
// mode, MAC configuration, frame filter, station address, checksum and
// flow-control water marks, then the descriptor rings. On any failure
// the state remains Uninitialized and the peripheral clock is released.
// Init does not program the MDC clock divider: cfg.MdcClockDivider is
// not read here, and MDIO transactions use the clock code the
// mdio.Controller was constructed with.
func (e *Emac) Init() error {
	if e.state != Uninitialized {
		return InvalidState
	}
	if e.cfg.MacAddress[0]&0x01 != 0 {
		return InvalidConfig
	}

	regs.EnablePeripheralClock()
	regs.EnableClocks()
	regs.PowerUpRAM()
	if e.cfg.PhyInterface == RMII {
		regs.SetRMIIMode()
		if e.cfg.RmiiClockMode == RmiiClockExternal {
			regs.SetRMIIClockExternal()
		} else {
			regs.SetRMIIClockInternal()
		}
	} else {
		regs.SetMIIMode()
	}

	regs.SoftReset()
	deadline := time.Now().Add(e.cfg.ResetTimeout)
	for regs.SoftResetPending() {
		if time.Now().After(deadline) {
			e.release()
			return ResetTimeout
		}
	}

	busMode := (uint32(e.cfg.DmaBurstLen) << regs.DMABusModePBLShift) & regs.DMABusModePBLMask
	busMode |= regs.DMABusModeATDS
	regs.SetBusMode(busMode)

	regs.SetConfiguration(e.macConfigBits())
	regs.SetFrameFilter(e.frameFilterBits())
	regs.SetStationAddress(e.cfg.MacAddress)

	opMode := regs.DMAOperationTSF | regs.DMAOperationRSF
	regs.SetOperationMode(opMode)

	if e.cfg.FlowControl.Enable {
		e.EnableFlowControl(e.cfg.FlowControl)
	}

	e.engine.Init()
	e.state = Initialized
	if e.log != nil {
		e.log.Info("emac initialized", "mac", e.cfg.MacAddress, "speed", e.cfg.Speed, "duplex", e.cfg.Duplex)
	}
	return nil
}

// Start arms the MAC and DMA for traffic, in the order RX DMA, TX DMA,
// MAC TX, MAC RX is forbidden by construction: per §4.7.1 the exact
// required order is MAC RX, DMA TX, DMA RX, MAC TX, avoiding receiving
// before RX DMA is armed and transmitting before TX DMA can accept.
func (e *Emac) Start() error {
	if e.state != Initialized && e.state != Stopped {
		return InvalidState
	}
	regs.ClearAllInterrupts()
	regs.EnableDefaultInterrupts()

	regs.SetConfiguration(regs.Configuration() | regs.MACConfigRE)
	regs.StartTx()
	regs.StartRx()
	regs.SetConfiguration(regs.Configuration() | regs.MACConfigTE)

	e.state = Running
	return nil
}

// Stop quiesces the peripheral: MAC TX off, TX DMA off (waiting for the
// TX queue to drain), RX DMA off, MAC RX off, TX FIFO flushed.
func (e *Emac) Stop() error {
	if e.state != Running {
		return InvalidState
	}
	regs.SetConfiguration(regs.Configuration() &^ regs.MACConfigTE)
	regs.StopTx()

	deadline := time.Now().Add(e.cfg.ResetTimeout)
	for DmaState(regs.TxProcessState()) != DmaStateStopped && DmaState(regs.TxProcessState()) != DmaStateSuspended {
		if time.Now().After(deadline) {
			break
		}
	}

	regs.StopRx()
	regs.SetConfiguration(regs.Configuration() &^ regs.MACConfigRE)
	regs.FlushTxFIFO()

	e.state = Stopped
	return nil
}

// Transmit submits frame to the TX ring. See internal/dma.Engine.Transmit
// for the exact boundary behaviors.
func (e *Emac) Transmit(frame []byte) error { return e.engine.Transmit(frame) }

// Receive copies the oldest completed frame into out. See
// internal/dma.Engine.Receive for the exact boundary behaviors.
func (e *Emac) Receive(out []byte) (int, error) { return e.engine.Receive(out) }

// RxAvailable reports whether Receive would find a completed frame.
func (e *Emac) RxAvailable() bool { return e.engine.RxAvailable() }

// TxReady reports whether Transmit would accept a frame.
func (e *Emac) TxReady() bool { return e.engine.TxReady() }

// SetMacAddress re-programs the station address and updates the shadow
// config so a later Stop/Start preserves it. Legal in any state at or
// past Initialized.
func (e *Emac) SetMacAddress(addr [6]byte) error {
	if e.state == Uninitialized {
		return NotInitialized
	}
	e.cfg.MacAddress = addr
	regs.SetStationAddress(addr)
	return nil
}

// SetSpeed re-programs the MAC's speed bit.
func (e *Emac) SetSpeed(speed Speed) error {
	if e.state == Uninitialized {
		return NotInitialized
	}
	e.cfg.Speed = speed
	v := regs.Configuration()
	if speed == Speed100 {
		v |= regs.MACConfigFES
	} else {
		v &^= regs.MACConfigFES
	}
	regs.SetConfiguration(v)
	return nil
}

// SetDuplex re-programs the MAC's duplex bit.
func (e *Emac) SetDuplex(duplex Duplex) error {
	if e.state == Uninitialized {
		return NotInitialized
	}
	e.cfg.Duplex = duplex
	v := regs.Configuration()
	if duplex == FullDuplex {
		v |= regs.MACConfigDM
	} else {
		v &^= regs.MACConfigDM
	}
	regs.SetConfiguration(v)
	return nil
}

// UpdateLink is a composite convenience applying a PHY-reported link
// status's speed and duplex in one call.
func (e *Emac) UpdateLink(speedMbps uint16, fullDuplex bool) error {
	speed := Speed10
	if speedMbps == 100 {
		speed = Speed100
	}
	duplex := HalfDuplex
	if fullDuplex {
		duplex = FullDuplex
	}
	if err := e.SetSpeed(speed); err != nil {
		return err
	}
	return e.SetDuplex(duplex)
}

// SetPromiscuous toggles promiscuous reception.
func (e *Emac) SetPromiscuous(enabled bool) error {
	if e.state == Uninitialized {
		return NotInitialized
	}
	e.cfg.Promiscuous = enabled
	v := regs.FrameFilter()
	if enabled {
		v |= regs.FrameFilterPR
	} else {
		v &^= regs.FrameFilterPR
	}
	regs.SetFrameFilter(v)
	return nil
}

// SetPassAllMulticast toggles accepting every multicast frame
// regardless of the hash filter.
func (e *Emac) SetPassAllMulticast(enabled bool) error {
	if e.state == Uninitialized {
		return NotInitialized
	}
	e.cfg.PassAllMulticast = enabled
	v := regs.FrameFilter()
	if enabled {
		v |= regs.FrameFilterPM
	} else {
		v &^= regs.FrameFilterPM
	}
	regs.SetFrameFilter(v)
	return nil
}

// SetBroadcastEnabled toggles whether broadcast frames are accepted.
func (e *Emac) SetBroadcastEnabled(enabled bool) error {
	if e.state == Uninitialized {
		return NotInitialized
	}
	v := regs.FrameFilter()
	if enabled {
		v &^= regs.FrameFilterDBF
	} else {
		v |= regs.FrameFilterDBF
	}
	regs.SetFrameFilter(v)
	return nil
}

// MemoryUsage reports this instance's static footprint: descriptor ring
// bytes plus backing buffer bytes, useful on a no-heap target where
// sizing is a compile-time concern.
type MemoryUsage struct {
	TxDescriptorBytes int
	RxDescriptorBytes int
	TxBufferBytes     int
	RxBufferBytes     int
}

// Total returns the sum of every field.
func (m MemoryUsage) Total() int {
	return m.TxDescriptorBytes + m.RxDescriptorBytes + m.TxBufferBytes + m.RxBufferBytes
}

// MemoryUsage computes this instance's static memory footprint.
func (e *Emac) MemoryUsage() MemoryUsage {
	const descSize = 32 // bytes per RxDescriptor/TxDescriptor
	return MemoryUsage{
		TxDescriptorBytes: descSize * e.txRingLen,
		RxDescriptorBytes: descSize * e.rxRingLen,
		TxBufferBytes:     e.bufSize * e.txRingLen,
		RxBufferBytes:     e.bufSize * e.rxRingLen,
	}
}
