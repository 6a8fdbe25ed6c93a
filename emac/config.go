package emac

import (
	"time"

	"github.com/photon-circus/ph-esp32-mac/internal/desc"
)

// Speed is the MAC's configured link speed in Mbps.
type Speed uint8

const (
	Speed10  Speed = 10
	Speed100 Speed = 100
)

// Duplex is the MAC's configured duplex mode.
type Duplex uint8

const (
	HalfDuplex Duplex = iota
	FullDuplex
)

// PhyInterface selects the electrical interface to the external PHY.
type PhyInterface uint8

const (
	RMII PhyInterface = iota
	MII
)

// RmiiClockMode selects where the RMII reference clock comes from. Only
// meaningful when PhyInterface is RMII.
type RmiiClockMode uint8

const (
	// RmiiClockExternal takes the 50MHz reference from the dedicated
	// external input pin, typically driven by the PHY's own crystal.
	RmiiClockExternal RmiiClockMode = iota
	// RmiiClockInternalOutput drives the reference clock from one of
	// this SoC's internal output pins, for PHYs with no crystal of
	// their own.
	RmiiClockInternalOutput
)

// DmaBurstLen is the DMA's programmable burst length, in beats.
type DmaBurstLen uint8

const (
	Burst1  DmaBurstLen = 1
	Burst2  DmaBurstLen = 2
	Burst4  DmaBurstLen = 4
	Burst8  DmaBurstLen = 8
	Burst16 DmaBurstLen = 16
	Burst32 DmaBurstLen = 32
)

// TxChecksumMode selects how much of the outgoing frame the MAC
// computes a checksum for. Values mirror internal/desc's TDES0 codes.
type TxChecksumMode uint32

const (
	ChecksumDisabled     TxChecksumMode = TxChecksumMode(desc.ChecksumDisabled)
	ChecksumIPHeaderOnly TxChecksumMode = TxChecksumMode(desc.ChecksumIPHeaderOnly)
	ChecksumIPAndPayload TxChecksumMode = TxChecksumMode(desc.ChecksumIPAndPayload)
	ChecksumFull         TxChecksumMode = TxChecksumMode(desc.ChecksumFull)
)

// PauseLowThreshold codes the four low-water-mark values the MAC
// understands for when to de-assert PAUSE, expressed in pause
// slot-times below the PAUSE time sent. Which of these four to use is
// a deployment decision this module does not make on the caller's
// behalf.
type PauseLowThreshold uint32

const (
	PauseLowMinus4   PauseLowThreshold = 0
	PauseLowMinus28  PauseLowThreshold = 1
	PauseLowMinus36  PauseLowThreshold = 2
	PauseLowMinus144 PauseLowThreshold = 3
)

// ChecksumConfig groups the RX/TX checksum-offload options.
type ChecksumConfig struct {
	RxEnable bool
	TxMode   TxChecksumMode
}

// FlowControlConfig groups the 802.3x PAUSE options. Enabling flow
// control programs the water marks and PAUSE time but does not by
// itself let the MAC transmit PAUSE frames unless PeerPauseAbility is
// also set, since a peer that can't honor PAUSE should never be sent
// one.
type FlowControlConfig struct {
	Enable           bool
	LowThreshold     PauseLowThreshold
	PauseTimeSlots   uint16
	PeerPauseAbility bool
}

// MacAddressFilter is one perfect-match filter slot's configuration:
// an address plus a byte mask selecting which of its 6 bytes the
// hardware actually compares.
type MacAddressFilter struct {
	Address  [6]byte
	ByteMask uint8
}

// BufferLayout names a ring-size/buffer-size combination for sizing the
// caller's statically-allocated descriptor and buffer arrays. Go has no
// const generics, so the three size presets the original driver aliases
// as distinct types become plain values here; NewDefault/NewSmall/NewLarge
// pair a BufferLayout with a matching EmacConfig.
type BufferLayout struct {
	RxCount  int
	TxCount  int
	BufSize  int
}

// DefaultBufferSize is large enough to hold any single VLAN-tagged
// 802.3 frame including its CRC, guaranteeing every RX frame fits in
// one descriptor (per §9's "ring sizing" note: BUF must be ≥ 1522).
const DefaultBufferSize = 1536

var (
	// SmallLayout minimizes memory at the cost of more frequent
	// TxBuffersFull/NoFrameAvailable backpressure.
	SmallLayout = BufferLayout{RxCount: 2, TxCount: 2, BufSize: DefaultBufferSize}
	// DefaultLayout is a reasonable default for most applications.
	DefaultLayout = BufferLayout{RxCount: 4, TxCount: 4, BufSize: DefaultBufferSize}
	// LargeLayout tolerates larger latency spikes at the cost of
	// 32 bytes + BufSize of static memory per extra slot.
	LargeLayout = BufferLayout{RxCount: 16, TxCount: 16, BufSize: DefaultBufferSize}
)

// EmacConfig is the runtime configuration surface: everything except
// buffer counts and buffer size, which are construction-time parameters
// of the instance (see BufferLayout) rather than runtime options.
type EmacConfig struct {
	PhyInterface     PhyInterface
	RmiiClockMode    RmiiClockMode
	MacAddress       [6]byte
	Speed            Speed
	Duplex           Duplex
	DmaBurstLen      DmaBurstLen
	MdcClockDivider  uint32
	ResetTimeout     time.Duration
	Checksum         ChecksumConfig
	FlowControl      FlowControlConfig
	Promiscuous      bool
	PassAllMulticast bool
}

// defaultConfig is shared by NewDefault/NewSmall/NewLarge; the three
// only differ in the BufferLayout they're paired with.
func defaultConfig() EmacConfig {
	return EmacConfig{
		PhyInterface:    RMII,
		RmiiClockMode:   RmiiClockExternal,
		Speed:           Speed100,
		Duplex:          FullDuplex,
		DmaBurstLen:     Burst32,
		MdcClockDivider: 0, // caller picks via WithMdcClockDivider once the CPU clock is known
		ResetTimeout:    100 * time.Millisecond,
		Checksum:        ChecksumConfig{RxEnable: true, TxMode: ChecksumFull},
	}
}

// NewDefault returns the default config paired with DefaultLayout.
func NewDefault() (EmacConfig, BufferLayout) { return defaultConfig(), DefaultLayout }

// NewSmall returns the default config paired with SmallLayout.
func NewSmall() (EmacConfig, BufferLayout) { return defaultConfig(), SmallLayout }

// NewLarge returns the default config paired with LargeLayout.
func NewLarge() (EmacConfig, BufferLayout) { return defaultConfig(), LargeLayout }

// WithMacAddress sets the station address. Bit 0 of the first byte must
// be 0 (unicast); InvalidConfig is the caller's responsibility to check
// via Init, which validates it.
func (c EmacConfig) WithMacAddress(addr [6]byte) EmacConfig {
	c.MacAddress = addr
	return c
}

func (c EmacConfig) WithPhyInterface(v PhyInterface) EmacConfig { c.PhyInterface = v; return c }

func (c EmacConfig) WithRmiiClockMode(v RmiiClockMode) EmacConfig { c.RmiiClockMode = v; return c }

func (c EmacConfig) WithSpeed(v Speed) EmacConfig { c.Speed = v; return c }

func (c EmacConfig) WithDuplex(v Duplex) EmacConfig { c.Duplex = v; return c }

func (c EmacConfig) WithDmaBurstLen(v DmaBurstLen) EmacConfig { c.DmaBurstLen = v; return c }

func (c EmacConfig) WithMdcClockDivider(v uint32) EmacConfig { c.MdcClockDivider = v; return c }

func (c EmacConfig) WithResetTimeout(v time.Duration) EmacConfig { c.ResetTimeout = v; return c }

func (c EmacConfig) WithChecksum(v ChecksumConfig) EmacConfig { c.Checksum = v; return c }

func (c EmacConfig) WithFlowControl(v FlowControlConfig) EmacConfig { c.FlowControl = v; return c }

func (c EmacConfig) WithPromiscuous(v bool) EmacConfig { c.Promiscuous = v; return c }

func (c EmacConfig) WithPassAllMulticast(v bool) EmacConfig { c.PassAllMulticast = v; return c }
