package emac

import (
	"github.com/photon-circus/ph-esp32-mac/internal/dma"
	"github.com/photon-circus/ph-esp32-mac/internal/ioerr"
)

// ConfigError is returned by lifecycle and configuration calls. Every
// value is recoverable by the caller: fix the configuration, wait for
// the right state, or retry.
type ConfigError int

const (
	InvalidConfig ConfigError = iota
	InvalidState
	ResetTimeout
	NoFreeSlot
	NotInitialized
	AlreadyInitialized
)

func (e ConfigError) Error() string {
	switch e {
	case InvalidConfig:
		return "emac: invalid config"
	case InvalidState:
		return "emac: invalid state for this operation"
	case ResetTimeout:
		return "emac: dma soft reset timed out"
	case NoFreeSlot:
		return "emac: no free mac address filter slot"
	case NotInitialized:
		return "emac: not initialized"
	case AlreadyInitialized:
		return "emac: already initialized"
	default:
		return "emac: unknown config error"
	}
}

// DmaError is the data-path error kind, owned by internal/dma; it is
// re-exported here so callers of this package's Transmit/Receive never
// need to import internal/dma themselves.
type DmaError = dma.DmaError

const (
	NoFrameAvailable = dma.NoFrameAvailable
	TxBuffersFull    = dma.TxBuffersFull
	BufferTooSmall   = dma.BufferTooSmall
	FrameTooLarge    = dma.FrameTooLarge
	InvalidLength    = dma.InvalidLength
	ReceiveError     = dma.ReceiveError
)

// IoError is the MDIO/PHY error kind, owned by internal/ioerr and
// re-exported for the same reason as DmaError above.
type IoError = ioerr.IoError

const (
	Timeout     = ioerr.Timeout
	PhyMismatch = ioerr.PhyMismatch
	LinkDown    = ioerr.LinkDown
	MdioBusy    = ioerr.MdioBusy
)
