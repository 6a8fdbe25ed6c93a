// Package ioerr holds the error kind shared by the MDIO bus and PHY
// drivers. It is split out from both so neither has to import the other
// just to report a timeout.
package ioerr

// IoError is returned by MDIO and PHY operations and by the link-polling
// helpers built on top of them.
type IoError int

const (
	// Timeout means a bounded busy-wait (MDIO BUSY, soft reset, link poll)
	// exceeded its deadline.
	Timeout IoError = iota
	// PhyMismatch means verify_id read an OUI that does not match the
	// expected vendor family.
	PhyMismatch
	// LinkDown means a link-up helper's total timeout elapsed without
	// observing the link come up.
	LinkDown
	// MdioBusy means the MDIO bus reported BUSY past its own timeout
	// while a higher layer was mid-transaction; distinct from Timeout so
	// callers can tell a stuck bus from a stuck PHY.
	MdioBusy
)

func (e IoError) Error() string {
	switch e {
	case Timeout:
		return "ioerr: operation timed out"
	case PhyMismatch:
		return "ioerr: phy id mismatch"
	case LinkDown:
		return "ioerr: link down"
	case MdioBusy:
		return "ioerr: mdio busy"
	default:
		return "ioerr: unknown"
	}
}
