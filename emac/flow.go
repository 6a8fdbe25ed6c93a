package emac

import "github.com/photon-circus/ph-esp32-mac/internal/regs"

// EnableFlowControl programs the flow-control water marks and PAUSE
// time and turns on RX/TX flow control, but only if cfg.PeerPauseAbility
// says the link partner can honor PAUSE: a peer that cannot should never
// have TFE/RFE turned on for it. PeerPauseAbility is a pure software
// gate, unrelated to the MAC's unicast-pause-detect hardware bit.
func (e *Emac) EnableFlowControl(cfg FlowControlConfig) {
	e.cfg.FlowControl = cfg
	v := regs.FlowControl() &^ (regs.FlowCtrlRFE | regs.FlowCtrlTFE)
	v |= (uint32(cfg.LowThreshold) << regs.FlowCtrlPLTShift) & regs.FlowCtrlPLTMask
	v |= (uint32(cfg.PauseTimeSlots) << regs.FlowCtrlPTShift) & regs.FlowCtrlPTMask
	if cfg.PeerPauseAbility {
		v |= regs.FlowCtrlRFE | regs.FlowCtrlTFE
	}
	regs.SetFlowControl(v)
}

// DisableFlowControl turns off RX/TX flow control without disturbing
// the programmed water marks and PAUSE time.
func (e *Emac) DisableFlowControl() {
	e.cfg.FlowControl.Enable = false
	regs.SetFlowControl(regs.FlowControl() &^ (regs.FlowCtrlRFE | regs.FlowCtrlTFE))
}

// SetPeerPauseAbility flags whether the link partner can honor PAUSE by
// setting PeerPauseAbility in the shadow config. It does not touch the
// flow-control register. EnableFlowControl gates on the PeerPauseAbility
// of the config it is passed and replaces the shadow with that config,
// so the flag set here takes effect only where the shadow config is
// what gets passed (as Init does); a later EnableFlowControl call with a
// different config is not gated by it.
func (e *Emac) SetPeerPauseAbility(able bool) {
	e.cfg.FlowControl.PeerPauseAbility = able
}

// CheckFlowControl reports whether the MAC is currently asserting PAUSE
// (backpressure activate / flow-control busy), read live from the flow
// control register rather than from any cached state.
func (e *Emac) CheckFlowControl() bool {
	return regs.FlowControl()&regs.FlowCtrlFCBBPA != 0
}
