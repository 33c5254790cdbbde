// internal/core/types.go
package core

// Mode selects how a run executes its rebalance schedule.
type Mode string

const (
	// ModeClose fills every order at its own date's close against a fixed
	// capital base.
	ModeClose Mode = "close"
	// ModeTPlus1 decides at one close, fills at the next and compounds the
	// running equity into each new decision.
	ModeTPlus1 Mode = "tplus1"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClose:
		return ModeClose, nil
	case ModeTPlus1:
		return ModeTPlus1, nil
	}
	return "", Wrapf(ErrInvalidInput, "unknown mode %q, want %q or %q", s, ModeClose, ModeTPlus1)
}
