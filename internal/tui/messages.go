package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/cardwallet/internal/core/action"
)

const settleTickInterval = 50 * time.Millisecond

// actionDoneMsg is sent when a task action handler returns.
type actionDoneMsg struct {
	result action.Result
}

// settleTickMsg drives settle delays and failure badge expiry.
type settleTickMsg time.Time

func scheduleSettleTick() tea.Cmd {
	return tea.Tick(settleTickInterval, func(t time.Time) tea.Msg {
		return settleTickMsg(t)
	})
}
