package infrastructure

import (
	"context"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/application/port"
)

// NoopUpdates satisfies the feed contract when live updates are disabled.
type NoopUpdates struct{}

func (NoopUpdates) Start(context.Context) error { return nil }

func (NoopUpdates) Stop() {}

var _ port.Updates = NoopUpdates{}
