package port

import (
	"context"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/domain"
)

// Handler consumes one decoded backend event.
type Handler func(event domain.Event)

// Updates is the live feed lifecycle. Start returns once the delivery
// loop is running; implementations reconnect on their own until the
// context ends or Stop is called. A Start error means the feed cannot
// begin at all, not that one dial failed.
type Updates interface {
	Start(ctx context.Context) error
	Stop()
}
