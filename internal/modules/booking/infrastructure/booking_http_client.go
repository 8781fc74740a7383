package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// BookingHTTPClient implements the booking gateway against the backend's
// split endpoint layout. Reserve and pay carry an idempotency key because
// they are sent exactly once per user decision.
type BookingHTTPClient struct {
	transport *transport.Client
}

func NewBookingHTTPClient(client *transport.Client) *BookingHTTPClient {
	return &BookingHTTPClient{transport: client}
}

func (c *BookingHTTPClient) Reserve(ctx context.Context, cmd domain.ReserveCommand) (domain.Booking, error) {
	path, err := reservePath(cmd.GarageID, cmd.SlotID)
	if err != nil {
		return domain.Booking{}, err
	}
	res, err := c.transport.Send(ctx, transport.Request{
		Method:         http.MethodPost,
		Path:           path,
		Body:           cmd,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return decodeBooking(res)
}

func (c *BookingHTTPClient) Release(ctx context.Context, garageID, slotID string) error {
	path, err := releasePath(garageID, slotID)
	if err != nil {
		return err
	}
	_, err = c.transport.Send(ctx, transport.Request{Method: http.MethodPost, Path: path})
	if backendComplains(err, "already released", "not reserved", "already free") {
		return port.ErrAlreadyReleased
	}
	return err
}

func (c *BookingHTTPClient) Pay(ctx context.Context, cmd domain.PayCommand) (domain.PaymentIntent, error) {
	res, err := c.transport.Send(ctx, transport.Request{
		Method:         http.MethodPost,
		Path:           bookingPayPath,
		Body:           cmd.Wire(),
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.PaymentIntent{}, normalization.NewError("payment", "invalid json payload")
	}
	return domain.BuildPaymentIntent(payload), nil
}

func (c *BookingHTTPClient) End(ctx context.Context, bookingID string) (domain.Booking, error) {
	path, err := bookingEndPath(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodPut, Path: path})
	if err != nil {
		if backendComplains(err, "already completed") {
			return domain.Booking{}, port.ErrAlreadyCompleted
		}
		return domain.Booking{}, err
	}
	return decodeBooking(res)
}

func (c *BookingHTTPClient) FetchBookings(ctx context.Context, userID string) (domain.Buckets, error) {
	query := url.Values{}
	if trimmed := strings.TrimSpace(userID); trimmed != "" {
		query.Set("userId", trimmed)
	}
	res, err := c.transport.Send(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   bookingsPath,
		Query:  query,
	})
	if err != nil {
		return domain.Buckets{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.Buckets{}, normalization.NewError("bookings", "invalid json payload")
	}
	buckets, dropped := domain.BuildBuckets(payload)
	if dropped > 0 {
		slog.Warn("booking listing items dropped", slog.Int("count", dropped))
	}
	return buckets, nil
}

func (c *BookingHTTPClient) FetchBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	path, err := bookingPath(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return domain.Booking{}, err
	}
	return decodeBooking(res)
}

func decodeBooking(res *transport.Response) (domain.Booking, error) {
	payload, err := res.Decode()
	if err != nil {
		return domain.Booking{}, normalization.NewError("booking", "invalid json payload")
	}
	return domain.BuildBookingDetail(payload)
}

// backendComplains reports whether err is a 4xx response whose message
// contains any of the fragments.
func backendComplains(err error, fragments ...string) bool {
	var terr *transport.Error
	if !errors.As(err, &terr) || !terr.IsClientError() {
		return false
	}
	message := strings.ToLower(failure.BackendMessage(terr.Body))
	for _, fragment := range fragments {
		if strings.Contains(message, fragment) {
			return true
		}
	}
	return false
}

var _ port.Gateway = (*BookingHTTPClient)(nil)
