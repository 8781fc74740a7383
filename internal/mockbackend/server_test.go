package mockbackend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	bookingusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/application/usecase"
	bookingdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/domain"
	bookinginfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/infrastructure"
	catalogusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/application/usecase"
	catalogdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	cataloginfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/infrastructure"
	realtimedomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/domain"
	realtimeinfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/infrastructure"
	sessionusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/session/application/usecase"
	sessiondomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/session/domain"
	sessioninfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/session/infrastructure"
	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/logging"
)

// The full stack logs every request it makes; keep the suite output
// readable.
func TestMain(m *testing.M) {
	slog.SetDefault(logging.Discard())
	os.Exit(m.Run())
}

// stack runs the mock backend in-process and wires the real client
// packages against it, the same way cmd/parkcli does.
type stack struct {
	srv      *httptest.Server
	backend  *Server
	sessions *sessionusecase.Manager
	catalog  *catalogusecase.Catalog
	bookings *bookingusecase.Lifecycle
}

func newStack(t *testing.T, cfg Config) *stack {
	t.Helper()

	e := echo.New()
	backend := New(cfg)
	backend.Routes(e.Group(""))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	t.Cleanup(backend.Shutdown)

	// The transport needs a token source before the session manager
	// exists; the closure resolves the cycle.
	var sessions *sessionusecase.Manager
	client, err := transport.New(transport.Config{
		BaseURL: srv.URL,
		Credentials: transport.TokenFunc(func() string {
			if sessions == nil {
				return ""
			}
			return sessions.Token()
		}),
		OnAuthFailure: func(token string) {
			if sessions != nil {
				sessions.Invalidate(token)
			}
		},
	})
	require.NoError(t, err)

	state := sessioninfra.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	sessions = sessionusecase.NewManager(sessioninfra.NewAuthHTTPClient(client), state, nil)

	catalogClient := cataloginfra.NewCatalogHTTPClient(client)
	catalog := catalogusecase.NewCatalog(catalogClient, catalogClient)
	bookings := bookingusecase.NewLifecycle(bookinginfra.NewBookingHTTPClient(client), catalog, nil)

	return &stack{srv: srv, backend: backend, sessions: sessions, catalog: catalog, bookings: bookings}
}

func (s *stack) login(t *testing.T, email, password string) sessiondomain.User {
	t.Helper()
	user, err := s.sessions.Login(context.Background(), sessiondomain.LoginCommand{Email: email, Password: password})
	require.NoError(t, err)
	return user
}

func TestStack_SessionRoundTrip(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	ctx := context.Background()

	require.False(t, s.sessions.Authenticated())

	user := s.login(t, "dana@example.com", "parkway99")
	require.Equal(t, "U2", user.ID)
	require.Equal(t, "Dana Driver", user.Name)
	require.False(t, user.IsAdmin())
	require.True(t, s.sessions.Authenticated())
	require.NotEmpty(t, s.sessions.Token())

	profile, err := s.sessions.Profile(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", profile.Email)
	require.Equal(t, "+64210000002", profile.Phone)

	// The update route alternates between a body and a 204; both
	// rotations must land on the fresh profile.
	updated, err := s.sessions.UpdateProfile(ctx, "", sessiondomain.UpdateProfileCommand{Name: "Dana D. Driver"})
	require.NoError(t, err)
	require.Equal(t, "Dana D. Driver", updated.Name)

	updated, err = s.sessions.UpdateProfile(ctx, "", sessiondomain.UpdateProfileCommand{Phone: "+64210000777"})
	require.NoError(t, err)
	require.Equal(t, "Dana D. Driver", updated.Name)
	require.Equal(t, "+64210000777", updated.Phone)

	s.sessions.Logout(ctx)
	require.False(t, s.sessions.Authenticated())
	require.Empty(t, s.sessions.Token())
}

func TestStack_RegisterThenDuplicate(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	ctx := context.Background()

	cmd := sessiondomain.RegisterCommand{Name: "Nia Rider", Email: "nia@example.com", Password: "sevenchars"}
	user, err := s.sessions.Register(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, "U3", user.ID)
	require.True(t, s.sessions.Authenticated())

	s.sessions.Logout(ctx)

	_, err = s.sessions.Register(ctx, cmd)
	require.Error(t, err)
	require.True(t, failure.IsKind(err, failure.KindValidation))
	require.Equal(t, "Email is already registered", failure.Classify(err).Message)
}

func TestStack_CatalogReadsAcrossShapes(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	ctx := context.Background()

	garages, err := s.catalog.Garages(ctx)
	require.NoError(t, err)
	require.Len(t, garages, 3)

	var central catalogdomain.Garage
	for _, garage := range garages {
		if garage.ID == "G1" {
			central = garage
		}
	}
	require.Equal(t, "Central Parkade", central.Name)
	require.InDelta(t, 4.6, central.Rating, 0.001)
	require.InDelta(t, 5, central.PricePerHour, 0.001)
	require.Equal(t, 6, central.TotalSlots)
	require.Equal(t, 6, central.AvailableSlots)
	require.Equal(t, "Downtown", central.Location.City)
	require.Contains(t, central.Amenities, "ev_charging")

	matches, err := s.catalog.Search(ctx, "harbour")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "G2", matches[0].ID)

	airport, err := s.catalog.Garage(ctx, "G3")
	require.NoError(t, err)
	require.Equal(t, 8, airport.TotalSlots)
	require.Equal(t, 7, airport.AvailableSlots)

	// The slots route alternates between two wire shapes; both must
	// normalize to the same slots.
	first, err := s.catalog.Slots(ctx, "G3")
	require.NoError(t, err)
	second, err := s.catalog.Slots(ctx, "G3")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, first, 8)

	byID := make(map[string]catalogdomain.Slot, len(first))
	for _, slot := range first {
		byID[slot.ID] = slot
	}
	require.Equal(t, catalogdomain.SlotStatusOccupied, byID["303"].Status)
	require.Equal(t, catalogdomain.SlotStatusAvailable, byID["301"].Status)
	require.Equal(t, catalogdomain.VehicleSizeCompact, byID["307"].VehicleSize)
	require.InDelta(t, 1.5, byID["307"].PricePerHour, 0.001)

	floors, err := s.catalog.Floors(ctx, "G1")
	require.NoError(t, err)
	require.Len(t, floors, 2)
	require.Equal(t, 1, floors[0].Level)
	require.Equal(t, 3, floors[0].TotalSlots)
}

func TestStack_BookingLifecycle(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	ctx := context.Background()
	s.login(t, "dana@example.com", "parkway99")

	booking, err := s.bookings.Reserve(ctx, bookingdomain.ReserveCommand{
		GarageID:      "G1",
		SlotID:        "104",
		VehiclePlate:  "JDM-909",
		DurationHours: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "1003", booking.ID)
	require.Equal(t, bookingdomain.StatusConfirmed, booking.Status)
	require.Equal(t, "G1", booking.GarageID)
	require.Equal(t, "Central Parkade", booking.GarageName)
	require.Equal(t, "104", booking.SlotID)
	require.Equal(t, 2, booking.DurationHours)
	require.InDelta(t, 10, booking.TotalPrice, 0.001)

	// The slot now reads occupied, so a second attempt dies before the
	// backend is asked.
	_, err = s.bookings.Reserve(ctx, bookingdomain.ReserveCommand{
		GarageID: "G1", SlotID: "104", DurationHours: 1,
	})
	require.ErrorIs(t, err, bookingusecase.ErrSlotUnavailable)

	buckets := s.bookings.List(ctx, "")
	require.Len(t, buckets.Current, 2)
	require.Len(t, buckets.Past, 1)
	require.Equal(t, "1001", buckets.Past[0].ID)

	intent, err := s.bookings.Pay(ctx, bookingdomain.PaymentFromBooking(booking, "card"))
	require.NoError(t, err)
	require.Equal(t, "PAY-1", intent.ID)
	require.Equal(t, "1003", intent.BookingID)
	require.Equal(t, "succeeded", intent.Status)
	require.InDelta(t, 10, intent.Amount, 0.001)

	cancelled, err := s.bookings.Cancel(ctx, "1003")
	require.NoError(t, err)
	require.Equal(t, bookingdomain.StatusCancelled, cancelled.Status)

	// Cancelling again hits the already-released slot; the backend's
	// complaint is absorbed.
	cancelled, err = s.bookings.Cancel(ctx, "1003")
	require.NoError(t, err)
	require.Equal(t, bookingdomain.StatusCancelled, cancelled.Status)

	ended, err := s.bookings.End(ctx, "1002")
	require.NoError(t, err)
	require.Equal(t, bookingdomain.StatusCompleted, ended.Status)

	ended, err = s.bookings.End(ctx, "1002")
	require.NoError(t, err)
	require.Equal(t, "1002", ended.ID)
	require.Equal(t, bookingdomain.StatusCompleted, ended.Status)

	buckets = s.bookings.List(ctx, "")
	require.Empty(t, buckets.Current)
	require.Len(t, buckets.Past, 3)
}

func TestStack_ListingDegradesWithoutSession(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})

	buckets := s.bookings.List(context.Background(), "")
	require.Empty(t, buckets.Current)
	require.Empty(t, buckets.Past)
}

func TestStack_GroupedListingFeedsPartitions(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	s.login(t, "dana@example.com", "parkway99")

	// The grouped variant of the listing route answers pre-partitioned;
	// the same normalizer must accept it.
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/bookings?grouped=1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.sessions.Token())
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var payload any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	buckets, dropped := bookingdomain.BuildBuckets(payload)
	require.Zero(t, dropped)
	require.Len(t, buckets.Current, 1)
	require.Len(t, buckets.Past, 1)
	require.Equal(t, "1002", buckets.Current[0].ID)
	require.Equal(t, "1001", buckets.Past[0].ID)
}

func TestStack_AdminManagesCatalog(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	ctx := context.Background()
	s.login(t, "admin@parking.local", "admin-parking")

	garage, err := s.catalog.CreateGarage(ctx, catalogdomain.CreateGarageCommand{
		Name: "Pop Up Lot", City: "Eastside", PricePerHour: 4,
	})
	require.NoError(t, err)
	require.Equal(t, "G4", garage.ID)

	slot, err := s.catalog.AddSlot(ctx, garage.ID, catalogdomain.CreateSlotCommand{Number: "P1", PricePerHour: 4})
	require.NoError(t, err)
	require.Equal(t, "P1", slot.Number)
	require.Equal(t, catalogdomain.SlotStatusAvailable, slot.Status)

	slots, err := s.catalog.Slots(ctx, garage.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	require.NoError(t, s.catalog.RemoveSlot(ctx, garage.ID, slots[0].ID))
	slots, err = s.catalog.Slots(ctx, garage.ID)
	require.NoError(t, err)
	require.Empty(t, slots)

	s.sessions.Logout(ctx)
	s.login(t, "dana@example.com", "parkway99")

	_, err = s.catalog.CreateGarage(ctx, catalogdomain.CreateGarageCommand{Name: "Backyard"})
	require.Error(t, err)
	require.True(t, failure.IsKind(err, failure.KindForbidden))
}

func TestStack_ExpiredTokenEndsSession(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true, TokenTTL: 50 * time.Millisecond})
	ctx := context.Background()

	s.login(t, "dana@example.com", "parkway99")
	require.True(t, s.sessions.Authenticated())

	time.Sleep(120 * time.Millisecond)

	_, err := s.sessions.Profile(ctx, "")
	require.Error(t, err)
	require.True(t, failure.IsKind(err, failure.KindUnauthorized))
	require.Equal(t, "invalid or expired token", failure.Classify(err).Message)
	require.False(t, s.sessions.Authenticated(), "rejected token must end the session")
}

func TestStack_ChangeFeedDeliversTransitions(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})
	ctx := context.Background()
	s.login(t, "dana@example.com", "parkway99")

	events := make(chan realtimedomain.Event, 16)
	listener := realtimeinfra.NewWSListener(s.srv.URL+"/ws/updates", s.sessions.Token, func(event realtimedomain.Event) {
		events <- event
	})
	require.NoError(t, listener.Start(ctx))
	t.Cleanup(listener.Stop)

	require.Eventually(t, func() bool {
		return s.backend.hub.Count() > 0
	}, 5*time.Second, 20*time.Millisecond, "feed client never attached")

	booking, err := s.bookings.Reserve(ctx, bookingdomain.ReserveCommand{
		GarageID: "G2", SlotID: "203", DurationHours: 1, VehiclePlate: "WS-FEED",
	})
	require.NoError(t, err)

	event := nextEvent(t, events)
	require.Equal(t, "slot.reserved", event.Topic())
	require.Equal(t, "203", event.ResourceID)
	require.Equal(t, "G2", event.Data["garage_id"])

	event = nextEvent(t, events)
	require.Equal(t, "booking.created", event.Topic())
	require.Equal(t, booking.ID, event.ResourceID)

	_, err = s.bookings.Cancel(ctx, booking.ID)
	require.NoError(t, err)

	event = nextEvent(t, events)
	require.Equal(t, "slot.released", event.Topic())
	event = nextEvent(t, events)
	require.Equal(t, "booking.cancelled", event.Topic())
	require.Equal(t, booking.ID, event.ResourceID)
}

func TestStack_MetricsCountRequests(t *testing.T) {
	t.Parallel()
	s := newStack(t, Config{Seed: true})

	_, err := s.catalog.Garages(context.Background())
	require.NoError(t, err)

	res, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "parkmock_http_requests_total")
	require.Contains(t, string(body), `route="GET /garages"`)
}

func nextEvent(t *testing.T, events <-chan realtimedomain.Event) realtimedomain.Event {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("no event arrived in time")
		return realtimedomain.Event{}
	}
}
