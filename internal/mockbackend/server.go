// Package mockbackend is a development stand-in for the real parking
// backend. It serves the same routes with the same deliberately
// inconsistent payload shapes, so the client stack can be exercised end
// to end without network access to the production service.
package mockbackend

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/auth"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/httputil"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Seed loads the deterministic development dataset.
	Seed bool
}

type Server struct {
	cfg     Config
	store   *Store
	hub     *Hub
	metrics *metrics
	errors  *httputil.ErrorMapper

	// Rotation counters behind the inconsistent response shapes.
	errSeq    atomic.Int64
	slotSeq   atomic.Int64
	updateSeq atomic.Int64
}

func New(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "parkmock-dev-secret"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	s := &Server{cfg: cfg, hub: NewHub(), metrics: newMetrics()}
	s.store = NewStore(s.publish)
	s.errors = httputil.NewErrorMapper().
		WithMapping(ErrBadCredentials, http.StatusUnauthorized, "Wrong email or password").
		WithMapping(ErrEmailTaken, http.StatusBadRequest, "Email is already registered").
		WithMapping(ErrAccountNotFound, http.StatusNotFound, "Account does not exist").
		WithMapping(ErrGarageNotFound, http.StatusNotFound, "Garage does not exist").
		WithMapping(ErrSlotNotFound, http.StatusNotFound, "Parking slot does not exist").
		WithMapping(ErrSlotOccupied, http.StatusConflict, "Slot is already reserved").
		WithMapping(ErrSlotFree, http.StatusConflict, "Slot is already released").
		WithMapping(ErrBookingNotFound, http.StatusNotFound, "Booking does not exist").
		WithMapping(ErrBookingDone, http.StatusBadRequest, "Booking already completed")

	if cfg.Seed {
		s.store.Seed()
	}
	return s
}

// Routes registers every backend route on g. The real service hangs off
// /api/v1, so callers pick the prefix by choosing the group.
func (s *Server) Routes(g *echo.Group) {
	g.Use(s.metrics.middleware)

	g.POST("/auth-access-token", s.handleLogin)
	g.POST("/register", s.handleRegister)
	g.DELETE("/logout", s.handleLogout)
	g.DELETE("/logout/:token", s.handleLogout)

	g.GET("/profile/:id", s.handleProfile, s.requireAuth)
	g.PUT("/profile/:id", s.handleUpdateProfile, s.requireAuth)
	g.DELETE("/profile/:id", s.handleDeleteProfile, s.requireAuth)

	g.GET("/garages", s.handleGarages)
	g.GET("/garages/search", s.handleSearchGarages)
	g.GET("/garages/:id", s.handleGarage)
	g.GET("/garages/:id/parking", s.handleSlots)
	g.POST("/garages", s.handleCreateGarage, s.requireAuth, s.requireAdmin)
	g.POST("/places/:id/parking", s.handleCreateSlot, s.requireAuth, s.requireAdmin)
	g.DELETE("/places/:id/parking/:slotId", s.handleDeleteSlot, s.requireAuth, s.requireAdmin)

	g.POST("/places/:id/parking/:slotId/reserve", s.handleReserve, s.requireAuth)
	g.POST("/places/:id/parking/:slotId/release", s.handleRelease, s.requireAuth)

	g.GET("/bookings", s.handleBookings, s.requireAuth)
	g.GET("/bookings/:id", s.handleBooking, s.requireAuth)
	g.PUT("/bookings/:id/end", s.handleEnd, s.requireAuth)
	g.POST("/bookings/pay", s.handlePay, s.requireAuth)

	g.GET("/ws/updates", s.handleUpdates)
	g.GET("/metrics", s.metrics.handler())
}

// Shutdown drops the websocket clients. The echo server itself is closed
// by the caller.
func (s *Server) Shutdown() {
	s.hub.Close()
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := auth.Validate(s.cfg.JWTSecret, auth.RequestToken(c.Request()))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]any{"message": "invalid or expired token"})
		}
		c.Set("userID", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != "admin" {
			return s.fail(c, http.StatusForbidden, "Admin role required")
		}
		return next(c)
	}
}

func (s *Server) handleUpdates(c echo.Context) error {
	// The feed is open to anonymous listeners, but a supplied token must
	// be a valid one.
	if token := auth.RequestToken(c.Request()); token != "" {
		if _, err := auth.Validate(s.cfg.JWTSecret, token); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]any{"message": "invalid or expired token"})
		}
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s.hub.Serve(conn)
	return nil
}

// publish turns a dataset change into the loose wire frame the feed
// sends: a dotted topic plus an entity-specific id field.
func (s *Server) publish(entity, action, resourceID string, data map[string]any) {
	frame := map[string]any{
		"topic": entity + "." + action,
		"data":  data,
	}
	switch entity {
	case "slot":
		frame["slot_id"] = resourceID
	case "booking":
		frame["booking_id"] = resourceID
	default:
		frame["id"] = resourceID
	}
	s.hub.Broadcast(frame)
}

// fail writes an error body, alternating between the two field names the
// real backend uses.
func (s *Server) fail(c echo.Context, status int, message string) error {
	if s.errSeq.Add(1)%2 == 0 {
		return c.JSON(status, map[string]any{"error": message})
	}
	return c.JSON(status, map[string]any{"message": message})
}

func (s *Server) writeError(c echo.Context, err error) error {
	info := s.errors.Map(err)
	return s.fail(c, info.Status, info.Message)
}

func (s *Server) userID(c echo.Context) string {
	id, _ := c.Get("userID").(string)
	return id
}

func (s *Server) issueToken(account Account) (string, error) {
	return auth.Sign(s.cfg.JWTSecret, account.ID, account.Name, account.Role, s.cfg.TokenTTL)
}
