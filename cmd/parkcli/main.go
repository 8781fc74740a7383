// Command parkcli drives the parking backend from the terminal. It wires
// the client stack once, restores any persisted session, runs a single
// subcommand and prints the classified failure sentence on error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/abdelrahmanseada/Car-Parking/internal/config"
	bookingusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/application/usecase"
	bookingdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/domain"
	bookinginfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/infrastructure"
	catalogusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/application/usecase"
	catalogdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	cataloginfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/infrastructure"
	realtimeusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/application/usecase"
	realtimedomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/domain"
	realtimeinfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/infrastructure"
	sessionusecase "github.com/abdelrahmanseada/Car-Parking/internal/modules/session/application/usecase"
	sessiondomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/session/domain"
	sessioninfra "github.com/abdelrahmanseada/Car-Parking/internal/modules/session/infrastructure"
	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/logging"
)

type app struct {
	cfg      *config.Config
	sessions *sessionusecase.Manager
	catalog  *catalogusecase.Catalog
	bookings *bookingusecase.Lifecycle
	registry *realtimeusecase.Registry
	out      io.Writer
}

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stderr, logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}))

	verbose := flag.Bool("v", false, "log every request and response")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	a, err := wire(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	a.sessions.Hydrate()

	command := flag.Arg(0)
	if err := a.run(context.Background(), command, flag.Args()[1:]); err != nil {
		slog.Debug("command failed", slog.String("command", command), slog.Any("error", err))
		fmt.Fprintln(os.Stderr, failure.Classify(err).Message)
		os.Exit(1)
	}
}

// wire builds the whole client stack exactly once. The transport needs a
// token source before the session manager exists; the closure resolves the
// cycle.
func wire(cfg *config.Config, verbose bool) (*app, error) {
	var sessions *sessionusecase.Manager

	tcfg := transport.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
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
		RatePerSecond: cfg.API.RatePerSecond,
	}
	if verbose {
		tcfg.Hooks = append(tcfg.Hooks, transport.VerboseHook(
			logging.New(os.Stderr, logging.Config{Level: "debug", Format: cfg.Logging.Format})))
	}
	client, err := transport.New(tcfg)
	if err != nil {
		return nil, err
	}

	state := sessioninfra.NewFileStore(cfg.Session.StateFile)
	sessions = sessionusecase.NewManager(sessioninfra.NewAuthHTTPClient(client), state, func() {
		fmt.Fprintln(os.Stderr, "session expired, log in again")
	})

	registry := realtimeusecase.NewRegistry()
	catalogClient := cataloginfra.NewCatalogHTTPClient(client)
	catalog := catalogusecase.NewCatalog(catalogClient, catalogClient)
	bookings := bookingusecase.NewLifecycle(
		bookinginfra.NewBookingHTTPClient(client),
		catalog,
		realtimeusecase.NewBookingNotifier(registry),
	)

	return &app{
		cfg:      cfg,
		sessions: sessions,
		catalog:  catalog,
		bookings: bookings,
		registry: registry,
		out:      os.Stdout,
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		a.sessions.Logout(ctx)
		fmt.Fprintln(a.out, "signed out")
		return nil
	case "me":
		return a.me(ctx)
	case "garages":
		return a.garages(ctx, args)
	case "garage":
		return a.garage(ctx, args)
	case "floors":
		return a.floors(ctx, args)
	case "slots":
		return a.slots(ctx, args)
	case "slot":
		return a.slot(ctx, args)
	case "reserve":
		return a.reserve(ctx, args)
	case "cancel":
		return a.cancel(ctx, args)
	case "pay":
		return a.pay(ctx, args)
	case "end":
		return a.end(ctx, args)
	case "bookings":
		return a.listBookings(ctx)
	case "watch":
		return a.watch(ctx, args)
	default:
		usage()
		return failure.Validation("unknown command " + command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.sessions.Login(ctx, sessiondomain.LoginCommand{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", user.Name, user.ID)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	phone := fs.String("phone", "", "phone number")
	fs.Parse(args)

	user, err := a.sessions.Register(ctx, sessiondomain.RegisterCommand{
		Name: *name, Email: *email, Password: *password, Phone: *phone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered and signed in as %s (%s)\n", user.Name, user.ID)
	return nil
}

func (a *app) me(ctx context.Context) error {
	if !a.sessions.Authenticated() {
		return failure.Unauthorized("you are not signed in")
	}
	user, err := a.sessions.Profile(ctx, "")
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintf(w, "ID\t%s\n", user.ID)
	fmt.Fprintf(w, "NAME\t%s\n", user.Name)
	fmt.Fprintf(w, "EMAIL\t%s\n", user.Email)
	if user.Phone != "" {
		fmt.Fprintf(w, "PHONE\t%s\n", user.Phone)
	}
	fmt.Fprintf(w, "ROLE\t%s\n", user.Role)
	return w.Flush()
}

func (a *app) garages(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("garages", flag.ExitOnError)
	search := fs.String("search", "", "filter by garage name")
	fs.Parse(args)

	garages, err := a.catalog.Search(ctx, *search)
	if err != nil {
		return err
	}
	if len(garages) == 0 {
		fmt.Fprintln(a.out, "no garages found")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tRATE/H\tFREE\tRATING")
	for _, garage := range garages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d/%d\t%.1f\n",
			garage.ID, garage.Name, garage.Location.City, garage.PricePerHour,
			garage.AvailableSlots, garage.TotalSlots, garage.Rating)
	}
	return w.Flush()
}

func (a *app) garage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("garage", flag.ExitOnError)
	id := fs.String("id", "", "garage id")
	fs.Parse(args)

	garage, err := a.catalog.Garage(ctx, *id)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintf(w, "ID\t%s\n", garage.ID)
	fmt.Fprintf(w, "NAME\t%s\n", garage.Name)
	if garage.Description != "" {
		fmt.Fprintf(w, "ABOUT\t%s\n", garage.Description)
	}
	fmt.Fprintf(w, "ADDRESS\t%s\n", strings.TrimSpace(garage.Location.Address+", "+garage.Location.City))
	fmt.Fprintf(w, "RATE/H\t%.2f\n", garage.PricePerHour)
	fmt.Fprintf(w, "FREE\t%d of %d\n", garage.AvailableSlots, garage.TotalSlots)
	fmt.Fprintf(w, "RATING\t%.1f\n", garage.Rating)
	if len(garage.Amenities) > 0 {
		fmt.Fprintf(w, "AMENITIES\t%s\n", strings.Join(garage.Amenities, ", "))
	}
	return w.Flush()
}

func (a *app) floors(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("floors", flag.ExitOnError)
	garageID := fs.String("garage", "", "garage id")
	fs.Parse(args)

	floors, err := a.catalog.Floors(ctx, *garageID)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "FLOOR\tLEVEL\tFREE")
	for _, floor := range floors {
		fmt.Fprintf(w, "%s\t%d\t%d/%d\n", floor.Name, floor.Level, floor.AvailableSlots, floor.TotalSlots)
	}
	return w.Flush()
}

func (a *app) slots(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	garageID := fs.String("garage", "", "garage id")
	fs.Parse(args)

	slots, err := a.catalog.Slots(ctx, *garageID)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNUMBER\tLEVEL\tSIZE\tRATE/H\tSTATUS")
	for _, slot := range slots {
		printSlotRow(w, slot)
	}
	return w.Flush()
}

func (a *app) slot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("slot", flag.ExitOnError)
	garageID := fs.String("garage", "", "garage id")
	id := fs.String("id", "", "slot id")
	fs.Parse(args)

	slot, err := a.catalog.Slot(ctx, *garageID, *id)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNUMBER\tLEVEL\tSIZE\tRATE/H\tSTATUS")
	printSlotRow(w, slot)
	return w.Flush()
}

func (a *app) reserve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reserve", flag.ExitOnError)
	garageID := fs.String("garage", "", "garage id")
	slotID := fs.String("slot", "", "slot id")
	hours := fs.Int("hours", 1, "duration in hours")
	plate := fs.String("plate", "", "vehicle plate")
	fs.Parse(args)

	booking, err := a.bookings.Reserve(ctx, bookingdomain.ReserveCommand{
		GarageID:      *garageID,
		SlotID:        *slotID,
		DurationHours: *hours,
		VehiclePlate:  *plate,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "reserved slot %s at %s, booking %s, total %.2f\n",
		booking.SlotID, garageLabel(booking), booking.ID, booking.TotalPrice)
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.String("booking", "", "booking id")
	fs.Parse(args)

	booking, err := a.bookings.Cancel(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking %s cancelled, slot %s released\n", booking.ID, booking.SlotID)
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	id := fs.String("booking", "", "booking id")
	method := fs.String("method", "card", "payment method (card, cash, wallet)")
	fs.Parse(args)

	booking, err := a.bookings.Get(ctx, *id)
	if err != nil {
		return err
	}
	intent, err := a.bookings.Pay(ctx, bookingdomain.PaymentFromBooking(booking, *method))
	if err != nil {
		return err
	}
	status := intent.Status
	if status == "" {
		status = "submitted"
	}
	fmt.Fprintf(a.out, "payment %s %s, %.2f for booking %s\n", intent.ID, status, intent.Amount, booking.ID)
	return nil
}

func (a *app) end(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("end", flag.ExitOnError)
	id := fs.String("booking", "", "booking id")
	fs.Parse(args)

	booking, err := a.bookings.End(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking %s completed\n", booking.ID)
	return nil
}

func (a *app) listBookings(ctx context.Context) error {
	if !a.sessions.Authenticated() {
		return failure.Unauthorized("you are not signed in")
	}
	buckets := a.bookings.List(ctx, "")
	if len(buckets.Current) == 0 && len(buckets.Past) == 0 {
		fmt.Fprintln(a.out, "no bookings")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tGARAGE\tSLOT\tSTATUS\tFROM\tHOURS\tTOTAL")
	for _, booking := range buckets.Current {
		printBookingRow(w, booking)
	}
	for _, booking := range buckets.Past {
		printBookingRow(w, booking)
	}
	return w.Flush()
}

func (a *app) watch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	feedURL := fs.String("url", "", "feed url (defaults to the configured one)")
	fs.Parse(args)

	target := strings.TrimSpace(*feedURL)
	if target == "" {
		if !a.cfg.Realtime.Enabled {
			return failure.Validation("live updates are disabled; set PARKING_REALTIME_ENABLED=true or pass -url")
		}
		target = a.cfg.Realtime.URL
	}

	unsubscribe := a.registry.Subscribe("", func(event realtimedomain.Event) {
		line := fmt.Sprintf("%s  %-20s %s", event.Timestamp.Local().Format("15:04:05"), event.Topic(), event.ResourceID)
		if len(event.Data) > 0 {
			if data, err := json.Marshal(event.Data); err == nil {
				line += "  " + string(data)
			}
		}
		fmt.Fprintln(a.out, line)
	})
	defer unsubscribe()

	listener := realtimeinfra.NewWSListener(target, a.sessions.Token, a.registry.Dispatch)
	if err := listener.Start(ctx); err != nil {
		return err
	}
	defer listener.Stop()

	fmt.Fprintf(a.out, "watching %s (ctrl-c to stop)\n", target)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	return nil
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
}

func printSlotRow(w io.Writer, slot catalogdomain.Slot) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2f\t%s\n",
		slot.ID, slot.Number, slot.Level, slot.VehicleSize, slot.PricePerHour, slot.Status)
}

func printBookingRow(w io.Writer, booking bookingdomain.Booking) {
	from := ""
	if !booking.Start.IsZero() {
		from = booking.Start.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f\n",
		booking.ID, garageLabel(booking), booking.SlotID, booking.Status, from,
		booking.DurationHours, booking.TotalPrice)
}

func garageLabel(booking bookingdomain.Booking) string {
	if booking.GarageName != "" {
		return booking.GarageName
	}
	return booking.GarageID
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: parkcli [-v] <command> [flags]

Session
  login -email E -password P        sign in and persist the session
  register -name N -email E -password P [-phone P]
  logout                            end the session
  me                                show the signed-in profile

Catalog
  garages [-search NAME]            list garages
  garage -id ID                     show one garage
  floors -garage ID                 list the floors of a garage
  slots -garage ID                  list the slots of a garage
  slot -garage ID -id SLOT          show one slot

Bookings
  reserve -garage ID -slot ID [-hours N] [-plate P]
  cancel -booking ID                cancel and free the slot
  pay -booking ID [-method card]    pay for a booking
  end -booking ID                   complete a booking
  bookings                          list current and past bookings

Live
  watch [-url WS]                   stream backend change events
`)
}
