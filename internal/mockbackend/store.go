package mockbackend

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrBadCredentials  = errors.New("wrong email or password")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrGarageNotFound  = errors.New("garage not found")
	ErrSlotNotFound    = errors.New("parking slot not found")
	ErrSlotOccupied    = errors.New("slot is already reserved")
	ErrSlotFree        = errors.New("slot is already released")
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingDone     = errors.New("booking already completed")
)

type Account struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Avatar   string
	Role     string
	Password string
}

type Slot struct {
	ID           string
	Number       string
	Level        int
	VehicleSize  string
	PricePerHour float64
	Booked       bool
}

type Garage struct {
	ID           string
	Name         string
	Description  string
	Image        string
	Address      string
	City         string
	Lat          float64
	Lng          float64
	Rating       float64
	PricePerHour float64
	Amenities    []string
	Slots        []Slot
}

// Available counts the slots currently free.
func (g Garage) Available() int {
	free := 0
	for _, slot := range g.Slots {
		if !slot.Booked {
			free++
		}
	}
	return free
}

type Booking struct {
	ID            int
	UserID        string
	GarageID      string
	GarageName    string
	SlotID        string
	SlotNumber    string
	VehiclePlate  string
	Status        string
	PaymentID     string
	Start         time.Time
	End           time.Time
	DurationHours int
	Total         float64
}

// ChangeFunc receives every dataset mutation worth broadcasting.
type ChangeFunc func(entity, action, resourceID string, data map[string]any)

// Store is the in-memory dataset behind the development backend. All
// methods are safe for concurrent use; change notifications fire outside
// the lock.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	notify   ChangeFunc
	accounts []*Account
	garages  []*Garage
	bookings []*Booking

	nextAccount int
	nextGarage  int
	nextSlot    int
	nextBooking int
	nextPayment int
}

func NewStore(notify ChangeFunc) *Store {
	if notify == nil {
		notify = func(string, string, string, map[string]any) {}
	}
	return &Store{
		now:         time.Now,
		notify:      notify,
		nextAccount: 1,
		nextGarage:  1,
		nextSlot:    500,
		nextBooking: 1000,
		nextPayment: 1,
	}
}

// Seed loads the deterministic development dataset: two accounts, three
// garages and a booking history for the regular user.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = append(s.accounts,
		&Account{ID: "U1", Name: "Site Admin", Email: "admin@parking.local", Role: "admin", Password: "admin-parking"},
		&Account{ID: "U2", Name: "Dana Driver", Email: "dana@example.com", Phone: "+64210000002", Role: "user", Password: "parkway99"},
	)
	s.nextAccount = 3

	s.garages = append(s.garages,
		&Garage{
			ID: "G1", Name: "Central Parkade", Description: "Covered parking in the middle of town",
			Address: "12 Queen Street", City: "Downtown", Lat: -36.8485, Lng: 174.7633,
			Rating: 4.6, PricePerHour: 5,
			Amenities: []string{"covered", "ev_charging", "cctv"},
			Slots: []Slot{
				{ID: "101", Number: "101", Level: 1, VehicleSize: "compact", PricePerHour: 5},
				{ID: "102", Number: "102", Level: 1, VehicleSize: "standard", PricePerHour: 5},
				{ID: "103", Number: "103", Level: 1, VehicleSize: "standard", PricePerHour: 5},
				{ID: "104", Number: "104", Level: 2, VehicleSize: "standard", PricePerHour: 5},
				{ID: "105", Number: "105", Level: 2, VehicleSize: "large", PricePerHour: 6.5},
				{ID: "106", Number: "106", Level: 2, VehicleSize: "large", PricePerHour: 6.5},
			},
		},
		&Garage{
			ID: "G2", Name: "Harbour West", Description: "Open air lot by the marina",
			Address: "3 Wharf Road", City: "Harbourside", Lat: -36.8419, Lng: 174.7487,
			Rating: 4.1, PricePerHour: 3.5,
			Amenities: []string{"open_air", "cctv"},
			Slots: []Slot{
				{ID: "201", Number: "A1", Level: 0, VehicleSize: "standard", PricePerHour: 3.5},
				{ID: "202", Number: "A2", Level: 0, VehicleSize: "standard", PricePerHour: 3.5},
				{ID: "203", Number: "A3", Level: 0, VehicleSize: "large", PricePerHour: 4},
				{ID: "204", Number: "A4", Level: 0, VehicleSize: "compact", PricePerHour: 3},
			},
		},
		&Garage{
			ID: "G3", Name: "Airport Long Stay", Description: "Budget parking with shuttle",
			Address: "1 Runway Drive", City: "Airport", Lat: -37.0082, Lng: 174.785,
			Rating: 3.9, PricePerHour: 2,
			Amenities: []string{"shuttle", "open_air"},
			Slots: []Slot{
				{ID: "301", Number: "1", Level: 0, VehicleSize: "standard", PricePerHour: 2},
				{ID: "302", Number: "2", Level: 0, VehicleSize: "standard", PricePerHour: 2},
				{ID: "303", Number: "3", Level: 0, VehicleSize: "standard", PricePerHour: 2, Booked: true},
				{ID: "304", Number: "4", Level: 0, VehicleSize: "large", PricePerHour: 2.5},
				{ID: "305", Number: "5", Level: 0, VehicleSize: "standard", PricePerHour: 2},
				{ID: "306", Number: "6", Level: 0, VehicleSize: "standard", PricePerHour: 2},
				{ID: "307", Number: "7", Level: 0, VehicleSize: "compact", PricePerHour: 1.5},
				{ID: "308", Number: "8", Level: 0, VehicleSize: "standard", PricePerHour: 2},
			},
		},
	)
	s.nextGarage = 4

	now := s.now().UTC().Truncate(time.Second)
	s.bookings = append(s.bookings,
		&Booking{
			ID: 1001, UserID: "U2", GarageID: "G1", GarageName: "Central Parkade",
			SlotID: "102", SlotNumber: "102", VehiclePlate: "KXF-204",
			Status: "completed", Start: now.Add(-48 * time.Hour), End: now.Add(-45 * time.Hour),
			DurationHours: 3, Total: 15,
		},
		&Booking{
			ID: 1002, UserID: "U2", GarageID: "G3", GarageName: "Airport Long Stay",
			SlotID: "303", SlotNumber: "3", VehiclePlate: "KXF-204",
			Status: "reserved", Start: now.Add(-time.Hour), End: now.Add(3 * time.Hour),
			DurationHours: 4, Total: 8,
		},
	)
	s.nextBooking = 1002
}

func (s *Store) Authenticate(email, password string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := s.findByEmail(email)
	if account == nil || account.Password != password {
		return Account{}, ErrBadCredentials
	}
	return *account, nil
}

func (s *Store) Register(name, email, password, phone string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmail(email) != nil {
		return Account{}, ErrEmailTaken
	}
	account := &Account{
		ID:       fmt.Sprintf("U%d", s.nextAccount),
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Phone:    strings.TrimSpace(phone),
		Role:     "user",
		Password: password,
	}
	s.nextAccount++
	s.accounts = append(s.accounts, account)
	return *account, nil
}

func (s *Store) Account(id string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := s.findAccount(id)
	if account == nil {
		return Account{}, ErrAccountNotFound
	}
	return *account, nil
}

// UpdateAccount overwrites the supplied fields; blank values are left
// alone, matching the partial-update contract of the profile route.
func (s *Store) UpdateAccount(id string, fields map[string]string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := s.findAccount(id)
	if account == nil {
		return Account{}, ErrAccountNotFound
	}
	if v := strings.TrimSpace(fields["name"]); v != "" {
		account.Name = v
	}
	if v := strings.TrimSpace(fields["email"]); v != "" {
		account.Email = strings.ToLower(v)
	}
	if v := strings.TrimSpace(fields["phone"]); v != "" {
		account.Phone = v
	}
	if v := strings.TrimSpace(fields["avatar"]); v != "" {
		account.Avatar = v
	}
	return *account, nil
}

func (s *Store) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, account := range s.accounts {
		if account.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return ErrAccountNotFound
}

func (s *Store) Garages() []Garage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Garage, 0, len(s.garages))
	for _, garage := range s.garages {
		out = append(out, cloneGarage(garage))
	}
	return out
}

func (s *Store) SearchGarages(name string) []Garage {
	needle := strings.ToLower(strings.TrimSpace(name))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Garage, 0, len(s.garages))
	for _, garage := range s.garages {
		if needle == "" || strings.Contains(strings.ToLower(garage.Name), needle) || strings.Contains(strings.ToLower(garage.City), needle) {
			out = append(out, cloneGarage(garage))
		}
	}
	return out
}

func (s *Store) Garage(id string) (Garage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	garage := s.findGarage(id)
	if garage == nil {
		return Garage{}, ErrGarageNotFound
	}
	return cloneGarage(garage), nil
}

func (s *Store) CreateGarage(garage Garage) Garage {
	s.mu.Lock()
	garage.ID = fmt.Sprintf("G%d", s.nextGarage)
	s.nextGarage++
	if garage.PricePerHour <= 0 {
		garage.PricePerHour = 1
	}
	stored := garage
	s.garages = append(s.garages, &stored)
	created := cloneGarage(&stored)
	s.mu.Unlock()

	s.notify("garage", "created", created.ID, map[string]any{"name": created.Name})
	return created
}

func (s *Store) Slots(garageID string) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	garage := s.findGarage(garageID)
	if garage == nil {
		return nil, ErrGarageNotFound
	}
	return append([]Slot(nil), garage.Slots...), nil
}

func (s *Store) CreateSlot(garageID string, slot Slot) (Slot, error) {
	s.mu.Lock()
	garage := s.findGarage(garageID)
	if garage == nil {
		s.mu.Unlock()
		return Slot{}, ErrGarageNotFound
	}
	slot.ID = strconv.Itoa(s.nextSlot)
	s.nextSlot++
	if slot.Number == "" {
		slot.Number = slot.ID
	}
	if slot.PricePerHour <= 0 {
		slot.PricePerHour = garage.PricePerHour
	}
	slot.Booked = false
	garage.Slots = append(garage.Slots, slot)
	s.mu.Unlock()

	s.notify("slot", "created", slot.ID, map[string]any{"garage_id": garageID})
	return slot, nil
}

func (s *Store) DeleteSlot(garageID, slotID string) error {
	s.mu.Lock()
	garage := s.findGarage(garageID)
	if garage == nil {
		s.mu.Unlock()
		return ErrGarageNotFound
	}
	for i, slot := range garage.Slots {
		if slot.ID == slotID {
			garage.Slots = append(garage.Slots[:i], garage.Slots[i+1:]...)
			s.mu.Unlock()
			s.notify("slot", "deleted", slotID, map[string]any{"garage_id": garageID})
			return nil
		}
	}
	s.mu.Unlock()
	return ErrSlotNotFound
}

// Reserve books a slot and opens a booking. A missing plate is stamped
// with a placeholder; the reservation route tolerates plateless calls.
func (s *Store) Reserve(userID, garageID, slotID, plate string, hours int) (Booking, error) {
	if hours < 1 {
		hours = 1
	}
	if strings.TrimSpace(plate) == "" {
		plate = "N/A"
	}

	s.mu.Lock()
	garage := s.findGarage(garageID)
	if garage == nil {
		s.mu.Unlock()
		return Booking{}, ErrGarageNotFound
	}
	idx := findSlot(garage, slotID)
	if idx < 0 {
		s.mu.Unlock()
		return Booking{}, ErrSlotNotFound
	}
	if garage.Slots[idx].Booked {
		s.mu.Unlock()
		return Booking{}, ErrSlotOccupied
	}
	garage.Slots[idx].Booked = true

	now := s.now().UTC().Truncate(time.Second)
	s.nextBooking++
	booking := &Booking{
		ID:            s.nextBooking,
		UserID:        userID,
		GarageID:      garage.ID,
		GarageName:    garage.Name,
		SlotID:        garage.Slots[idx].ID,
		SlotNumber:    garage.Slots[idx].Number,
		VehiclePlate:  strings.TrimSpace(plate),
		Status:        "reserved",
		Start:         now,
		End:           now.Add(time.Duration(hours) * time.Hour),
		DurationHours: hours,
		Total:         garage.Slots[idx].PricePerHour * float64(hours),
	}
	s.bookings = append(s.bookings, booking)
	created := *booking
	s.mu.Unlock()

	s.notify("slot", "reserved", created.SlotID, map[string]any{"garage_id": created.GarageID, "status": "occupied"})
	s.notify("booking", "created", strconv.Itoa(created.ID), map[string]any{"status": created.Status, "garage_id": created.GarageID})
	return created, nil
}

// Release frees a slot and cancels whatever open booking holds it.
func (s *Store) Release(garageID, slotID string) error {
	s.mu.Lock()
	garage := s.findGarage(garageID)
	if garage == nil {
		s.mu.Unlock()
		return ErrGarageNotFound
	}
	idx := findSlot(garage, slotID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrSlotNotFound
	}
	if !garage.Slots[idx].Booked {
		s.mu.Unlock()
		return ErrSlotFree
	}
	garage.Slots[idx].Booked = false
	cancelled := 0
	for _, booking := range s.bookings {
		if booking.GarageID == garageID && booking.SlotID == slotID && booking.Status == "reserved" {
			booking.Status = "cancelled"
			cancelled = booking.ID
		}
	}
	s.mu.Unlock()

	s.notify("slot", "released", slotID, map[string]any{"garage_id": garageID, "status": "available"})
	if cancelled != 0 {
		s.notify("booking", "cancelled", strconv.Itoa(cancelled), map[string]any{"garage_id": garageID})
	}
	return nil
}

// EndBooking completes a booking and frees its slot. Ending twice is the
// client mistake the real backend answers with a 400.
func (s *Store) EndBooking(id string) (Booking, error) {
	numeric, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return Booking{}, ErrBookingNotFound
	}

	s.mu.Lock()
	booking := s.findBooking(numeric)
	if booking == nil {
		s.mu.Unlock()
		return Booking{}, ErrBookingNotFound
	}
	if booking.Status == "completed" {
		s.mu.Unlock()
		return Booking{}, ErrBookingDone
	}
	booking.Status = "completed"
	booking.End = s.now().UTC().Truncate(time.Second)
	freed := false
	if garage := s.findGarage(booking.GarageID); garage != nil {
		if idx := findSlot(garage, booking.SlotID); idx >= 0 && garage.Slots[idx].Booked {
			garage.Slots[idx].Booked = false
			freed = true
		}
	}
	ended := *booking
	s.mu.Unlock()

	s.notify("booking", "completed", strconv.Itoa(ended.ID), map[string]any{"garage_id": ended.GarageID})
	if freed {
		s.notify("slot", "released", ended.SlotID, map[string]any{"garage_id": ended.GarageID, "status": "available"})
	}
	return ended, nil
}

// Pay issues a payment id and pins it to the matching open booking when
// one exists. The route is deliberately lenient; an unmatched payment
// still gets an intent.
func (s *Store) Pay(userID, garageID, slotID string, amount float64) (paymentID string, bookingID int) {
	s.mu.Lock()
	paymentID = fmt.Sprintf("PAY-%d", s.nextPayment)
	s.nextPayment++
	for i := len(s.bookings) - 1; i >= 0; i-- {
		booking := s.bookings[i]
		if booking.UserID == userID && booking.GarageID == garageID && booking.SlotID == slotID && booking.Status == "reserved" {
			booking.PaymentID = paymentID
			if amount > 0 {
				booking.Total = amount
			}
			bookingID = booking.ID
			break
		}
	}
	s.mu.Unlock()
	return paymentID, bookingID
}

func (s *Store) Bookings(userID string) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		if userID == "" || booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Booking(id string) (Booking, error) {
	numeric, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return Booking{}, ErrBookingNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	booking := s.findBooking(numeric)
	if booking == nil {
		return Booking{}, ErrBookingNotFound
	}
	return *booking, nil
}

func (s *Store) findByEmail(email string) *Account {
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, account := range s.accounts {
		if strings.ToLower(account.Email) == needle {
			return account
		}
	}
	return nil
}

func (s *Store) findAccount(id string) *Account {
	for _, account := range s.accounts {
		if account.ID == id {
			return account
		}
	}
	return nil
}

func (s *Store) findGarage(id string) *Garage {
	for _, garage := range s.garages {
		if garage.ID == id {
			return garage
		}
	}
	return nil
}

func (s *Store) findBooking(id int) *Booking {
	for _, booking := range s.bookings {
		if booking.ID == id {
			return booking
		}
	}
	return nil
}

func findSlot(garage *Garage, slotID string) int {
	for i, slot := range garage.Slots {
		if slot.ID == slotID {
			return i
		}
	}
	return -1
}

func cloneGarage(garage *Garage) Garage {
	out := *garage
	out.Slots = append([]Slot(nil), garage.Slots...)
	return out
}
