package mockbackend

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleLogin(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}

	account, err := s.store.Authenticate(body.Email, body.Password)
	if err != nil {
		return s.writeError(c, err)
	}
	token, err := s.issueToken(account)
	if err != nil {
		return s.writeError(c, err)
	}
	// The auth route double-wraps its payload.
	return c.JSON(http.StatusOK, map[string]any{
		"data": map[string]any{
			"data": map[string]any{
				"user":  snakeUser(account),
				"token": token,
			},
		},
	})
}

func (s *Server) handleRegister(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Email) == "" || strings.TrimSpace(body.Password) == "" {
		return s.fail(c, http.StatusBadRequest, "name, email and password are required")
	}

	account, err := s.store.Register(body.Name, body.Email, body.Password, body.Phone)
	if err != nil {
		return s.writeError(c, err)
	}
	token, err := s.issueToken(account)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"user":  snakeUser(account),
		"token": token,
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// profileAllowed restricts profile routes to the owner or an admin.
func (s *Server) profileAllowed(c echo.Context, id string) bool {
	if role, _ := c.Get("role").(string); role == "admin" {
		return true
	}
	return s.userID(c) == id
}

func (s *Server) handleProfile(c echo.Context) error {
	id := c.Param("id")
	if !s.profileAllowed(c, id) {
		return s.fail(c, http.StatusForbidden, "You can only manage your own profile")
	}
	account, err := s.store.Account(id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": map[string]any{"user": snakeUser(account)},
	})
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	id := c.Param("id")
	if !s.profileAllowed(c, id) {
		return s.fail(c, http.StatusForbidden, "You can only manage your own profile")
	}
	var body struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		Avatar string `json:"avatar"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}

	account, err := s.store.UpdateAccount(id, map[string]string{
		"name":   body.Name,
		"email":  body.Email,
		"phone":  body.Phone,
		"avatar": body.Avatar,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	// Every other update answers with an empty body, like the real route.
	if s.updateSeq.Add(1)%2 == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": map[string]any{"user": snakeUser(account)},
	})
}

func (s *Server) handleDeleteProfile(c echo.Context) error {
	id := c.Param("id")
	if !s.profileAllowed(c, id) {
		return s.fail(c, http.StatusForbidden, "You can only manage your own profile")
	}
	if err := s.store.DeleteAccount(id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGarages(c echo.Context) error {
	return c.JSON(http.StatusOK, garageListResponse(s.store.Garages()))
}

func (s *Server) handleSearchGarages(c echo.Context) error {
	return c.JSON(http.StatusOK, garageListResponse(s.store.SearchGarages(c.QueryParam("name"))))
}

func (s *Server) handleGarage(c echo.Context) error {
	garage, err := s.store.Garage(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	// The detail route skips the envelope entirely.
	return c.JSON(http.StatusOK, garageDetail(garage))
}

func (s *Server) handleCreateGarage(c echo.Context) error {
	var body struct {
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		Image        string   `json:"image"`
		PricePerHour float64  `json:"pricePerHour"`
		Lat          float64  `json:"lat"`
		Lng          float64  `json:"lng"`
		Address      string   `json:"address"`
		City         string   `json:"city"`
		Amenities    []string `json:"amenities"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}
	if strings.TrimSpace(body.Name) == "" {
		return s.fail(c, http.StatusBadRequest, "garage name is required")
	}

	garage := s.store.CreateGarage(Garage{
		Name:         strings.TrimSpace(body.Name),
		Description:  body.Description,
		Image:        body.Image,
		PricePerHour: body.PricePerHour,
		Lat:          body.Lat,
		Lng:          body.Lng,
		Address:      body.Address,
		City:         body.City,
		Amenities:    body.Amenities,
	})
	return c.JSON(http.StatusCreated, garageDetail(garage))
}

func (s *Server) handleSlots(c echo.Context) error {
	slots, err := s.store.Slots(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	// The slots route cannot make up its mind about a shape.
	if s.slotSeq.Add(1)%2 == 0 {
		items := make([]map[string]any, 0, len(slots))
		for _, slot := range slots {
			items = append(items, slotCamel(slot))
		}
		return c.JSON(http.StatusOK, items)
	}
	items := make([]map[string]any, 0, len(slots))
	for _, slot := range slots {
		items = append(items, slotSnake(slot))
	}
	return c.JSON(http.StatusOK, map[string]any{"parkingSlots": items})
}

func (s *Server) handleCreateSlot(c echo.Context) error {
	var body struct {
		Number       string  `json:"number"`
		Level        int     `json:"level"`
		VehicleSize  string  `json:"vehicleSize"`
		PricePerHour float64 `json:"pricePerHour"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}
	if strings.TrimSpace(body.Number) == "" {
		return s.fail(c, http.StatusBadRequest, "slot number is required")
	}

	slot, err := s.store.CreateSlot(c.Param("id"), Slot{
		Number:       strings.TrimSpace(body.Number),
		Level:        body.Level,
		VehicleSize:  body.VehicleSize,
		PricePerHour: body.PricePerHour,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, slotCamel(slot))
}

func (s *Server) handleDeleteSlot(c echo.Context) error {
	if err := s.store.DeleteSlot(c.Param("id"), c.Param("slotId")); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleReserve(c echo.Context) error {
	var body struct {
		VehiclePlate  string `json:"vehiclePlate"`
		DurationHours int    `json:"durationHours"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}
	if body.DurationHours < 1 {
		return s.fail(c, http.StatusBadRequest, "durationHours must be at least 1")
	}

	booking, err := s.store.Reserve(s.userID(c), c.Param("id"), c.Param("slotId"), body.VehiclePlate, body.DurationHours)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"data": map[string]any{"booking": bookingSnake(booking)},
	})
}

func (s *Server) handleRelease(c echo.Context) error {
	if err := s.store.Release(c.Param("id"), c.Param("slotId")); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Slot released"})
}

func (s *Server) handleBookings(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		userID = s.userID(c)
	}
	bookings := s.store.Bookings(userID)

	if c.QueryParam("grouped") != "" {
		current := make([]map[string]any, 0, len(bookings))
		past := make([]map[string]any, 0, len(bookings))
		for _, booking := range bookings {
			if booking.Status == "completed" || booking.Status == "cancelled" {
				past = append(past, bookingSnake(booking))
			} else {
				current = append(current, bookingSnake(booking))
			}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"data": map[string]any{"current": current, "past": past},
		})
	}

	items := make([]map[string]any, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, bookingSnake(booking))
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleBooking(c echo.Context) error {
	booking, err := s.store.Booking(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"booking": bookingSnake(booking)})
}

func (s *Server) handleEnd(c echo.Context) error {
	booking, err := s.store.EndBooking(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"booking": bookingSnake(booking)})
}

func (s *Server) handlePay(c echo.Context) error {
	var body struct {
		ParkingSpotID string  `json:"parking_spot_id"`
		GarageID      string  `json:"garage_id"`
		TotalAmount   float64 `json:"total_amount"`
		PaymentMethod string  `json:"payment_method"`
	}
	if err := c.Bind(&body); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid json body")
	}
	if strings.TrimSpace(body.ParkingSpotID) == "" {
		return s.fail(c, http.StatusBadRequest, "parking_spot_id is required")
	}
	if strings.TrimSpace(body.PaymentMethod) == "" {
		return s.fail(c, http.StatusBadRequest, "payment_method is required")
	}

	paymentID, bookingID := s.store.Pay(s.userID(c), body.GarageID, body.ParkingSpotID, body.TotalAmount)
	payment := map[string]any{
		"payment_id":   paymentID,
		"status":       "succeeded",
		"total_amount": body.TotalAmount,
	}
	if bookingID != 0 {
		payment["booking_id"] = bookingID
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": map[string]any{"payment": payment},
	})
}
