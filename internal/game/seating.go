package game

// MaxSeats is the number of seats at the table
const MaxSeats = 9

// SeatRing is the ordered set of occupied seats. It owns the dealer
// button; whether a seat may be vacated is decided by the table, which
// knows whether a hand is running.
type SeatRing struct {
	occupied [MaxSeats]bool
	dealer   int // -1 until the first hand
}

// NewSeatRing creates an empty seat ring
func NewSeatRing() *SeatRing {
	return &SeatRing{dealer: -1}
}

// Seat assigns the lowest free seat index
func (r *SeatRing) Seat() (int, error) {
	for seat := 0; seat < MaxSeats; seat++ {
		if !r.occupied[seat] {
			r.occupied[seat] = true
			return seat, nil
		}
	}
	return -1, ErrTableFull
}

// Vacate frees a seat
func (r *SeatRing) Vacate(seat int) {
	if seat >= 0 && seat < MaxSeats {
		r.occupied[seat] = false
	}
}

// Occupied reports whether a seat is taken
func (r *SeatRing) Occupied(seat int) bool {
	return seat >= 0 && seat < MaxSeats && r.occupied[seat]
}

// Count returns the number of occupied seats
func (r *SeatRing) Count() int {
	n := 0
	for _, o := range r.occupied {
		if o {
			n++
		}
	}
	return n
}

// Seats returns the occupied seats in ascending order
func (r *SeatRing) Seats() []int {
	seats := make([]int, 0, MaxSeats)
	for seat, o := range r.occupied {
		if o {
			seats = append(seats, seat)
		}
	}
	return seats
}

// Dealer returns the current dealer button seat, or -1 before the
// first hand.
func (r *SeatRing) Dealer() int {
	return r.dealer
}

// RotateDealer advances the button to the next occupied seat clockwise,
// skipping empty seats. Before the first hand the button goes to the
// lowest occupied seat.
func (r *SeatRing) RotateDealer() int {
	if r.Count() == 0 {
		r.dealer = -1
		return r.dealer
	}
	if r.dealer == -1 {
		r.dealer = r.Seats()[0]
		return r.dealer
	}
	r.dealer = r.Next(r.dealer)
	return r.dealer
}

// SetDealer moves the button to a specific occupied seat
func (r *SeatRing) SetDealer(seat int) {
	if r.Occupied(seat) {
		r.dealer = seat
	}
}

// Next returns the next occupied seat clockwise after from, wrapping
// around. Returns -1 if no seats are occupied.
func (r *SeatRing) Next(from int) int {
	for i := 1; i <= MaxSeats; i++ {
		seat := (from + i) % MaxSeats
		if r.occupied[seat] {
			return seat
		}
	}
	return -1
}

// NextMatching returns the next occupied seat clockwise after from for
// which ok returns true. The scan wraps and includes from itself last.
func (r *SeatRing) NextMatching(from int, ok func(seat int) bool) (int, bool) {
	for i := 1; i <= MaxSeats; i++ {
		seat := (from + i) % MaxSeats
		if r.occupied[seat] && ok(seat) {
			return seat, true
		}
	}
	return -1, false
}

// ClockwiseFrom returns all occupied seats in clockwise order starting
// with the first occupied seat at or after start.
func (r *SeatRing) ClockwiseFrom(start int) []int {
	seats := make([]int, 0, MaxSeats)
	for i := 0; i < MaxSeats; i++ {
		seat := ((start%MaxSeats)+MaxSeats+i) % MaxSeats
		if r.occupied[seat] {
			seats = append(seats, seat)
		}
	}
	return seats
}
