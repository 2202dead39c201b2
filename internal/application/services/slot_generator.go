package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// SlotTimes are the only times the scheduler offers.
var SlotTimes = []string{"09:00 AM", "11:30 AM", "02:00 PM", "04:00 PM"}

func isSlotTime(t string) bool {
	for _, known := range SlotTimes {
		if t == known {
			return true
		}
	}
	return false
}

func slotTimeError() error {
	return apperrors.NewValidationError(fmt.Sprintf("time must be one of %s", strings.Join(SlotTimes, ", ")))
}

// SuggestedSlotCount is how many candidates a suggestion returns.
const SuggestedSlotCount = 3

const (
	preferredDayLayout = "Monday, January 2"
	upcomingDayLayout  = "Monday, Jan 2"
)

// RandSource is the subset of *rand.Rand the generator needs.
type RandSource interface {
	Intn(n int) int
}

// FilterDoctors narrows doctors to those whose name contains name, compared
// case-insensitively after dropping a leading "dr." title. An empty name or
// no match yields the full list.
func FilterDoctors(doctors []entities.Doctor, name string) []entities.Doctor {
	needle := strings.TrimSpace(strings.ToLower(name))
	needle = strings.TrimSpace(strings.TrimPrefix(needle, "dr."))
	if needle == "" {
		return doctors
	}

	out := make([]entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return doctors
	}
	return out
}

// GenerateSlots proposes candidate slots from doctors.
//
// With a preferred date every slot falls on that day, each at a distinct
// time drawn from SlotTimes. Without one, the slots fall on the three days
// after today, one per day, with times that may repeat. Dates are local
// midnight in loc. isBooked marks slots whose id is already committed and
// may be nil.
func GenerateSlots(doctors []entities.Doctor, preferred *time.Time, today time.Time, loc *time.Location, rng RandSource, isBooked func(id string) bool) []entities.Slot {
	if len(doctors) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	newSlot := func(date time.Time, dayLayout, slotTime string) entities.Slot {
		doctor := doctors[rng.Intn(len(doctors))]
		id := entities.BookingID(date, slotTime, doctor.Name)
		return entities.Slot{
			ID:     id,
			Doctor: doctor,
			Day:    date.Format(dayLayout),
			Time:   slotTime,
			Date:   date,
			Booked: isBooked != nil && isBooked(id),
		}
	}

	slots := make([]entities.Slot, 0, SuggestedSlotCount)

	if preferred != nil {
		date := midnight(*preferred, loc)
		// Draw indices from a shrinking pool so each pick is a distinct time.
		pool := append([]string(nil), SlotTimes...)
		for len(slots) < SuggestedSlotCount && len(pool) > 0 {
			i := rng.Intn(len(pool))
			slotTime := pool[i]
			pool = append(pool[:i], pool[i+1:]...)
			slots = append(slots, newSlot(date, preferredDayLayout, slotTime))
		}
		return slots
	}

	start := midnight(today, loc)
	for i := 1; i <= SuggestedSlotCount; i++ {
		date := start.AddDate(0, 0, i)
		slotTime := SlotTimes[rng.Intn(len(SlotTimes))]
		slots = append(slots, newSlot(date, upcomingDayLayout, slotTime))
	}
	return slots
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
