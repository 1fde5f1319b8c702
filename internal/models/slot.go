package models

// The weekly grid is fixed: six working days by four daily windows.
// Both drafts and schedules address cells of this grid by (dayId, slotId).
const (
	MinDayID  = 1
	MaxDayID  = 6
	MinSlotID = 1
	MaxSlotID = 4
)

// DayNames maps dayId-1 to the display name stored in history snapshots.
// The encoding is part of the persisted contract and must not change.
var DayNames = [MaxDayID]string{"LUNDI", "MARDI", "MERCREDI", "JEUDI", "VENDREDI", "SAMEDI"}

// TimeSlot describes one fixed daily window.
type TimeSlot struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeSlots enumerates the four fixed windows, indexed by slotId-1.
var TimeSlots = [MaxSlotID]TimeSlot{
	{ID: 1, Start: "08:30", End: "11:00"},
	{ID: 2, Start: "11:00", End: "13:30"},
	{ID: 3, Start: "13:30", End: "16:00"},
	{ID: 4, Start: "16:00", End: "18:30"},
}

// ValidDayID reports whether the given day is on the grid.
func ValidDayID(dayID int) bool {
	return dayID >= MinDayID && dayID <= MaxDayID
}

// ValidSlotID reports whether the given slot is on the grid.
func ValidSlotID(slotID int) bool {
	return slotID >= MinSlotID && slotID <= MaxSlotID
}

// DayName returns the display name for a day id, or the empty string when
// the id is off the grid.
func DayName(dayID int) string {
	if !ValidDayID(dayID) {
		return ""
	}
	return DayNames[dayID-1]
}

// DayID resolves a display name back to its day id, returning 0 when the
// name is unknown.
func DayID(name string) int {
	for i, n := range DayNames {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// SlotWindow returns the time window for a slot id, or nil when the id is
// off the grid.
func SlotWindow(slotID int) *TimeSlot {
	if !ValidSlotID(slotID) {
		return nil
	}
	slot := TimeSlots[slotID-1]
	return &slot
}
