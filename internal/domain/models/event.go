package models

// Event мероприятие клуба. Признак "предстоящее" не хранится, его считает view.
type Event struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Date        Date    `json:"date"`
	Attendees   []int64 `json:"attendees"`
	EventCover  string  `json:"event_cover,omitempty"`
	IsCompleted bool    `json:"is_completed"`
	Creator     int64   `json:"creator,omitempty"`
}

func (e Event) Key() int64 { return e.ID }

// HasAttendee проверяет, записан ли пользователь на мероприятие
func (e Event) HasAttendee(userID int64) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}
