package model

type Hall struct {
	Id         ID     `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	TotalSeats int    `json:"total_seats"`
	CameraURL  string `json:"camera_url"`
	IsActive   Flag   `json:"is_active"`
}

type Seat struct {
	Id              ID        `json:"id"`
	HallId          ID        `json:"hall_id"`
	SeatNumber      string    `json:"seat_number"`
	PositionX       int       `json:"position_x"`
	PositionY       int       `json:"position_y"`
	IsOccupied      Flag      `json:"is_occupied"`
	IsAvailable     Flag      `json:"is_available"`
	CurrentUserId   ID        `json:"current_user_id"`
	CurrentUserName string    `json:"current_user_name"`
	CheckInTime     Timestamp `json:"check_in_time"`
	LastActivity    Timestamp `json:"last_activity"`
}
