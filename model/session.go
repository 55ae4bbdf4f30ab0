package model

type Session struct {
	Id            ID        `json:"id"`
	UserId        ID        `json:"user_id"`
	UserName      string    `json:"user_name"`
	StudentId     string    `json:"student_id"`
	SeatId        ID        `json:"seat_id"`
	SeatNumber    string    `json:"seat_number"`
	HallId        ID        `json:"hall_id"`
	HallName      string    `json:"hall_name"`
	CheckInTime   Timestamp `json:"check_in_time"`
	LastActivity  Timestamp `json:"last_activity"`
	CheckInMethod string    `json:"check_in_method"`
}

type User struct {
	Id          ID        `json:"id"`
	StudentId   string    `json:"student_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	BarcodeData string    `json:"barcode_data"`
	IsActive    Flag      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at"`
}

type CheckInRequest struct {
	Barcode string `json:"barcode"`
	SeatId  int64  `json:"seat_id"`
}

type CheckInResult struct {
	Message    string `json:"message"`
	SessionId  ID     `json:"session_id"`
	SeatNumber string `json:"seat_number"`
}

type CheckOutRequest struct {
	Barcode string `json:"barcode"`
}

type CheckOutResult struct {
	Message         string `json:"message"`
	SeatNumber      string `json:"seat_number"`
	DurationMinutes int    `json:"duration_minutes"`
}
