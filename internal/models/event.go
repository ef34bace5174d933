package models

// Статусы оплаты регистрации на мероприятие.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// Event представляет мероприятие организатора.
type Event struct {
	ID           string  `json:"id"`
	OrganizerUID string  `json:"organizerUid"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	City         string  `json:"city"`
	Venue        string  `json:"venue"`
	Date         string  `json:"date"` // Формат 2006-01-02
	Price        float64 `json:"price"`
	Capacity     int     `json:"capacity"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// EventRegistration представляет заявку пользователя на участие в мероприятии.
type EventRegistration struct {
	ID            string `json:"id"`
	EventID       string `json:"eventId"`
	UserUID       string `json:"userUid"`
	Email         string `json:"email"`
	PaymentStatus string `json:"paymentStatus"` // PENDING или PAID
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// DummyEvent используется для приёма данных мероприятия из JSON-запроса.
type DummyEvent struct {
	Title       string  `json:"title" validate:"required,max=160"`
	Description string  `json:"description" validate:"omitempty,max=4000"`
	City        string  `json:"city" validate:"required,max=80"`
	Venue       string  `json:"venue" validate:"omitempty,max=160"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Price       float64 `json:"price" validate:"gte=0"`
	Capacity    int     `json:"capacity" validate:"required,gt=0"`
}

// OrganizerStats сводная статистика организатора по его мероприятиям.
type OrganizerStats struct {
	Events            int     `json:"events"`
	Registrations     int     `json:"registrations"`
	PaidRegistrations int     `json:"paid_registrations"`
	Revenue           float64 `json:"revenue"`
}

// RegistrationNotification сообщение для очереди уведомлений о подтвержденной регистрации.
type RegistrationNotification struct {
	Email      string `json:"email"`       // Почта участника
	EventTitle string `json:"event_title"` // Название мероприятия
	EventDate  string `json:"event_date"`  // Дата мероприятия
}
