package models

// Статусы предложения знакомства.
const (
	ProposalPending  = "PENDING"
	ProposalAccepted = "ACCEPTED"
	ProposalDeclined = "DECLINED"
)

// Proposal представляет предложение знакомства между двумя анкетами.
type Proposal struct {
	ID            string `json:"id"`
	FromProfileID string `json:"fromProfileId"`
	ToProfileID   string `json:"toProfileId"`
	Message       string `json:"message"`
	Status        string `json:"status"` // PENDING, ACCEPTED или DECLINED
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// DummySendProposal используется для приёма нового предложения из JSON-запроса.
type DummySendProposal struct {
	ToProfileID string `json:"to_profile_id" validate:"required"` // Анкета получателя
	Message     string `json:"message" validate:"omitempty,max=500"`
}

// DummyRespondProposal используется для ответа получателя на предложение.
type DummyRespondProposal struct {
	Accept bool `json:"accept"` // true — принять, false — отклонить
}

// ProposalNotification сообщение для очереди уведомлений о новом предложении.
type ProposalNotification struct {
	Email        string `json:"email"`         // Почта получателя
	ToFullName   string `json:"to_full_name"`  // Имя получателя
	FromFullName string `json:"from_full_name"` // Имя отправителя
	Message      string `json:"message"`       // Текст предложения
}
