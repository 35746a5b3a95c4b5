// Package domain holds the lead vocabulary and the canonical confirmed
// participant rule shared by admission control, availability display and
// testimonial token eligibility.
package domain

// Status is the lead pipeline status.
type Status string

const (
	StatusNuevo      Status = "nuevo"
	StatusContactado Status = "contactado"
	StatusInteresado Status = "interesado"
	StatusConfirmado Status = "confirmado"
	StatusDescartado Status = "descartado"
)

// PaymentStatus tracks how much of the retreat price has been paid.
type PaymentStatus string

const (
	PaymentPendiente PaymentStatus = "pendiente"
	PaymentSena      PaymentStatus = "seña"
	PaymentCompleto  PaymentStatus = "completo"
)

// PaymentMethod is how the participant paid. Empty means not yet recorded.
type PaymentMethod string

const (
	MethodNone          PaymentMethod = ""
	MethodTransferencia PaymentMethod = "transferencia"
	MethodMercadoPago   PaymentMethod = "mercadopago"
	MethodEfectivo      PaymentMethod = "efectivo"
)

// Interest is what the person asked for when submitting the inquiry.
type Interest string

const (
	InterestReservar Interest = "reservar"
	InterestInfo     Interest = "info"
	InterestConsulta Interest = "consulta"
)

// Source is the acquisition channel of the inquiry.
type Source string

const (
	SourceLanding   Source = "landing"
	SourceInstagram Source = "instagram"
	SourceFacebook  Source = "facebook"
	SourceReferido  Source = "referido"
	SourceOtro      Source = "otro"
)

// IsFullyConfirmed reports whether a lead counts against retreat capacity.
// This is the single canonical rule: confirmed status AND completed payment.
// It gates booking admission, availability display and token generation
// eligibility alike.
func IsFullyConfirmed(status Status, payment PaymentStatus) bool {
	return status == StatusConfirmado && payment == PaymentCompleto
}
