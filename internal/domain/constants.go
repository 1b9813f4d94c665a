package domain

// Payment methods tracked by the back office. Only sicredi_boleto payments
// participate in gateway reconciliation.
const (
	PaymentMethodSicrediBoleto = "sicredi_boleto"
	PaymentMethodCash          = "cash"
	PaymentMethodCard          = "card"
	PaymentMethodPix           = "pix"
)

// Local payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusCancelled = "cancelled"
)

// Gateway-reported boleto statuses (Sicredi codes).
const (
	BoletoStatusRegistrado = "REGISTRADO"
	BoletoStatusPago       = "PAGO"
	BoletoStatusVencido    = "VENCIDO"
	BoletoStatusCancelado  = "CANCELADO"
)
