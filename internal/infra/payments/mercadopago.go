package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

const StatusApproved = "approved"

type CheckoutRequest struct {
	AppointmentID string
	PaymentType   string
	Title         string
	Amount        float64
}

type Checkout struct {
	PreferenceID string `json:"preference_id"`
	URL          string `json:"checkout_url"`
}

type Payment struct {
	ID            string
	Status        string
	AppointmentID string
	PaymentType   string
	Amount        float64
}

// MercadoPago wraps checkout preferences and payment lookups. The external reference
// carries "<appointment id>:<payment type>" so webhooks can be matched back.
type MercadoPago struct {
	preferences     preference.Client
	payments        payment.Client
	notificationURL string
}

func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error) {
	res, err := m.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			ID:         req.AppointmentID,
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: "BRL",
		}},
		ExternalReference: ExternalReference(req.AppointmentID, req.PaymentType),
		NotificationURL:   m.notificationURL,
	})
	if err != nil {
		return Checkout{}, fmt.Errorf("mercadopago preference: %w", err)
	}

	return Checkout{PreferenceID: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (Payment, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return Payment{}, fmt.Errorf("mercadopago payment id %q: %w", id, err)
	}

	res, err := m.payments.Get(ctx, n)
	if err != nil {
		return Payment{}, fmt.Errorf("mercadopago payment %d: %w", n, err)
	}

	apID, pt := ParseExternalReference(res.ExternalReference)
	return Payment{
		ID:            strconv.Itoa(res.ID),
		Status:        res.Status,
		AppointmentID: apID,
		PaymentType:   pt,
		Amount:        res.TransactionAmount,
	}, nil
}

func ExternalReference(appointmentID, paymentType string) string {
	return appointmentID + ":" + paymentType
}

func ParseExternalReference(ref string) (appointmentID, paymentType string) {
	appointmentID, paymentType, _ = strings.Cut(ref, ":")
	return appointmentID, paymentType
}
