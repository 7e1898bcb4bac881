package handler

import (
	"institute-app-go/internal/transport/httpserver/handler/billing"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/internal/transport/httpserver/handler/enrollment"
	"institute-app-go/internal/transport/httpserver/handler/ledger"
)

type Handlers struct {
	Common     *common.Handlers
	Billing    *billing.Handlers
	Ledger     *ledger.Handlers
	Enrollment *enrollment.Handlers
}

func New(commonHandlers *common.Handlers, billingHandlers *billing.Handlers, ledgerHandlers *ledger.Handlers, enrollmentHandlers *enrollment.Handlers) *Handlers {
	return &Handlers{
		Common:     commonHandlers,
		Billing:    billingHandlers,
		Ledger:     ledgerHandlers,
		Enrollment: enrollmentHandlers,
	}
}
