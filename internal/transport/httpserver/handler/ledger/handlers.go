package ledger

import (
	admissiondomain "institute-app-go/internal/domain/admission"
	ledgerdomain "institute-app-go/internal/domain/ledger"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/pkg/logger"
)

type Handlers struct {
	Ledger    *ledgerdomain.Service
	Admission *admissiondomain.Service
	validator *common.Validator
	log       logger.Logger
}

func New(ledger *ledgerdomain.Service, admission *admissiondomain.Service, validator *common.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Ledger:    ledger,
		Admission: admission,
		validator: validator,
		log:       log,
	}
}
