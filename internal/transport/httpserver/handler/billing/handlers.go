package billing

import (
	admissiondomain "institute-app-go/internal/domain/admission"
	feesdomain "institute-app-go/internal/domain/fees"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/pkg/logger"
)

type Handlers struct {
	Fees      *feesdomain.Service
	Admission *admissiondomain.Service
	validator *common.Validator
	log       logger.Logger
}

func New(fees *feesdomain.Service, admission *admissiondomain.Service, validator *common.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Fees:      fees,
		Admission: admission,
		validator: validator,
		log:       log,
	}
}
