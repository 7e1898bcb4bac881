package enrollment

import (
	academicsdomain "institute-app-go/internal/domain/academics"
	admissiondomain "institute-app-go/internal/domain/admission"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/pkg/logger"
)

type Handlers struct {
	Admission *admissiondomain.Service
	Academics *academicsdomain.Service
	validator *common.Validator
	log       logger.Logger
}

func New(admission *admissiondomain.Service, academics *academicsdomain.Service, validator *common.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Admission: admission,
		Academics: academics,
		validator: validator,
		log:       log,
	}
}
