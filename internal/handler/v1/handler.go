package v1

import (
	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/backup"
	"github.com/GFattehallah/cmhe-manager/internal/config"
	"github.com/GFattehallah/cmhe-manager/internal/importer"
	"github.com/GFattehallah/cmhe-manager/internal/service"
	"github.com/GFattehallah/cmhe-manager/internal/suggest"
	"github.com/GFattehallah/cmhe-manager/pkg/auth"
)

type Handler struct {
	auth     *service.AuthService
	patients *service.PatientService
	billing  *service.BillingService
	clinical *service.ClinicalService
	importer *importer.Importer
	backup   *backup.Service
	suggest  *suggest.Client

	jwtManager *auth.JWTManager
	remoteDiag config.RemoteDiag
	log        *zap.Logger
}

type Deps struct {
	Auth     *service.AuthService
	Patients *service.PatientService
	Billing  *service.BillingService
	Clinical *service.ClinicalService
	Importer *importer.Importer
	Backup   *backup.Service
	Suggest  *suggest.Client

	JWTManager *auth.JWTManager
	RemoteDiag config.RemoteDiag
	Log        *zap.Logger
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		auth:       d.Auth,
		patients:   d.Patients,
		billing:    d.Billing,
		clinical:   d.Clinical,
		importer:   d.Importer,
		backup:     d.Backup,
		suggest:    d.Suggest,
		jwtManager: d.JWTManager,
		remoteDiag: d.RemoteDiag,
		log:        log,
	}
}
