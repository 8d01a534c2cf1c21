package service

import (
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/admin"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/audit"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/auth"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/predict"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/registry"
)

type Collection struct {
	*auth.AuthService
	*registry.RegistryService
	*predict.PredictService
	*admin.AdminService
	Audit *audit.Recorder
}
