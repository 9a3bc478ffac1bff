package jwttoken

import (
	"selfid/internal/platform/middleware"
)

// ServiceAdapter bridges the token service to the auth middleware without the
// middleware importing this package's claim type.
type ServiceAdapter struct {
	service *Service
}

func NewServiceAdapter(service *Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

func (a *ServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{Principal: claims.Principal}, nil
}
