package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/settings"
	"github.com/invoicer/backend/internal/domain/shared"
)

// Service reads and upserts the per-tenant settings record
type Service struct {
	repo          settings.Repository
	defaultPrefix string
}

// Option configures a Service
type Option func(*Service)

// WithDefaultPrefix sets the invoice prefix used before a tenant saves settings
func WithDefaultPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.defaultPrefix = prefix
		}
	}
}

// NewService creates a new settings Service
func NewService(repo settings.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, defaultPrefix: settings.DefaultInvoicePrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the tenant's settings, or shared.ErrNotFound when never saved
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	record, err := s.repo.FindForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(record)
	return &response, nil
}

// Save creates the record on first call and updates it afterwards
func (s *Service) Save(ctx context.Context, scope identity.Scope, req SaveSettingsRequest) (*SettingsResponse, error) {
	if scope.IsZero() {
		return nil, shared.ErrNotAuthenticated
	}

	record, err := s.repo.FindForTenant(ctx, scope.TenantID)
	if errors.Is(err, shared.ErrNotFound) {
		record = settings.NewUserSettings(scope.TenantID, scope.UserID)
	} else if err != nil {
		return nil, err
	}

	if req.Profile != nil {
		if err := record.SetProfile(settings.Profile{Name: req.Profile.Name, Email: req.Profile.Email}); err != nil {
			return nil, err
		}
	}
	if req.Business != nil {
		if err := record.SetBusiness(settings.Business{
			BusinessName: req.Business.BusinessName,
			Email:        req.Business.Email,
			Phone:        req.Business.Phone,
			GST:          req.Business.GST,
			Address:      req.Business.Address,
		}); err != nil {
			return nil, err
		}
	}
	if req.InvoiceSettings != nil {
		next := req.InvoiceSettings.NextNumber
		if next == 0 {
			next = record.InvoiceSettings.NextNumber
		}
		if err := record.SetInvoiceSettings(settings.InvoiceSettings{
			Prefix:     req.InvoiceSettings.Prefix,
			NextNumber: next,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToSettingsResponse(record)
	return &response, nil
}

// InvoicePrefix returns the tenant's invoice prefix, falling back to the default
// when settings were never saved
func (s *Service) InvoicePrefix(ctx context.Context, tenantID uuid.UUID) (string, error) {
	record, err := s.repo.FindForTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return s.defaultPrefix, nil
	}
	if err != nil {
		return "", err
	}
	return record.InvoicePrefix(), nil
}

// Business returns the issuer block for documents; empty when never saved
func (s *Service) Business(ctx context.Context, tenantID uuid.UUID) (settings.Business, error) {
	record, err := s.repo.FindForTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.Business{}, nil
	}
	if err != nil {
		return settings.Business{}, err
	}
	return record.Business, nil
}
