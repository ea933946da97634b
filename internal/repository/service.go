package repository

import (
	"context"
	"fmt"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
)

// ServiceAPI は事業者のサービス一覧を返すリモートAPIです
type ServiceAPI interface {
	GetEnterpriseServices(ctx context.Context, enterpriseID string) ([]model.Service, error)
}

// ServiceRepository is the read side for an enterprise's services
type ServiceRepository interface {
	ListByEnterprise(ctx context.Context, enterpriseID string) ([]model.Service, error)
	FindByID(ctx context.Context, enterpriseID, serviceID string) (*model.Service, error)
}

type ServiceRepositoryImpl struct {
	api ServiceAPI
}

func NewServiceRepository(api ServiceAPI) *ServiceRepositoryImpl {
	return &ServiceRepositoryImpl{api: api}
}

func (r *ServiceRepositoryImpl) ListByEnterprise(ctx context.Context, enterpriseID string) ([]model.Service, error) {
	ctx, span := utils.StartSpan(ctx, "ServiceRepository.ListByEnterprise")
	defer span.End(nil)

	services, err := r.api.GetEnterpriseServices(ctx, enterpriseID)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to list services of enterprise %s: %w", enterpriseID, err)
	}
	return services, nil
}

// FindByID はサービスを探します。見つからない場合は nil を返します
func (r *ServiceRepositoryImpl) FindByID(ctx context.Context, enterpriseID, serviceID string) (*model.Service, error) {
	services, err := r.ListByEnterprise(ctx, enterpriseID)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if string(services[i].ID) == serviceID {
			return &services[i], nil
		}
	}
	return nil, nil
}
