package repository

import (
	"context"
	"fmt"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
)

// PetAPI はペット情報を返すリモートAPIです
type PetAPI interface {
	ListPets(ctx context.Context) ([]model.PetSummary, error)
}

// PetRepository はペット情報の取得を担当するインターフェースです
type PetRepository interface {
	ListPets(ctx context.Context) ([]model.PetSummary, error)
}

// PetRepositoryImpl はPetRepositoryの実装です
type PetRepositoryImpl struct {
	api PetAPI
}

// NewPetRepository は新しいPetRepositoryを作成します
func NewPetRepository(api PetAPI) PetRepository {
	return &PetRepositoryImpl{
		api: api,
	}
}

// ListPets はログイン中のユーザーのペット一覧を取得します
func (r *PetRepositoryImpl) ListPets(ctx context.Context) ([]model.PetSummary, error) {
	ctx, span := utils.StartSpan(ctx, "PetRepository.ListPets")
	defer span.End(nil)

	pets, err := r.api.ListPets(ctx)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	span.AddMetadata("pet_count", len(pets))

	return pets, nil
}

