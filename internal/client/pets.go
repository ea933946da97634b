package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/petoo-app/petoo-booking/internal/model"
)

// ListPets はログイン中のクライアントのペット一覧を取得します
// レスポンスは配列そのものか {"pets": [...]} のどちらかです
func (c *Client) ListPets(ctx context.Context) ([]model.PetSummary, error) {
	raw, err := c.DoRaw(ctx, http.MethodGet, "/client/pets", nil, RequestOptions{})
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.PetSummary](raw, "pets")
}

// GetPet はペットの詳細を取得します
func (c *Client) GetPet(ctx context.Context, petID string) (*model.Pet, error) {
	var pet model.Pet
	if err := c.Do(ctx, http.MethodGet, "/client/pets/"+url.PathEscape(petID), nil, RequestOptions{}, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// CreatePet はペットを登録します
func (c *Client) CreatePet(ctx context.Context, pet model.Pet) (*model.Pet, error) {
	var created model.Pet
	if err := c.Do(ctx, http.MethodPost, "/client/pets", pet, RequestOptions{}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
