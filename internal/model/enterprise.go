package model

import "fmt"

// Enterprise はホテルやトリミングサロンなどの事業者です
type Enterprise struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Service は事業者が提供するサービスです
type Service struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents,omitempty"`
}

// PriceLabel は1泊あたりの料金表示を返します
func (s Service) PriceLabel() string {
	if s.PriceCents == 0 {
		return "R$ --"
	}
	return fmt.Sprintf("R$ %d.%02d", s.PriceCents/100, s.PriceCents%100)
}
