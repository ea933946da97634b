package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PetSummary は予約画面で選択肢として表示するペットです
type PetSummary struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Pet はペットの登録情報です
// Age は文字列のまま返されることも、BirthDate から計算されることもあり、ここでは解釈しません
type Pet struct {
	ID        ID      `json:"id,omitempty"`
	Name      string  `json:"name"`
	Species   string  `json:"species,omitempty"`
	Breed     string  `json:"breed,omitempty"`
	BirthDate string  `json:"birth_date,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Gender    string  `json:"gender,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Age       string  `json:"age,omitempty"`
}

// Summary はペットの一覧用の表現を返します
func (p Pet) Summary() PetSummary {
	return PetSummary{ID: p.ID, Name: p.Name}
}

// FindPet は一覧から ID に一致するペットを探します
func FindPet(pets []PetSummary, id string) (PetSummary, bool) {
	for _, p := range pets {
		if string(p.ID) == id {
			return p, true
		}
	}
	return PetSummary{}, false
}

// DecodeList はレスポンスを一覧に正規化します
// 配列そのもの、または field の下にネストされた配列のどちらも受け付けます
// オブジェクトに field が無い場合は空の一覧を返します
func DecodeList[T any](data []byte, field string) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}

	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapped list: %w", err)
		}
		raw, ok := wrapper[field]
		if !ok {
			return []T{}, nil
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			if bytes.Equal(raw, []byte("null")) {
				return []T{}, nil
			}
			return nil, fmt.Errorf("field %q is not a list", field)
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode %q list: %w", field, err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected list payload: %.20s", data)
	}
}
