package model

// RangeState は日付範囲選択の状態を表します
type RangeState string

const (
	// RangeEmpty は開始日も終了日も未選択の状態です
	RangeEmpty RangeState = "empty"
	// RangeStartOnly は開始日のみ選択済みの状態です
	RangeStartOnly RangeState = "start_only"
	// RangeComplete は開始日と終了日が揃った状態です
	RangeComplete RangeState = "complete"
)

// DateRange はチェックイン(Start)とチェックアウト(End)の選択状態です
// End が設定されている場合、End は常に Start より後の日付です
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// State は現在の選択状態を返します
func (r DateRange) State() RangeState {
	switch {
	case r.Start == "":
		return RangeEmpty
	case r.End == "":
		return RangeStartOnly
	default:
		return RangeComplete
	}
}

// IsComplete は開始日と終了日の両方が揃っているかを返します
func (r DateRange) IsComplete() bool {
	return r.State() == RangeComplete
}

// Tap は日付がタップされたときの遷移を適用します
//   - 未選択または選択完了の状態では、タップした日付から選び直します
//   - 開始日のみの状態では、開始日より後なら終了日に、そうでなければ開始日を置き換えます
//
// どのタップも拒否されません。滞在日数の上限も設けていません
func (r *DateRange) Tap(iso string) {
	if r.State() != RangeStartOnly {
		r.Start = iso
		r.End = ""
		return
	}

	if iso > r.Start {
		r.End = iso
		return
	}
	r.Start = iso
	r.End = ""
}

// Reset は選択を破棄します
func (r *DateRange) Reset() {
	r.Start = ""
	r.End = ""
}

// IsSelected は日付が開始日か終了日のいずれかであるかを返します
func (r DateRange) IsSelected(iso string) bool {
	return iso != "" && (iso == r.Start || iso == r.End)
}

// InRange は日付が選択範囲の内側(両端を除く)にあるかを返します
func (r DateRange) InRange(iso string) bool {
	if !r.IsComplete() {
		return false
	}
	return iso > r.Start && iso < r.End
}

// Nights は宿泊数を返します。範囲が揃っていない、または日付が不正な場合は0です
func (r DateRange) Nights() int {
	if !r.IsComplete() {
		return 0
	}
	start, err := ParseISODate(r.Start)
	if err != nil {
		return 0
	}
	end, err := ParseISODate(r.End)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
