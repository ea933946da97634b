// Package console は端末にダイアログを表示するUIとロガーの初期化を提供します
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/service/booking"
)

// SetupLogger はグローバルロガーを設定します。ローカルでは読みやすい形式で出力します
func SetupLogger(env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if strings.ToUpper(env) == "LOCAL" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// UI はダイアログと画面遷移を端末に書き出します
type UI struct {
	mu  sync.Mutex
	out io.Writer
}

// NewUI は新しいUIを作成します。out が nil の場合は標準出力に書きます
func NewUI(out io.Writer) *UI {
	if out == nil {
		out = os.Stdout
	}
	return &UI{out: out}
}

// Alert はダイアログを表示します
func (u *UI) Alert(ctx context.Context, d booking.Dialog) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, "[%s]\n%s\n", d.Title, d.Message)
}

// Navigate は遷移先を表示します
func (u *UI) Navigate(route string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, "-> %s\n", route)
}

// PrintDates は日付の一覧と選択状態を表示します
func (u *UI) PrintDates(dates []booking.CalendarDay) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, d := range dates {
		mark := " "
		switch {
		case d.Selected:
			mark = "*"
		case d.InRange:
			mark = "-"
		}
		fmt.Fprintf(u.out, "%s %s %s %s\n", mark, d.Weekday, d.Day, d.DisplayDate)
	}
}
