package utils

import (
	"context"
	"fmt"
	"time"
)

// RunWithTimeout は指定されたタイムアウト時間内で fn を実行する
// タイムアウトを超えた場合は、コンテキストをキャンセルして name を含むエラーを返す
// fn の中で発行済みのHTTPリクエストは ctx のキャンセルに従う
func RunWithTimeout(ctx context.Context, name string, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- fn(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s timed out after %v", name, timeout)
		}
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	}
}
