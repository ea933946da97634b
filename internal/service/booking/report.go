package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
)

// maxFailureCause は SendTaskFailure の Cause に渡すバイト数の上限です
const maxFailureCause = 32768

// SFNAPI は TaskReporter が利用する Step Functions の操作です
type SFNAPI interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// TaskReporter は予約の結果を Step Functions のタスクへ通知します
type TaskReporter struct {
	client    SFNAPI
	taskToken string
	local     bool
}

// NewTaskReporter は新しいTaskReporterを作成します。client が nil の場合は通知しません
func NewTaskReporter(client SFNAPI, taskToken string, local bool) *TaskReporter {
	return &TaskReporter{client: client, taskToken: taskToken, local: local}
}

func (r *TaskReporter) enabled() bool {
	return r != nil && !r.local && r.client != nil
}

// ReportSuccess は予約イベントを通知形式に変換してタスク成功を通知します
func (r *TaskReporter) ReportSuccess(ctx context.Context, events []model.ReservationEvent) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if !r.enabled() {
		log.Info().Msg("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}
	if r.taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	notifications := make([]model.Notification, len(events))
	for i, event := range events {
		notifications[i] = model.NewReservationNotification(event)
	}

	output, err := json.Marshal(map[string]any{
		"notifications": notifications,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notifications: %w", err)
	}

	_, err = r.client.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(r.taskToken),
		Output:    aws.String(string(output)),
	})
	if err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	log.Info().RawJSON("output", output).Msg("Successfully sent task success")
	return nil
}

// ReportFailure はタスク失敗を通知します
func (r *TaskReporter) ReportFailure(ctx context.Context, cause error) error {
	if !r.enabled() {
		log.Info().Msg("Local environment detected. Skipping Step Functions task failure notification")
		return nil
	}
	if r.taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	input := &sfn.SendTaskFailureInput{
		TaskToken: aws.String(r.taskToken),
		Error:     aws.String("Reservation failed"),
	}
	if cause != nil {
		input.Cause = aws.String(utils.TruncateBytes(cause.Error(), maxFailureCause))
	}

	if _, err := r.client.SendTaskFailure(ctx, input); err != nil {
		return fmt.Errorf("failed to send task failure: %w", err)
	}
	return nil
}
