package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/common/config"
	"github.com/petoo-app/petoo-booking/internal/common/console"
	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
	"github.com/petoo-app/petoo-booking/internal/service/booking"
)

const (
	projectName = "petoo-reservation"
)

func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", 5*time.Minute, "予約処理のタイムアウト時間")
	enterpriseID := flag.String("enterprise", "", "事業者ID")
	enterpriseName := flag.String("enterprise-name", "", "事業者名(完了メッセージ用)")
	serviceID := flag.String("service", "", "サービスID")
	serviceName := flag.String("service-name", "", "サービス名。省略時はサービス一覧から解決")
	petID := flag.String("pet", "", "ペットID。省略時は先頭のペット")
	taps := flag.String("taps", "", "タップする日付(YYYY-MM-DD)をカンマ区切りで指定")
	today := flag.String("today", "", "基準日(YYYY-MM-DD)。省略時は今日")
	days := flag.Int("days", model.DefaultDateCount, "表示する日数")
	logLevel := flag.String("log-level", "info", "ログレベル")
	flag.Parse()

	console.SetupLogger(os.Getenv("ENV"), *logLevel)

	// 最後の引数として渡されたタスクトークンを取得
	// ENV=LOCALの場合はタスクトークンを取得しない
	taskToken := "DUMMY_TASK_TOKEN"
	if os.Getenv("ENV") != "LOCAL" {
		taskToken = flag.Arg(len(flag.Args()) - 1)
		if taskToken == "" {
			log.Fatal().Msg("Task token is required")
		}
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(taskToken)
	if err != nil {
		log.Fatal().Err(utils.GetStackWithError(err)).Msg("Failed to load config")
	}

	refDate := time.Now()
	if *today != "" {
		refDate, err = model.ParseISODate(*today)
		if err != nil {
			log.Fatal().Err(err).Str("today", *today).Msg("Invalid reference date")
		}
	}

	configureTracing(cfg)

	// Step Functionsクライアントの初期化
	var reporter *booking.TaskReporter
	if cfg.IsLocal() {
		reporter = booking.NewTaskReporter(nil, taskToken, true)
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatal().Err(utils.GetStackWithError(err)).Msg("Failed to load AWS config")
		}
		reporter = booking.NewTaskReporter(sfn.NewFromConfig(awsCfg), taskToken, false)
	}

	ui := console.NewUI(os.Stdout)

	// サービスの初期化
	job, err := booking.NewReservationJob(cfg, reporter, ui, ui)
	if err != nil {
		log.Fatal().Err(utils.GetStackWithError(err)).Msg("Failed to create reservation job")
	}
	defer job.Close()

	job.SetArgs(booking.Args{
		Target: booking.BookingTarget{
			EnterpriseID:   *enterpriseID,
			EnterpriseName: *enterpriseName,
			ServiceID:      *serviceID,
			ServiceName:    *serviceName,
		},
		PetID: *petID,
		Taps:  splitList(*taps),
		Today: refDate,
		Days:  *days,
	})

	// コンテキストの作成
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			log.Warn().Err(err).Msg("Failed to add timeout metadata")
		}
		if err := seg.AddMetadata("enterprise_id", *enterpriseID); err != nil {
			log.Warn().Err(err).Msg("Failed to add enterprise_id metadata")
		}
	}

	// シグナルハンドリングの設定
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, "reservation", *timeout, job.Run)
	}()

	// シグナルまたはエラーの待機
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received signal")
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Error().Err(err).Msg("Reservation failed")

			if reportErr := reporter.ReportFailure(context.Background(), err); reportErr != nil {
				log.Error().Err(reportErr).Msg("Failed to send task failure")
			}
			if errors.Is(err, booking.ErrNotAuthenticated) {
				log.Error().Msg("Run petoo-login first")
			}

			job.Close()
			os.Exit(1)
		}
		log.Info().Msg("Reservation completed successfully")
	}
}

// configureTracing はX-Rayを設定します
func configureTracing(cfg *config.Config) {
	if !cfg.EnableTracing {
		return
	}
	if err := xray.Configure(xray.Config{
		DaemonAddr:     "127.0.0.1:2000",
		ServiceVersion: "1.0.0",
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to configure X-Ray")
		// X-Ray設定失敗時はデフォルトの設定を使用
		if configErr := xray.Configure(xray.Config{}); configErr != nil {
			log.Fatal().Err(configErr).Msg("Failed to configure default X-Ray settings")
		}
	}
	os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
