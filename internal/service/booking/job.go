package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/client"
	"github.com/petoo-app/petoo-booking/internal/common/config"
	"github.com/petoo-app/petoo-booking/internal/common/database"
	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
	"github.com/petoo-app/petoo-booking/internal/repository"
)

// ErrNotAuthenticated はトークンが保存されていない場合のエラーです
var ErrNotAuthenticated = errors.New("not logged in")

// Args は予約ジョブの引数です
type Args struct {
	Target BookingTarget
	PetID  string
	Taps   []string
	Today  time.Time
	Days   int
}

// ReservationJob は1回分の予約操作をコマンドラインから実行します
type ReservationJob struct {
	args      Args
	cfg       *config.Config
	db        *database.DB
	sessions  repository.SessionRepository
	api       *client.Client
	reporter  *TaskReporter
	notifier  Notifier
	navigator Navigator
}

// NewReservationJob は新しいReservationJobを作成します
func NewReservationJob(cfg *config.Config, reporter *TaskReporter, notifier Notifier, navigator Navigator) (*ReservationJob, error) {
	db, err := database.NewDB(cfg.Store, cfg.EnableTracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	sessions := repository.NewSessionRepository(repository.NewDB(db.DB))

	opts := []client.Option{client.WithTimeout(cfg.API.Timeout)}
	if cfg.EnableTracing {
		opts = append(opts, client.WithTracing())
	}

	return &ReservationJob{
		cfg:       cfg,
		db:        db,
		sessions:  sessions,
		api:       client.New(cfg.API.BaseURL, sessions, opts...),
		reporter:  reporter,
		notifier:  notifier,
		navigator: navigator,
	}, nil
}

// Close は終了処理を行います
func (j *ReservationJob) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// SetArgs は予約ジョブの引数を設定します
func (j *ReservationJob) SetArgs(args Args) {
	j.args = args
}

// Run は日付の選択から予約の送信までを実行します
func (j *ReservationJob) Run(ctx context.Context) error {
	ctx, span := utils.StartSpan(ctx, "ReservationJob.Run")
	defer span.End(nil)

	startTime := time.Now()

	session, err := j.sessions.LoadSession(ctx, j.cfg.BrandColor)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to load session: %w", err))
	}
	if !session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	svc := NewBookingService(Deps{
		Session:      session,
		Pets:         repository.NewPetRepository(j.api),
		Reservations: repository.NewReservationRepository(j.api),
		Services:     repository.NewServiceRepository(j.api),
		Notifier:     j.notifier,
		Navigator:    j.navigator,
	}, j.args.Target, Options{Today: j.args.Today, Days: j.args.Days})

	if err := svc.Prepare(ctx); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to prepare booking: %w", err))
	}

	for _, iso := range j.args.Taps {
		svc.Tap(iso)
	}
	if j.args.PetID != "" {
		if err := svc.SelectPet(j.args.PetID); err != nil {
			return err
		}
	}

	result, err := svc.Confirm(ctx)
	if err != nil {
		return err
	}

	if err := j.reporter.ReportSuccess(ctx, []model.ReservationEvent{result.Event}); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)
	span.AddMetadata("duration", duration.String())

	log.Info().Dur("duration", duration).Msg("Reservation job completed successfully")
	return nil
}
