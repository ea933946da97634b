// Package booking はホテル予約画面の状態と予約送信の手順を扱います
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
	"github.com/petoo-app/petoo-booking/internal/repository"
)

var (
	ErrIncompleteRange      = errors.New("check-in and check-out dates are required")
	ErrPetNotSelected       = errors.New("pet is not selected")
	ErrIncompleteData       = errors.New("enterprise, service and pet ids are required")
	ErrSubmissionInProgress = errors.New("reservation submission already in progress")
	ErrReservationFailed    = errors.New("reservation request failed")
	ErrPetNotFound          = errors.New("pet not found")
)

// Notifier はダイアログを表示します
type Notifier interface {
	Alert(ctx context.Context, d Dialog)
}

// Navigator は画面遷移を行います
type Navigator interface {
	Navigate(route string)
}

// BookingTarget は予約対象の事業者とサービスです。画面遷移時のパラメータに相当します
type BookingTarget struct {
	EnterpriseID   string
	EnterpriseName string
	ServiceID      string
	ServiceName    string
}

// Deps は BookingService が利用するコンポーネントです
// Services が nil の場合はサービス名の解決を行いません
type Deps struct {
	Session      *model.Session
	Pets         repository.PetRepository
	Reservations repository.ReservationRepository
	Services     repository.ServiceRepository
	Notifier     Notifier
	Navigator    Navigator
}

// Options は日付一覧の生成条件です
type Options struct {
	Today time.Time
	Days  int
	// NewKey は送信ごとの Idempotency-Key を作成します
	NewKey func() string
	Now    func() time.Time
}

// Result は受け付けられた予約です
type Result struct {
	Appointment    *model.Appointment
	Event          model.ReservationEvent
	IdempotencyKey string
}

// BookingService は1つの予約画面が持つ状態を管理します
type BookingService struct {
	deps   Deps
	target BookingTarget
	newKey func() string
	now    func() time.Time

	mu          sync.Mutex
	dates       []model.CalendarDate
	rng         model.DateRange
	pets        []model.PetSummary
	selectedPet string
	submitting  bool
}

// NewBookingService は新しいBookingServiceを作成します
func NewBookingService(deps Deps, target BookingTarget, opts Options) *BookingService {
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	if opts.Days == 0 {
		opts.Days = model.DefaultDateCount
	}
	if opts.NewKey == nil {
		opts.NewKey = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &BookingService{
		deps:   deps,
		target: target,
		newKey: opts.NewKey,
		now:    opts.Now,
		dates:  model.GenerateDates(opts.Today, opts.Days),
	}
}

// Dates は選択可能な日付の一覧を返します
func (s *BookingService) Dates() []model.CalendarDate {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]model.CalendarDate, len(s.dates))
	copy(dates, s.dates)
	return dates
}

// CalendarDay は日付と現在の選択状態です
type CalendarDay struct {
	model.CalendarDate
	Selected bool
	InRange  bool
}

// Calendar は日付の一覧を選択状態付きで返します
func (s *BookingService) Calendar() []CalendarDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := make([]CalendarDay, len(s.dates))
	for i, d := range s.dates {
		days[i] = CalendarDay{
			CalendarDate: d,
			Selected:     s.rng.IsSelected(d.ISODate),
			InRange:      s.rng.InRange(d.ISODate),
		}
	}
	return days
}

// Tap は日付のタップを範囲選択に反映します。どの日付も受け付けます
// 表示中の一覧に無い日付は警告を残したうえで反映します
func (s *BookingService) Tap(iso string) model.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasDate(iso) {
		log.Warn().Str("date", iso).Msg("Tapped date is outside the generated dates")
	}
	s.rng.Tap(iso)
	log.Debug().Str("date", iso).Str("state", string(s.rng.State())).Msg("Date tapped")

	return s.rng
}

// Range は現在の範囲選択を返します
func (s *BookingService) Range() model.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng
}

// Pets は読み込み済みのペット一覧を返します
func (s *BookingService) Pets() []model.PetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	pets := make([]model.PetSummary, len(s.pets))
	copy(pets, s.pets)
	return pets
}

// SelectedPet は選択中のペットIDを返します
func (s *BookingService) SelectedPet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPet
}

// SelectPet は読み込み済みのペットから1匹を選択します
func (s *BookingService) SelectPet(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := model.FindPet(s.pets, id); !ok {
		return fmt.Errorf("%w: %s", ErrPetNotFound, id)
	}
	s.selectedPet = id
	return nil
}

// Target は予約対象を返します
func (s *BookingService) Target() BookingTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// LoadPets はペット一覧を読み込み、先頭のペットを選択します
func (s *BookingService) LoadPets(ctx context.Context) error {
	pets, err := s.deps.Pets.ListPets(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error loading pets")
		s.alert(ctx, DialogPetLoadFailed)
		return utils.WrapStep("load pets", err)
	}

	s.mu.Lock()
	s.pets = pets
	if len(pets) > 0 {
		s.selectedPet = string(pets[0].ID)
	}
	s.mu.Unlock()

	log.Debug().Int("count", len(pets)).Msg("Pets loaded")
	return nil
}

// Prepare はペット一覧の読み込みとサービス名の解決を並行して行います
// ペット一覧の読み込みに失敗してもダイアログを表示するだけで、画面はそのまま使えます
func (s *BookingService) Prepare(ctx context.Context) error {
	ctx, span := utils.StartSpan(ctx, "BookingService.Prepare")
	defer span.End(nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.LoadPets(gctx); err != nil {
			span.AddMetadata("pets_error", err.Error())
		}
		return nil
	})
	g.Go(func() error {
		return s.resolveServiceName(gctx)
	})

	if err := g.Wait(); err != nil {
		span.End(err)
		return err
	}
	return nil
}

// resolveServiceName は名前が渡されていない場合にサービス一覧から名前を探します
// 見つからない場合はメモ無しで予約します
func (s *BookingService) resolveServiceName(ctx context.Context) error {
	target := s.Target()
	if target.ServiceName != "" || target.ServiceID == "" || target.EnterpriseID == "" || s.deps.Services == nil {
		return nil
	}

	svc, err := s.deps.Services.FindByID(ctx, target.EnterpriseID, target.ServiceID)
	if err != nil {
		log.Warn().Err(err).Str("service_id", target.ServiceID).Msg("Failed to resolve service name")
		return nil
	}
	if svc == nil {
		log.Warn().Str("service_id", target.ServiceID).Msg("Service not found")
		return nil
	}

	s.mu.Lock()
	s.target.ServiceName = svc.Name
	s.mu.Unlock()
	return nil
}

// Confirm は予約を送信します
// 入力が揃っていない場合はネットワークを使わずに終了します。失敗時に状態はリセットしません
func (s *BookingService) Confirm(ctx context.Context) (*Result, error) {
	ctx, span := utils.StartSpan(ctx, "BookingService.Confirm")
	defer span.End(nil)

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	rng := s.rng
	petID := s.selectedPet
	target := s.target
	pets := s.pets

	if dialog, err := validate(rng, petID, target); err != nil {
		s.mu.Unlock()
		s.alert(ctx, dialog)
		return nil, err
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	req := model.BuildReservationRequest(model.ReservationFields{
		EnterpriseID: target.EnterpriseID,
		ServiceID:    target.ServiceID,
		PetID:        petID,
		StartTime:    model.CheckInTimestamp(rng.Start),
		EndTime:      model.CheckOutTimestamp(rng.End),
		Notes:        model.HotelNotes(target.ServiceName),
	})
	key := s.newKey()
	span.AddMetadata("request", req)

	appointment, err := s.deps.Reservations.CreateReservation(ctx, req, key)
	if err != nil {
		log.Error().Err(err).Str("idempotency_key", key).Msg("Error creating reservation")
		s.alert(ctx, DialogReservationFailed)
		span.End(err)
		return nil, fmt.Errorf("%w: %w", ErrReservationFailed, err)
	}

	s.alert(ctx, SuccessDialog(displayName(target.EnterpriseName, target.EnterpriseID), displayName(target.ServiceName, target.ServiceID)))
	if s.deps.Navigator != nil {
		s.deps.Navigator.Navigate(RouteHome)
	}

	// 通知用の名前は読み込み済みの一覧からだけ取得します。無い場合は通知側でIDを表示します
	pet, _ := model.FindPet(pets, petID)
	event := model.ReservationEvent{
		UserID:       s.deps.Session.UserID(),
		EnterpriseID: target.EnterpriseID,
		ServiceID:    target.ServiceID,
		PetID:        petID,
		PetName:      pet.Name,
		CheckIn:      rng.Start,
		CheckOut:     rng.End,
		CreatedAt:    s.now().UTC(),
	}

	log.Info().
		Str("enterprise_id", target.EnterpriseID).
		Str("service_id", target.ServiceID).
		Str("pet_id", petID).
		Str("check_in", rng.Start).
		Str("check_out", rng.End).
		Msg("Reservation requested")

	return &Result{Appointment: appointment, Event: event, IdempotencyKey: key}, nil
}

// validate は送信前の入力チェックを順番に行い、表示するダイアログを返します
func validate(rng model.DateRange, petID string, target BookingTarget) (Dialog, error) {
	if !rng.IsComplete() {
		return DialogRangeIncomplete, ErrIncompleteRange
	}
	if petID == "" {
		return DialogPetNotSelected, ErrPetNotSelected
	}
	if target.EnterpriseID == "" || target.ServiceID == "" || petID == "" {
		return DialogIncompleteData, ErrIncompleteData
	}
	return Dialog{}, nil
}

func (s *BookingService) hasDate(iso string) bool {
	for _, d := range s.dates {
		if d.ISODate == iso {
			return true
		}
	}
	return false
}

func (s *BookingService) alert(ctx context.Context, d Dialog) {
	if s.deps.Notifier == nil {
		log.Info().Str("title", d.Title).Msg(d.Message)
		return
	}
	s.deps.Notifier.Alert(ctx, d)
}

func displayName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return id
}
