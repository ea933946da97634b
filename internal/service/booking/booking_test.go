package booking

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/petoo-app/petoo-booking/internal/model"
)

// MockPetRepository はテスト用のモックリポジトリです
type MockPetRepository struct {
	mu    sync.Mutex
	pets  []model.PetSummary
	err   error
	calls int
}

func (m *MockPetRepository) ListPets(ctx context.Context) ([]model.PetSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.pets, m.err
}

func (m *MockPetRepository) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockReservationRepository はテスト用のモックリポジトリです
type MockReservationRepository struct {
	mu       sync.Mutex
	calls    int
	requests []model.ReservationRequest
	keys     []string
	err      error
	// block が nil でない場合は close されるまで応答しません
	block chan struct{}
}

func (m *MockReservationRepository) CreateReservation(ctx context.Context, req model.ReservationRequest, key string) (*model.Appointment, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.keys = append(m.keys, key)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.err != nil {
		return nil, m.err
	}
	return &model.Appointment{ID: "a1", Status: "pending"}, nil
}

func (m *MockReservationRepository) ListReservations(ctx context.Context) ([]model.Appointment, error) {
	return nil, nil
}

func (m *MockReservationRepository) CancelReservation(ctx context.Context, id string) error {
	return nil
}

func (m *MockReservationRepository) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockServiceRepository はテスト用のモックリポジトリです
type MockServiceRepository struct {
	service *model.Service
	err     error
}

func (m *MockServiceRepository) ListByEnterprise(ctx context.Context, enterpriseID string) ([]model.Service, error) {
	return nil, m.err
}

func (m *MockServiceRepository) FindByID(ctx context.Context, enterpriseID, serviceID string) (*model.Service, error) {
	return m.service, m.err
}

type recordingUI struct {
	mu      sync.Mutex
	dialogs []Dialog
	routes  []string
}

func (r *recordingUI) Alert(ctx context.Context, d Dialog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs = append(r.dialogs, d)
}

func (r *recordingUI) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recordingUI) lastDialog() Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.dialogs) == 0 {
		return Dialog{}
	}
	return r.dialogs[len(r.dialogs)-1]
}

var today = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc          *BookingService
	pets         *MockPetRepository
	reservations *MockReservationRepository
	ui           *recordingUI
}

func newFixture(target BookingTarget) *fixture {
	f := &fixture{
		pets:         &MockPetRepository{pets: []model.PetSummary{{ID: "p1", Name: "Thor"}, {ID: "p2", Name: "Mel"}}},
		reservations: &MockReservationRepository{},
		ui:           &recordingUI{},
	}
	f.svc = NewBookingService(Deps{
		Session:      model.NewSession("tok", &model.UserProfile{ID: "c1"}, ""),
		Pets:         f.pets,
		Reservations: f.reservations,
		Notifier:     f.ui,
		Navigator:    f.ui,
	}, target, Options{
		Today:  today,
		Days:   3,
		NewKey: func() string { return "key-1" },
		Now:    func() time.Time { return today },
	})
	return f
}

var defaultTarget = BookingTarget{EnterpriseID: "e1", EnterpriseName: "Petoo Hotel", ServiceID: "s1"}

func TestBookingServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(defaultTarget)

	var got []string
	for _, d := range f.svc.Dates() {
		got = append(got, d.ISODate)
	}
	if want := []string{"2025-06-01", "2025-06-02", "2025-06-03"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Dates() = %v, want %v", got, want)
	}

	rng := f.svc.Tap("2025-06-02")
	if rng.State() != model.RangeStartOnly || rng.Start != "2025-06-02" {
		t.Fatalf("after first tap = %+v", rng)
	}

	rng = f.svc.Tap("2025-06-03")
	if rng.State() != model.RangeComplete || rng.Start != "2025-06-02" || rng.End != "2025-06-03" {
		t.Fatalf("after second tap = %+v", rng)
	}

	if err := f.svc.LoadPets(ctx); err != nil {
		t.Fatalf("LoadPets() error = %v", err)
	}
	if f.svc.SelectedPet() != "p1" {
		t.Errorf("SelectedPet() = %v, want p1", f.svc.SelectedPet())
	}

	result, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	want := model.ReservationRequest{
		"enterprise-id": "e1",
		"service-id":    "s1",
		"pet-id":        "p1",
		"start-time":    "2025-06-02T14:00:00Z",
		"end-time":      "2025-06-03T12:00:00Z",
	}
	if f.reservations.callCount() != 1 {
		t.Fatalf("CreateReservation called %d times, want 1", f.reservations.callCount())
	}
	if !reflect.DeepEqual(f.reservations.requests[0], want) {
		t.Errorf("request = %v, want %v", f.reservations.requests[0], want)
	}
	if f.reservations.keys[0] != "key-1" || result.IdempotencyKey != "key-1" {
		t.Errorf("idempotency key = %v / %v", f.reservations.keys[0], result.IdempotencyKey)
	}

	if d := f.ui.lastDialog(); d != SuccessDialog("Petoo Hotel", "s1") {
		t.Errorf("dialog = %+v", d)
	}
	if !reflect.DeepEqual(f.ui.routes, []string{RouteHome}) {
		t.Errorf("routes = %v, want [%s]", f.ui.routes, RouteHome)
	}

	wantEvent := model.ReservationEvent{
		UserID:       "c1",
		EnterpriseID: "e1",
		ServiceID:    "s1",
		PetID:        "p1",
		PetName:      "Thor",
		CheckIn:      "2025-06-02",
		CheckOut:     "2025-06-03",
		CreatedAt:    today,
	}
	if result.Event != wantEvent {
		t.Errorf("event = %+v, want %+v", result.Event, wantEvent)
	}
}

func TestBookingServiceConfirmValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		target     BookingTarget
		taps       []string
		loadPets   bool
		wantErr    error
		wantDialog Dialog
		wantState  model.RangeState
	}{
		{
			name:       "日付が未選択",
			target:     defaultTarget,
			loadPets:   true,
			wantErr:    ErrIncompleteRange,
			wantDialog: DialogRangeIncomplete,
			wantState:  model.RangeEmpty,
		},
		{
			name:       "チェックアウトが未選択",
			target:     defaultTarget,
			taps:       []string{"2025-06-02"},
			loadPets:   true,
			wantErr:    ErrIncompleteRange,
			wantDialog: DialogRangeIncomplete,
			wantState:  model.RangeStartOnly,
		},
		{
			name:       "ペットが未選択",
			target:     defaultTarget,
			taps:       []string{"2025-06-01", "2025-06-03"},
			wantErr:    ErrPetNotSelected,
			wantDialog: DialogPetNotSelected,
			wantState:  model.RangeComplete,
		},
		{
			name:       "サービスIDが無い",
			target:     BookingTarget{EnterpriseID: "e1"},
			taps:       []string{"2025-06-01", "2025-06-03"},
			loadPets:   true,
			wantErr:    ErrIncompleteData,
			wantDialog: DialogIncompleteData,
			wantState:  model.RangeComplete,
		},
		{
			name:       "事業者IDが無い",
			target:     BookingTarget{ServiceID: "s1"},
			taps:       []string{"2025-06-01", "2025-06-03"},
			loadPets:   true,
			wantErr:    ErrIncompleteData,
			wantDialog: DialogIncompleteData,
			wantState:  model.RangeComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.target)
			for _, iso := range tt.taps {
				f.svc.Tap(iso)
			}
			if tt.loadPets {
				if err := f.svc.LoadPets(ctx); err != nil {
					t.Fatalf("LoadPets() error = %v", err)
				}
			}
			before := f.svc.Range()

			_, err := f.svc.Confirm(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Confirm() error = %v, want %v", err, tt.wantErr)
			}
			if f.reservations.callCount() != 0 {
				t.Errorf("CreateReservation called %d times, want 0", f.reservations.callCount())
			}
			if d := f.ui.lastDialog(); d != tt.wantDialog {
				t.Errorf("dialog = %+v, want %+v", d, tt.wantDialog)
			}
			if after := f.svc.Range(); after != before || after.State() != tt.wantState {
				t.Errorf("range changed: before %+v, after %+v", before, after)
			}
			if len(f.ui.routes) != 0 {
				t.Errorf("routes = %v, want none", f.ui.routes)
			}
		})
	}
}

func TestBookingServiceConfirmFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(BookingTarget{EnterpriseID: "e1", ServiceID: "s1", ServiceName: "Suíte Luxo"})
	errRemote := errors.New("api error 500: boom")
	f.reservations.err = errRemote

	f.svc.Tap("2025-06-01")
	f.svc.Tap("2025-06-02")
	if err := f.svc.LoadPets(ctx); err != nil {
		t.Fatalf("LoadPets() error = %v", err)
	}

	_, err := f.svc.Confirm(ctx)
	if !errors.Is(err, ErrReservationFailed) || !errors.Is(err, errRemote) {
		t.Fatalf("Confirm() error = %v, want ErrReservationFailed wrapping cause", err)
	}
	if d := f.ui.lastDialog(); d != DialogReservationFailed {
		t.Errorf("dialog = %+v", d)
	}
	if len(f.ui.routes) != 0 {
		t.Errorf("routes = %v, want none", f.ui.routes)
	}
	if f.reservations.requests[0][model.KeyNotes] != "Reserva de Hotel - Suíte Luxo" {
		t.Errorf("notes = %q", f.reservations.requests[0][model.KeyNotes])
	}

	// 失敗しても選択状態は残り、同じ内容で再送できる
	if rng := f.svc.Range(); !rng.IsComplete() {
		t.Errorf("range after failure = %+v", rng)
	}
	f.reservations.err = nil
	if _, err := f.svc.Confirm(ctx); err != nil {
		t.Fatalf("retry Confirm() error = %v", err)
	}
	if f.reservations.callCount() != 2 {
		t.Errorf("CreateReservation called %d times, want 2", f.reservations.callCount())
	}
}

func TestBookingServiceSingleInFlight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(defaultTarget)
	f.reservations.block = make(chan struct{})

	f.svc.Tap("2025-06-01")
	f.svc.Tap("2025-06-03")
	if err := f.svc.LoadPets(ctx); err != nil {
		t.Fatalf("LoadPets() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Confirm(ctx)
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for f.reservations.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first Confirm() did not reach the network call")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := f.svc.Confirm(ctx); !errors.Is(err, ErrSubmissionInProgress) {
		t.Errorf("second Confirm() error = %v, want ErrSubmissionInProgress", err)
	}

	close(f.reservations.block)
	if err := <-done; err != nil {
		t.Fatalf("first Confirm() error = %v", err)
	}
	if f.reservations.callCount() != 1 {
		t.Errorf("CreateReservation called %d times, want 1", f.reservations.callCount())
	}
}

func TestBookingServiceTapOutsideGeneratedDates(t *testing.T) {
	f := newFixture(defaultTarget)

	f.svc.Tap("2025-06-02")
	rng := f.svc.Tap("2025-06-10")
	if rng.State() != model.RangeComplete || rng.Start != "2025-06-02" || rng.End != "2025-06-10" {
		t.Errorf("range = %+v, want 2025-06-02..2025-06-10", rng)
	}

	// 一覧の外でも範囲の区切り直しは通常どおり
	rng = f.svc.Tap("2025-05-20")
	if rng.State() != model.RangeStartOnly || rng.Start != "2025-05-20" {
		t.Errorf("range = %+v, want start only at 2025-05-20", rng)
	}
}

func TestBookingServicePets(t *testing.T) {
	ctx := context.Background()

	t.Run("読み込み失敗", func(t *testing.T) {
		f := newFixture(defaultTarget)
		f.pets.err = errors.New("offline")

		if err := f.svc.LoadPets(ctx); err == nil {
			t.Fatal("LoadPets() should fail")
		}
		if d := f.ui.lastDialog(); d != DialogPetLoadFailed {
			t.Errorf("dialog = %+v", d)
		}
		if f.svc.SelectedPet() != "" {
			t.Errorf("SelectedPet() = %v, want empty", f.svc.SelectedPet())
		}
	})

	t.Run("ペットの選択", func(t *testing.T) {
		f := newFixture(defaultTarget)
		if err := f.svc.LoadPets(ctx); err != nil {
			t.Fatalf("LoadPets() error = %v", err)
		}
		if err := f.svc.SelectPet("p2"); err != nil {
			t.Fatalf("SelectPet() error = %v", err)
		}
		if f.svc.SelectedPet() != "p2" {
			t.Errorf("SelectedPet() = %v, want p2", f.svc.SelectedPet())
		}
		if err := f.svc.SelectPet("p9"); !errors.Is(err, ErrPetNotFound) {
			t.Errorf("SelectPet(p9) error = %v, want ErrPetNotFound", err)
		}
		if f.svc.SelectedPet() != "p2" {
			t.Errorf("SelectedPet() changed to %v", f.svc.SelectedPet())
		}
	})

	t.Run("ペットが0件", func(t *testing.T) {
		f := newFixture(defaultTarget)
		f.pets.pets = []model.PetSummary{}
		if err := f.svc.LoadPets(ctx); err != nil {
			t.Fatalf("LoadPets() error = %v", err)
		}
		if f.svc.SelectedPet() != "" || len(f.svc.Pets()) != 0 {
			t.Errorf("SelectedPet() = %v, Pets() = %v", f.svc.SelectedPet(), f.svc.Pets())
		}
	})
}

func TestBookingServicePrepare(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		target   BookingTarget
		services *MockServiceRepository
		wantName string
	}{
		{
			name:     "サービス名を解決",
			target:   defaultTarget,
			services: &MockServiceRepository{service: &model.Service{ID: "s1", Name: "Suíte"}},
			wantName: "Suíte",
		},
		{
			name:     "渡された名前を優先",
			target:   BookingTarget{EnterpriseID: "e1", ServiceID: "s1", ServiceName: "Standard"},
			services: &MockServiceRepository{service: &model.Service{ID: "s1", Name: "Suíte"}},
			wantName: "Standard",
		},
		{
			name:     "解決に失敗してもメモ無しで続行",
			target:   defaultTarget,
			services: &MockServiceRepository{err: errors.New("offline")},
			wantName: "",
		},
		{
			name:     "サービスが見つからない",
			target:   defaultTarget,
			services: &MockServiceRepository{},
			wantName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.target)
			f.svc.deps.Services = tt.services

			if err := f.svc.Prepare(ctx); err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}
			if got := f.svc.Target().ServiceName; got != tt.wantName {
				t.Errorf("ServiceName = %q, want %q", got, tt.wantName)
			}
			if f.svc.SelectedPet() != "p1" {
				t.Errorf("SelectedPet() = %v, want p1", f.svc.SelectedPet())
			}
		})
	}
}

func TestBookingServiceCalendar(t *testing.T) {
	f := newFixture(defaultTarget)
	f.svc.Tap("2025-06-01")
	f.svc.Tap("2025-06-03")

	days := f.svc.Calendar()
	if len(days) != 3 {
		t.Fatalf("Calendar() = %d days, want 3", len(days))
	}
	want := []struct{ selected, inRange bool }{{true, false}, {false, true}, {true, false}}
	for i, d := range days {
		if d.Selected != want[i].selected || d.InRange != want[i].inRange {
			t.Errorf("day %s selected=%v inRange=%v", d.ISODate, d.Selected, d.InRange)
		}
	}
	if days[0].Weekday != "Dom" || days[0].DisplayDate != "01/06" {
		t.Errorf("first day = %+v", days[0])
	}
}

func TestBookingServicePrepareWithPetLoadFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(defaultTarget)
	f.pets.err = errors.New("offline")

	if err := f.svc.Prepare(ctx); err != nil {
		t.Fatalf("Prepare() error = %v, want nil", err)
	}
	if d := f.ui.lastDialog(); d != DialogPetLoadFailed {
		t.Errorf("dialog = %+v, want pet load failed", d)
	}

	// ペットが未選択のまま送信すると入力チェックで止まる
	f.svc.Tap("2025-06-02")
	f.svc.Tap("2025-06-03")
	if _, err := f.svc.Confirm(ctx); !errors.Is(err, ErrPetNotSelected) {
		t.Errorf("Confirm() error = %v, want ErrPetNotSelected", err)
	}
	if d := f.ui.lastDialog(); d != DialogPetNotSelected {
		t.Errorf("dialog = %+v, want pet not selected", d)
	}
	if f.reservations.callCount() != 0 {
		t.Errorf("CreateReservation called %d times, want 0", f.reservations.callCount())
	}
}

func TestBookingServiceConfirmUsesLoadedPetsOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(defaultTarget)
	f.pets.pets = []model.PetSummary{{ID: "p1"}}

	f.svc.Tap("2025-06-02")
	f.svc.Tap("2025-06-03")
	if err := f.svc.LoadPets(ctx); err != nil {
		t.Fatalf("LoadPets() error = %v", err)
	}
	before := f.pets.callCount()

	result, err := f.svc.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if f.reservations.callCount() != 1 {
		t.Errorf("CreateReservation called %d times, want 1", f.reservations.callCount())
	}
	if got := f.pets.callCount() - before; got != 0 {
		t.Errorf("pet repository called %d times during Confirm(), want 0", got)
	}
	if result.Event.PetName != "" {
		t.Errorf("PetName = %q, want empty", result.Event.PetName)
	}

	// 名前が無い場合、通知にはペットIDが表示される
	n := model.NewReservationNotification(result.Event)
	if !strings.Contains(n.Message, "Pet: p1") {
		t.Errorf("notification message = %q", n.Message)
	}
}
