package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mudassar003/scholarsync/internal/dispatch"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/repository"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func TestSelectDueRecordsPredicate(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(
		pendingProfessor("due", daysAgo(10)),
		pendingProfessor("too-recent", daysAgo(3)),
		withStatus(pendingProfessor("replied", daysAgo(10)), domain.StatusReplied),
		withStamp(pendingProfessor("already-notified", daysAgo(10)), daysAgo(1)),
	)
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			s := domain.DefaultReminderSettings(userID)
			s.ReminderDays = 7
			return s, nil
		},
	}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, nil)

	due, err := svc.SelectDueRecords(context.Background(), "u1", testNow)
	if err != nil {
		t.Fatalf("SelectDueRecords() error = %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("selected %d records, want 1", len(due))
	}
	if due[0].ID != "due" {
		t.Fatalf("selected record = %s, want due", due[0].ID)
	}
}

func TestSelectDueRecordsLongerCadenceExcludes(t *testing.T) {
	t.Parallel()

	// Ten days of silence is not enough under a fourteen-day cadence.
	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			s := domain.DefaultReminderSettings(userID)
			s.ReminderDays = 14
			return s, nil
		},
	}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, nil)

	due, err := svc.SelectDueRecords(context.Background(), "u1", testNow)
	if err != nil {
		t.Fatalf("SelectDueRecords() error = %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("selected %d records, want 0", len(due))
	}
}

func TestSelectDueRecordsDefaultsWhenSettingsMissing(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, nil)

	due, err := svc.SelectDueRecords(context.Background(), "u1", testNow)
	if err != nil {
		t.Fatalf("SelectDueRecords() error = %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("selected %d records, want 1 with default cadence", len(due))
	}
}

func TestSelectDueRecordsSettingsStoreErrorFallsBack(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			return nil, errors.New("settings store unreachable")
		},
	}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, nil)

	due, err := svc.SelectDueRecords(context.Background(), "u1", testNow)
	if err != nil {
		t.Fatalf("SelectDueRecords() error = %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("selected %d records, want 1 despite settings store failure", len(due))
	}
}

func TestProcessDueRemindersHappyPath(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	settings := defaultSettingsRepo()
	history := &fakeHistoryRepo{}
	dispatcher := &fakeDispatcher{channel: domain.ChannelEmail}

	svc := newTestReminderService(t, repo, settings, history, []dispatch.Dispatcher{dispatcher})

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if !result.Success {
		t.Fatalf("result.Error = %q, want success", result.Error)
	}
	if result.TotalProfessors != 1 {
		t.Fatalf("totalProfessors = %d, want 1", result.TotalProfessors)
	}
	if result.NotificationsSent != 1 {
		t.Fatalf("notificationsSent = %d, want 1", result.NotificationsSent)
	}

	record := repo.mustGet(t, "p1")
	if record.Status != domain.StatusFollowUp {
		t.Fatalf("status = %s, want Follow Up", record.Status)
	}
	if record.LastNotificationAt == nil || !record.LastNotificationAt.Equal(testNow) {
		t.Fatalf("lastNotificationAt = %v, want %v", record.LastNotificationAt, testNow)
	}
	if record.ReminderDate == nil || !record.ReminderDate.Equal(testNow.AddDate(0, 0, 3)) {
		t.Fatalf("reminderDate = %v, want now+3d", record.ReminderDate)
	}

	if len(dispatcher.sent) != 1 {
		t.Fatalf("dispatched %d messages, want 1", len(dispatcher.sent))
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	entry := history.entries[0]
	if entry.Status != domain.DeliverySent {
		t.Fatalf("history status = %s, want sent", entry.Status)
	}
	if entry.Channel != domain.ChannelEmail {
		t.Fatalf("history channel = %s, want email", entry.Channel)
	}
	if entry.ProfessorID != "p1" {
		t.Fatalf("history professorId = %s, want p1", entry.ProfessorID)
	}
}

func TestProcessDueRemindersEmptySelection(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo()
	svc := newTestReminderService(t, repo, defaultSettingsRepo(), &fakeHistoryRepo{}, nil)

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if !result.Success {
		t.Fatalf("result.Error = %q, want success", result.Error)
	}
	if result.TotalProfessors != 0 || result.NotificationsSent != 0 {
		t.Fatalf("result = %+v, want zero processed", result)
	}
}

func TestProcessDueRemindersNoSettingsFails(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, nil)

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if result.Success {
		t.Fatal("expected failure when settings are missing")
	}
	if result.Error != "No notification settings found" {
		t.Fatalf("error = %q, want %q", result.Error, "No notification settings found")
	}

	// The record must remain untouched.
	record := repo.mustGet(t, "p1")
	if record.Status != domain.StatusPending {
		t.Fatalf("status = %s, want Pending", record.Status)
	}
	if record.LastNotificationAt != nil {
		t.Fatal("lastNotificationAt should remain unset")
	}
}

func TestProcessDueRemindersIdempotent(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	dispatcher := &fakeDispatcher{channel: domain.ChannelEmail}
	svc := newTestReminderService(t, repo, defaultSettingsRepo(), &fakeHistoryRepo{}, []dispatch.Dispatcher{dispatcher})

	first := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if first.NotificationsSent != 1 {
		t.Fatalf("first run notificationsSent = %d, want 1", first.NotificationsSent)
	}

	second := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if !second.Success {
		t.Fatalf("second run error = %q, want success", second.Error)
	}
	if second.TotalProfessors != 0 {
		t.Fatalf("second run selected %d records, want 0", second.TotalProfessors)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("dispatched %d messages across both runs, want 1", len(dispatcher.sent))
	}
}

func TestProcessDueRemindersPartialFailureContinues(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(
		pendingProfessor("p1", daysAgo(10)),
		pendingProfessor("p2", daysAgo(11)),
		pendingProfessor("p3", daysAgo(12)),
	)
	repo.failStampFor("p2")

	dispatcher := &fakeDispatcher{channel: domain.ChannelEmail}
	svc := newTestReminderService(t, repo, defaultSettingsRepo(), &fakeHistoryRepo{}, []dispatch.Dispatcher{dispatcher})

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if !result.Success {
		t.Fatalf("result.Error = %q, want success despite per-record failure", result.Error)
	}
	if result.TotalProfessors != 3 {
		t.Fatalf("totalProfessors = %d, want 3", result.TotalProfessors)
	}
	if result.NotificationsSent != 2 {
		t.Fatalf("notificationsSent = %d, want 2", result.NotificationsSent)
	}

	if got := repo.mustGet(t, "p1").Status; got != domain.StatusFollowUp {
		t.Fatalf("p1 status = %s, want Follow Up", got)
	}
	if got := repo.mustGet(t, "p2").Status; got != domain.StatusPending {
		t.Fatalf("p2 status = %s, want Pending after write failure", got)
	}
	if got := repo.mustGet(t, "p3").Status; got != domain.StatusFollowUp {
		t.Fatalf("p3 status = %s, want Follow Up", got)
	}
}

func TestProcessDueRemindersDispatchFailureStillTransitions(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	history := &fakeHistoryRepo{}
	dispatcher := &fakeDispatcher{
		channel: domain.ChannelEmail,
		sendFn: func(ctx context.Context, msg dispatch.Message) (*dispatch.Result, error) {
			return nil, &dispatch.DispatchError{StatusCode: 502, Message: "relay down", Transient: true}
		},
	}

	svc := newTestReminderService(t, repo, defaultSettingsRepo(), history, []dispatch.Dispatcher{dispatcher})

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if !result.Success {
		t.Fatalf("result.Error = %q, want success", result.Error)
	}
	if result.NotificationsSent != 0 {
		t.Fatalf("notificationsSent = %d, want 0", result.NotificationsSent)
	}

	record := repo.mustGet(t, "p1")
	if record.Status != domain.StatusFollowUp {
		t.Fatalf("status = %s, want Follow Up even when dispatch fails", record.Status)
	}
	if record.LastNotificationAt == nil {
		t.Fatal("lastNotificationAt should be stamped even when dispatch fails")
	}

	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	entry := history.entries[0]
	if entry.Status != domain.DeliveryFailed {
		t.Fatalf("history status = %s, want failed", entry.Status)
	}
	if entry.Error == nil {
		t.Fatal("history error text should be recorded")
	}
}

func TestProcessDueRemindersSMSChannelUsesSettingsPhone(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			s := domain.DefaultReminderSettings(userID)
			s.EmailNotifications = false
			s.SMSNotifications = true
			s.PhoneNumber = "+15551112233"
			s.SMSTemplate = "Nudge {name} at {university}"
			return s, nil
		},
	}
	smsDispatcher := &fakeDispatcher{channel: domain.ChannelSMS}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, []dispatch.Dispatcher{smsDispatcher})

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if result.NotificationsSent != 1 {
		t.Fatalf("notificationsSent = %d, want 1", result.NotificationsSent)
	}

	if len(smsDispatcher.sent) != 1 {
		t.Fatalf("sms dispatches = %d, want 1", len(smsDispatcher.sent))
	}
	msg := smsDispatcher.sent[0]
	if msg.Recipient != "+15551112233" {
		t.Fatalf("sms recipient = %q, want settings phone number", msg.Recipient)
	}
	if msg.Body != "Nudge Dr. Silva at MIT" {
		t.Fatalf("sms body = %q, want rendered template", msg.Body)
	}
}

func TestProcessDueRemindersHistoryAppendFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(10)))
	history := &fakeHistoryRepo{
		appendFn: func(ctx context.Context, h *domain.HistoryEntry) error {
			return errors.New("history table unavailable")
		},
	}
	dispatcher := &fakeDispatcher{channel: domain.ChannelEmail}

	svc := newTestReminderService(t, repo, defaultSettingsRepo(), history, []dispatch.Dispatcher{dispatcher})

	result := svc.ProcessDueReminders(context.Background(), "u1", testNow)
	if result.NotificationsSent != 1 {
		t.Fatalf("notificationsSent = %d, want 1 despite history failure", result.NotificationsSent)
	}
	if got := repo.mustGet(t, "p1").Status; got != domain.StatusFollowUp {
		t.Fatalf("status = %s, want Follow Up despite history failure", got)
	}
}

func TestSendManualReminderBypassesStamp(t *testing.T) {
	t.Parallel()

	stamped := withStamp(pendingProfessor("p1", daysAgo(2)), daysAgo(1))
	repo := newMemProfessorRepo(stamped)
	dispatcher := &fakeDispatcher{channel: domain.ChannelEmail}

	svc := newTestReminderService(t, repo, defaultSettingsRepo(), &fakeHistoryRepo{}, []dispatch.Dispatcher{dispatcher})

	result, err := svc.SendManualReminder(context.Background(), "u1", "p1", testNow)
	if err != nil {
		t.Fatalf("SendManualReminder() error = %v", err)
	}
	if !result.Success || result.NotificationsSent != 1 {
		t.Fatalf("result = %+v, want one notification", result)
	}

	record := repo.mustGet(t, "p1")
	if record.Status != domain.StatusFollowUp {
		t.Fatalf("status = %s, want Follow Up", record.Status)
	}
	if record.LastNotificationAt == nil || !record.LastNotificationAt.Equal(testNow) {
		t.Fatalf("lastNotificationAt = %v, want refreshed to %v", record.LastNotificationAt, testNow)
	}
}

func TestSendManualReminderRecordNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestReminderService(t, newMemProfessorRepo(), defaultSettingsRepo(), &fakeHistoryRepo{}, nil)

	_, err := svc.SendManualReminder(context.Background(), "u1", "missing", testNow)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSendManualReminderNoSettings(t *testing.T) {
	t.Parallel()

	repo := newMemProfessorRepo(pendingProfessor("p1", daysAgo(2)))
	settings := &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestReminderService(t, repo, settings, &fakeHistoryRepo{}, nil)

	result, err := svc.SendManualReminder(context.Background(), "u1", "p1", testNow)
	if err != nil {
		t.Fatalf("SendManualReminder() error = %v", err)
	}
	if result.Success {
		t.Fatal("expected failure result when settings are missing")
	}
	if result.Error != "No notification settings found" {
		t.Fatalf("error = %q, want %q", result.Error, "No notification settings found")
	}
}

// --- helpers and fakes ---

func newTestReminderService(
	t *testing.T,
	professors repository.ProfessorRepository,
	settings repository.SettingsRepository,
	history repository.HistoryRepository,
	dispatchers []dispatch.Dispatcher,
) *ReminderService {
	t.Helper()

	svc, err := NewReminderService(professors, settings, history, dispatchers, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewReminderService() error = %v", err)
	}
	svc.now = func() time.Time { return testNow }
	return svc
}

func defaultSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		getFn: func(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
			return domain.DefaultReminderSettings(userID), nil
		},
	}
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func pendingProfessor(id string, emailDate time.Time) *domain.Professor {
	date := emailDate
	return &domain.Professor{
		ID:                  id,
		UserID:              "u1",
		Name:                "Dr. Silva",
		Email:               "silva@example.edu",
		University:          "MIT",
		Status:              domain.StatusPending,
		EmailDate:           &date,
		NotificationEnabled: true,
	}
}

func withStatus(p *domain.Professor, status domain.Status) *domain.Professor {
	p.Status = status
	return p
}

func withStamp(p *domain.Professor, at time.Time) *domain.Professor {
	stamp := at
	p.LastNotificationAt = &stamp
	return p
}

// memProfessorRepo implements ProfessorRepository over an in-memory map with
// the same selection and stamping semantics as the SQL implementation.
type memProfessorRepo struct {
	records  map[string]*domain.Professor
	order    []string
	failIDs  map[string]bool
	updateFn func(ctx context.Context, p *domain.Professor) error
}

func newMemProfessorRepo(professors ...*domain.Professor) *memProfessorRepo {
	repo := &memProfessorRepo{
		records: make(map[string]*domain.Professor, len(professors)),
		failIDs: make(map[string]bool),
	}
	for _, p := range professors {
		copied := *p
		repo.records[p.ID] = &copied
		repo.order = append(repo.order, p.ID)
	}
	return repo
}

func (r *memProfessorRepo) failStampFor(id string) {
	r.failIDs[id] = true
}

func (r *memProfessorRepo) mustGet(t *testing.T, id string) *domain.Professor {
	t.Helper()
	record, ok := r.records[id]
	if !ok {
		t.Fatalf("record %q not found", id)
	}
	return record
}

func (r *memProfessorRepo) Create(ctx context.Context, p *domain.Professor) error {
	copied := *p
	r.records[p.ID] = &copied
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memProfessorRepo) GetByID(ctx context.Context, userID, id string) (*domain.Professor, error) {
	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memProfessorRepo) List(ctx context.Context, params repository.ListParams) ([]domain.Professor, int64, error) {
	results := make([]domain.Professor, 0, len(r.order))
	for _, id := range r.order {
		record := r.records[id]
		if record.UserID != params.UserID {
			continue
		}
		if params.Status != nil && record.Status != *params.Status {
			continue
		}
		results = append(results, *record)
	}
	return results, int64(len(results)), nil
}

func (r *memProfessorRepo) Update(ctx context.Context, p *domain.Professor) error {
	if r.updateFn != nil {
		return r.updateFn(ctx, p)
	}
	record, ok := r.records[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	record.Name = p.Name
	record.Email = p.Email
	record.University = p.University
	record.Country = p.Country
	record.Research = p.Research
	record.Scholarship = p.Scholarship
	record.Notes = p.Notes
	record.EmailDate = p.EmailDate
	return nil
}

func (r *memProfessorRepo) Delete(ctx context.Context, userID, id string) error {
	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memProfessorRepo) GetDueForReminder(ctx context.Context, userID string, cutoff time.Time) ([]domain.Professor, error) {
	cutoffDay := cutoff.UTC().Format("2006-01-02")

	due := make([]domain.Professor, 0, len(r.order))
	for _, id := range r.order {
		record := r.records[id]
		if record.UserID != userID {
			continue
		}
		if record.Status != domain.StatusPending || !record.NotificationEnabled {
			continue
		}
		if record.EmailDate == nil || record.LastNotificationAt != nil {
			continue
		}
		if record.EmailDate.UTC().Format("2006-01-02") > cutoffDay {
			continue
		}
		due = append(due, *record)
	}
	return due, nil
}

func (r *memProfessorRepo) ApplyTransition(ctx context.Context, userID, id string, m domain.StatusMutation) error {
	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return domain.ErrNotFound
	}

	record.Status = m.Status
	record.ReminderDate = m.ReminderDate
	record.NotificationEnabled = m.NotificationEnabled
	if m.ReplyDate != nil {
		record.ReplyDate = m.ReplyDate
	}
	if m.ClearNotificationStamp {
		record.LastNotificationAt = nil
	}
	return nil
}

func (r *memProfessorRepo) MarkNotifiedIfUnset(ctx context.Context, id string, at time.Time) (bool, error) {
	if r.failIDs[id] {
		return false, fmt.Errorf("write failed for %s", id)
	}
	record, ok := r.records[id]
	if !ok {
		return false, nil
	}
	if record.LastNotificationAt != nil {
		return false, nil
	}
	stamp := at
	record.LastNotificationAt = &stamp
	return true, nil
}

func (r *memProfessorRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	record, ok := r.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	stamp := at
	record.LastNotificationAt = &stamp
	return nil
}

type fakeSettingsRepo struct {
	getFn    func(ctx context.Context, userID string) (*domain.ReminderSettings, error)
	createFn func(ctx context.Context, s *domain.ReminderSettings) error
	updateFn func(ctx context.Context, s *domain.ReminderSettings) error
}

func (f *fakeSettingsRepo) GetByUser(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s *domain.ReminderSettings) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s *domain.ReminderSettings) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

type fakeHistoryRepo struct {
	entries  []domain.HistoryEntry
	appendFn func(ctx context.Context, h *domain.HistoryEntry) error
}

func (f *fakeHistoryRepo) Append(ctx context.Context, h *domain.HistoryEntry) error {
	if f.appendFn != nil {
		return f.appendFn(ctx, h)
	}
	f.entries = append(f.entries, *h)
	return nil
}

func (f *fakeHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	return f.entries, nil
}

type fakeDispatcher struct {
	channel domain.Channel
	sent    []dispatch.Message
	sendFn  func(ctx context.Context, msg dispatch.Message) (*dispatch.Result, error)
}

func (f *fakeDispatcher) Channel() domain.Channel { return f.channel }

func (f *fakeDispatcher) Send(ctx context.Context, msg dispatch.Message) (*dispatch.Result, error) {
	if f.sendFn != nil {
		return f.sendFn(ctx, msg)
	}
	f.sent = append(f.sent, msg)
	return &dispatch.Result{StatusCode: 200}, nil
}
