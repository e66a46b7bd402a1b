package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/metrics"
)

const syncLookback = 7 * day

type syncedWorkouts interface {
	FindSynced(ctx context.Context, userID string, completedAt time.Time) (*domain.Workout, error)
	Create(ctx context.Context, w *domain.Workout) error
}

type wearableUsers interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	SetWearableUserID(ctx context.Context, id string, wearableUserID *string) error
}

type WearableService struct {
	provider WearableProvider
	users    wearableUsers
	workouts syncedWorkouts
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewWearableService(provider WearableProvider, users wearableUsers, workouts syncedWorkouts, log logrus.FieldLogger) *WearableService {
	return &WearableService{
		provider: provider,
		users:    users,
		workouts: workouts,
		log:      log,
		now:      time.Now,
	}
}

func (s *WearableService) Connect(ctx context.Context, user *domain.User) (domain.WidgetSession, error) {
	return s.provider.GenerateWidgetSession(ctx, user.ID)
}

// Devices returns the vendor's view of the user's connections, or
// connected=false when the user never linked a device.
func (s *WearableService) Devices(ctx context.Context, user *domain.User) (bool, json.RawMessage, error) {
	if user.WearableUserID == nil {
		return false, nil, nil
	}
	info, err := s.provider.UserInfo(ctx, *user.WearableUserID)
	if err != nil {
		return true, nil, err
	}
	return true, info, nil
}

// Sync pulls activities in [start, end] and inserts the ones not stored yet.
// Empty bounds default to the last seven days.
func (s *WearableService) Sync(ctx context.Context, user *domain.User, start, end string) (domain.SyncResult, error) {
	vendorID, err := requireDevice(user)
	if err != nil {
		return domain.SyncResult{}, err
	}
	start, end = s.dateRange(start, end)

	activities, err := s.provider.Activities(ctx, vendorID, start, end)
	if err != nil {
		return domain.SyncResult{}, err
	}

	result := domain.SyncResult{Total: len(activities), Workouts: []domain.Workout{}}
	for _, activity := range activities {
		w, inserted, err := s.insertActivity(ctx, user, activity)
		if err != nil {
			return domain.SyncResult{}, err
		}
		if inserted {
			result.Workouts = append(result.Workouts, *w)
		}
	}
	result.Synced = len(result.Workouts)
	return result, nil
}

func (s *WearableService) Daily(ctx context.Context, user *domain.User, date string) (string, *domain.DailySummary, error) {
	vendorID, err := requireDevice(user)
	if err != nil {
		return "", nil, err
	}
	if date == "" {
		date = s.now().UTC().Format(time.DateOnly)
	}

	records, err := s.provider.Daily(ctx, vendorID, date, date)
	if err != nil {
		return "", nil, err
	}
	if len(records) == 0 {
		return date, nil, nil
	}
	return date, DailySummaryFrom(records[0]), nil
}

func (s *WearableService) Sleep(ctx context.Context, user *domain.User, start, end string) ([]domain.SleepSummary, error) {
	vendorID, err := requireDevice(user)
	if err != nil {
		return nil, err
	}
	start, end = s.dateRange(start, end)

	records, err := s.provider.Sleep(ctx, vendorID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SleepSummary, 0, len(records))
	for _, r := range records {
		out = append(out, SleepSummaryFrom(r))
	}
	return out, nil
}

func (s *WearableService) Disconnect(ctx context.Context, user *domain.User) error {
	vendorID, err := requireDevice(user)
	if err != nil {
		return err
	}
	if err := s.provider.Deauthenticate(ctx, vendorID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("vendor deauthentication failed, detaching locally")
	}
	if err := s.users.SetWearableUserID(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("failed to detach device: %w", err)
	}
	return nil
}

// HandleWebhook applies one vendor push. The caller acknowledges the
// delivery whatever this returns.
func (s *WearableService) HandleWebhook(ctx context.Context, event domain.WebhookEvent) error {
	if event.User == nil || event.User.ReferenceID == "" {
		return nil
	}
	referenceID := event.User.ReferenceID

	switch event.Type {
	case domain.WebhookAuth:
		vendorID := event.User.UserID
		return s.users.SetWearableUserID(ctx, referenceID, &vendorID)

	case domain.WebhookActivity:
		if len(event.Data) == 0 {
			return nil
		}
		user, err := s.users.GetByID(ctx, referenceID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("webhook for unknown user %s", referenceID)
		}

		data := gjson.ParseBytes(event.Data)
		records := []gjson.Result{data}
		if data.IsArray() {
			records = data.Array()
		}
		for _, activity := range records {
			if _, _, err := s.insertActivity(ctx, user, activity); err != nil {
				return err
			}
		}
		return nil

	case domain.WebhookDeauth:
		return s.users.SetWearableUserID(ctx, referenceID, nil)
	}
	return nil
}

// insertActivity stores activity unless a wearable workout with the same
// owner and completion time exists. Malformed records are skipped.
func (s *WearableService) insertActivity(ctx context.Context, user *domain.User, activity gjson.Result) (*domain.Workout, bool, error) {
	w, err := TransformActivity(activity, user.Profile.Age)
	if err != nil {
		metrics.RecordWearableWorkout("invalid")
		s.log.WithError(err).WithField("user_id", user.ID).Warn("skipping vendor activity")
		return nil, false, nil
	}

	existing, err := s.workouts.FindSynced(ctx, user.ID, w.CompletedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check synced workout: %w", err)
	}
	if existing != nil {
		metrics.RecordWearableWorkout("duplicate")
		return existing, false, nil
	}

	w.UserID = user.ID
	if err := s.workouts.Create(ctx, &w); err != nil {
		return nil, false, fmt.Errorf("failed to store synced workout: %w", err)
	}
	metrics.RecordWearableWorkout("inserted")
	return &w, true, nil
}

func (s *WearableService) dateRange(start, end string) (string, string) {
	now := s.now().UTC()
	if start == "" {
		start = now.Add(-syncLookback).Format(time.DateOnly)
	}
	if end == "" {
		end = now.Format(time.DateOnly)
	}
	return start, end
}

func requireDevice(user *domain.User) (string, error) {
	if user.WearableUserID == nil || *user.WearableUserID == "" {
		return "", domain.ValidationError("No device connected. Please connect a device first.")
	}
	return *user.WearableUserID, nil
}
