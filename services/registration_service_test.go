package services

import (
	"context"
	"testing"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedEvent(id int) *models.Event {
	date := time.Now().AddDate(0, 0, 7)
	return &models.Event{
		ID: id, Title: "Beach Cleanup", Category: "environment",
		Date: &date, Status: models.EventStatusPublished,
		OrganizerID: 50, MaxVolunteers: 20,
	}
}

func newTestRegistrationService(events *fakeEventRepo, registrations *fakeRegistrationRepo, notifier *fakeNotifier) RegistrationService {
	return NewRegistrationService(registrations, events, notifier, discardLogger())
}

func TestRegisterRequiresTerms(t *testing.T) {
	svc := newTestRegistrationService(&fakeEventRepo{}, &fakeRegistrationRepo{}, &fakeNotifier{})

	_, err := svc.Register(context.Background(), RegisterForEventInput{
		EventID: 1, UserID: 2, TermsAccepted: false,
	})
	assert.ErrorIs(t, err, ErrTermsNotAccepted)
}

func TestRegisterHappyPath(t *testing.T) {
	event := publishedEvent(1)
	notifier := &fakeNotifier{}
	events := &fakeEventRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return event, nil },
	}
	registrations := &fakeRegistrationRepo{
		createFn: func(ctx context.Context, reg *models.Registration) error {
			reg.ID = 300
			return nil
		},
	}

	svc := newTestRegistrationService(events, registrations, notifier)

	reg, err := svc.Register(context.Background(), RegisterForEventInput{
		EventID: 1, UserID: 2, TermsAccepted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 300, reg.ID)
	assert.Equal(t, models.RegistrationStatusConfirmed, reg.Status)
	assert.True(t, reg.TermsAccepted)
	require.NotNil(t, reg.TermsAcceptedAt)
	assert.Equal(t, []int{2}, notifier.notified)
}

func TestRegisterClosedEvent(t *testing.T) {
	t.Run("draft event", func(t *testing.T) {
		event := publishedEvent(1)
		event.Status = models.EventStatusDraft
		svc := newTestRegistrationService(&fakeEventRepo{
			getByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return event, nil },
		}, &fakeRegistrationRepo{}, &fakeNotifier{})

		_, err := svc.Register(context.Background(), RegisterForEventInput{EventID: 1, UserID: 2, TermsAccepted: true})
		assert.ErrorIs(t, err, ErrRegistrationNotOpen)
	})

	t.Run("past event", func(t *testing.T) {
		event := publishedEvent(1)
		past := time.Now().AddDate(0, 0, -3)
		event.Date = &past
		svc := newTestRegistrationService(&fakeEventRepo{
			getByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return event, nil },
		}, &fakeRegistrationRepo{}, &fakeNotifier{})

		_, err := svc.Register(context.Background(), RegisterForEventInput{EventID: 1, UserID: 2, TermsAccepted: true})
		assert.ErrorIs(t, err, ErrRegistrationNotOpen)
	})
}

func TestRegisterConflictAndCapacity(t *testing.T) {
	event := publishedEvent(1)
	events := &fakeEventRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return event, nil },
	}

	t.Run("duplicate registration", func(t *testing.T) {
		svc := newTestRegistrationService(events, &fakeRegistrationRepo{
			createFn: func(ctx context.Context, reg *models.Registration) error {
				return repositories.ErrRegistrationConflict
			},
		}, &fakeNotifier{})

		_, err := svc.Register(context.Background(), RegisterForEventInput{EventID: 1, UserID: 2, TermsAccepted: true})
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("event full", func(t *testing.T) {
		svc := newTestRegistrationService(events, &fakeRegistrationRepo{
			createFn: func(ctx context.Context, reg *models.Registration) error {
				return repositories.ErrEventFull
			},
		}, &fakeNotifier{})

		_, err := svc.Register(context.Background(), RegisterForEventInput{EventID: 1, UserID: 2, TermsAccepted: true})
		assert.ErrorIs(t, err, ErrEventFull)
	})
}

func TestCancelOnlyByOwner(t *testing.T) {
	registrations := &fakeRegistrationRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Registration, error) {
			return &models.Registration{ID: id, EventID: 1, UserID: 2, Status: models.RegistrationStatusConfirmed}, nil
		},
	}
	svc := newTestRegistrationService(&fakeEventRepo{}, registrations, &fakeNotifier{})

	err := svc.Cancel(context.Background(), 300, 99)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	err = svc.Cancel(context.Background(), 300, 2)
	assert.NoError(t, err)
}

func TestListByEventOrganizerOnly(t *testing.T) {
	event := publishedEvent(1)
	events := &fakeEventRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return event, nil },
	}
	svc := newTestRegistrationService(events, &fakeRegistrationRepo{}, &fakeNotifier{})

	_, err := svc.ListByEvent(context.Background(), 1, 2, nil)
	assert.ErrorIs(t, err, ErrOrganizerActionForbidden)

	_, err = svc.ListByEvent(context.Background(), 1, event.OrganizerID, nil)
	assert.NoError(t, err)
}
