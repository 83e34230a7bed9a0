package services

import (
	"context"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
)

// Function-field fakes. A nil field means "not expected in this test"; the
// zero-value return keeps unrelated paths quiet.

type fakeMembershipRepo struct {
	createFn            func(ctx context.Context, m *models.TeamMembership) error
	getByIDFn           func(ctx context.Context, id int) (*models.TeamMembership, error)
	listByUserFn        func(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error)
	findActiveFn        func(ctx context.Context, userID, teamID int) (*models.TeamMembership, error)
	updateStatusFn      func(ctx context.Context, id int, status models.MembershipStatus, leftAt *time.Time) error
	countActiveByTeamFn func(ctx context.Context, teamID int) (int, error)
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m *models.TeamMembership) error {
	if f.createFn != nil {
		return f.createFn(ctx, m)
	}
	return nil
}

func (f *fakeMembershipRepo) GetByID(ctx context.Context, id int) (*models.TeamMembership, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) FindActiveByUserAndTeam(ctx context.Context, userID, teamID int) (*models.TeamMembership, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, userID, teamID)
	}
	return nil, repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) ListByUser(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID, status)
	}
	return nil, nil
}

func (f *fakeMembershipRepo) ListByTeam(ctx context.Context, teamID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
	return nil, nil
}

func (f *fakeMembershipRepo) UpdateStatus(ctx context.Context, id int, status models.MembershipStatus, leftAt *time.Time) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status, leftAt)
	}
	return nil
}

func (f *fakeMembershipRepo) CountActiveByTeam(ctx context.Context, teamID int) (int, error) {
	if f.countActiveByTeamFn != nil {
		return f.countActiveByTeamFn(ctx, teamID)
	}
	return 0, nil
}

type fakeTeamRepo struct {
	getByIDFn             func(ctx context.Context, id int) (*models.Team, error)
	listCaptainedByUserFn func(ctx context.Context, userID int) ([]models.Team, error)
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error { return nil }

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error) {
	return nil, nil
}

func (f *fakeTeamRepo) ListCaptainedByUser(ctx context.Context, userID int) ([]models.Team, error) {
	if f.listCaptainedByUserFn != nil {
		return f.listCaptainedByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeTeamRepo) UpdateName(ctx context.Context, id int, name string) error { return nil }
func (f *fakeTeamRepo) Delete(ctx context.Context, id int) error                  { return nil }
func (f *fakeTeamRepo) Count(ctx context.Context) (int, error)                    { return 0, nil }

type fakeRegistrationRepo struct {
	createFn                func(ctx context.Context, reg *models.Registration) error
	getByIDFn               func(ctx context.Context, id int) (*models.Registration, error)
	cancelFn                func(ctx context.Context, id int) error
	listByUserAndStatusesFn func(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error)
	findByUserAndEventFn    func(ctx context.Context, userID, eventID int) (*models.Registration, error)
	updateStatusFn          func(ctx context.Context, id int, status models.RegistrationStatus) error
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	if f.createFn != nil {
		return f.createFn(ctx, reg)
	}
	return nil
}

func (f *fakeRegistrationRepo) Cancel(ctx context.Context, id int) error {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, id)
	}
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) FindByUserAndEvent(ctx context.Context, userID, eventID int) (*models.Registration, error) {
	if f.findByUserAndEventFn != nil {
		return f.findByUserAndEventFn(ctx, userID, eventID)
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ListByUserAndStatuses(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error) {
	if f.listByUserAndStatusesFn != nil {
		return f.listByUserAndStatusesFn(ctx, userID, statuses)
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID int, status *models.RegistrationStatus) ([]models.Registration, error) {
	return nil, nil
}

func (f *fakeRegistrationRepo) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeRegistrationRepo) Count(ctx context.Context) (int, error) { return 0, nil }

type fakeEvaluationRepo struct {
	createFn             func(ctx context.Context, e *models.Evaluation) error
	listReceivedByUserFn func(ctx context.Context, volunteerID int) ([]models.Evaluation, error)
}

func (f *fakeEvaluationRepo) Create(ctx context.Context, e *models.Evaluation) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEvaluationRepo) ListReceivedByUser(ctx context.Context, volunteerID int) ([]models.Evaluation, error) {
	if f.listReceivedByUserFn != nil {
		return f.listReceivedByUserFn(ctx, volunteerID)
	}
	return nil, nil
}

func (f *fakeEvaluationRepo) ListByTeamAndEvent(ctx context.Context, teamID, eventID int) ([]models.Evaluation, error) {
	return nil, nil
}

func (f *fakeEvaluationRepo) FindByVolunteerAndEvent(ctx context.Context, volunteerID, eventID int) (*models.Evaluation, error) {
	return nil, repositories.ErrEvaluationNotFound
}

func (f *fakeEvaluationRepo) Count(ctx context.Context) (int, error) { return 0, nil }

type fakeEventRepo struct {
	getByIDFn func(ctx context.Context, id int) (*models.Event, error)
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error { return nil }

func (f *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrEventNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *models.Event) error { return nil }

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id int, status models.EventStatus) error {
	return nil
}

func (f *fakeEventRepo) UpdateImageKey(ctx context.Context, id int, key *string) error { return nil }

func (f *fakeEventRepo) ListPublishedEndedBefore(ctx context.Context, cutoff time.Time) ([]*models.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Count(ctx context.Context, status *models.EventStatus) (int, error) {
	return 0, nil
}

type fakeUserRepo struct {
	getByIDFn func(ctx context.Context, id int) (*models.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return &models.User{ID: id, Email: "user@example.com", Role: models.RoleVolunteer}, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepo) UpdateAvatarKey(ctx context.Context, userID int, key *string) error {
	return nil
}

func (f *fakeUserRepo) ConfirmEmail(ctx context.Context, userID int) error { return nil }

func (f *fakeUserRepo) SetPasswordResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) { return 0, nil }

type fakeInviteRepo struct {
	createFn     func(ctx context.Context, invite *models.Invite) error
	getByTokenFn func(ctx context.Context, token string) (*models.Invite, error)
	deleteFn     func(ctx context.Context, id int) error
}

func (f *fakeInviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	if f.createFn != nil {
		return f.createFn(ctx, invite)
	}
	return nil
}

func (f *fakeInviteRepo) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	if f.getByTokenFn != nil {
		return f.getByTokenFn(ctx, token)
	}
	return nil, repositories.ErrInviteNotFound
}

func (f *fakeInviteRepo) Delete(ctx context.Context, id int) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeInviteRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

// fakeNotifier records notifications instead of persisting or pushing them.
type fakeNotifier struct {
	notified []int
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int, ntype models.NotificationType, title, message string) error {
	f.notified = append(f.notified, userID)
	return nil
}

func (f *fakeNotifier) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id, userID int) error { return nil }
func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID int) error  { return nil }
func (f *fakeNotifier) UnreadCount(ctx context.Context, userID int) (int, error) {
	return 0, nil
}
