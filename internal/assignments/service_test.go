package assignments

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/shared"
)

type mockRepository struct {
	assignments map[int64]*Assignment
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		assignments: make(map[int64]*Assignment),
		nextID:      1,
	}
}

func (m *mockRepository) ListAssignments(ctx context.Context, maxLevel int) ([]Assignment, error) {
	ids := make([]int64, 0, len(m.assignments))
	for id := range m.assignments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var result []Assignment
	for _, id := range ids {
		if m.assignments[id].RoleLevel <= maxLevel {
			result = append(result, *m.assignments[id])
		}
	}
	return result, nil
}

func (m *mockRepository) GetAssignment(ctx context.Context, id int64) (*Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockRepository) CreateAssignment(ctx context.Context, userID, roleID int64) (*Assignment, error) {
	a := &Assignment{
		ID:        m.nextID,
		UserID:    userID,
		RoleID:    roleID,
		CreatedAt: time.Now().UTC(),
	}
	m.nextID++
	m.assignments[a.ID] = a
	copied := *a
	return &copied, nil
}

func (m *mockRepository) DeleteAssignment(ctx context.Context, id int64) error {
	if _, ok := m.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(m.assignments, id)
	return nil
}

type stubRoles struct {
	roles map[int64]*hierarchy.Role
}

func (s *stubRoles) FindRole(ctx context.Context, id int64) (*hierarchy.Role, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return role, nil
}

type stubUsers struct {
	users map[int64]bool
}

func (s *stubUsers) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.users[id], nil
}

const (
	contributorRoleID = int64(1)
	managerRoleID     = int64(2)
	adminRoleID       = int64(3)
)

// newFixture seeds two assignments per tier across six users, matching the
// store layout used throughout the scenarios.
func newFixture() (*Service, *mockRepository) {
	repo := newMockRepository()
	roleLevels := map[int64]int{
		contributorRoleID: hierarchy.ContributorLevel,
		managerRoleID:     hierarchy.ManagerLevel,
		adminRoleID:       hierarchy.AdminLevel,
	}
	seed := []struct {
		userID int64
		roleID int64
	}{
		{101, contributorRoleID},
		{102, contributorRoleID},
		{201, managerRoleID},
		{202, managerRoleID},
		{301, adminRoleID},
		{302, adminRoleID},
	}
	users := map[int64]bool{100: true}
	for _, s := range seed {
		a, _ := repo.CreateAssignment(context.Background(), s.userID, s.roleID)
		repo.assignments[a.ID].RoleLevel = roleLevels[s.roleID]
		users[s.userID] = true
	}
	roles := &stubRoles{roles: map[int64]*hierarchy.Role{
		contributorRoleID: {ID: contributorRoleID, Name: hierarchy.RoleContributor, Level: hierarchy.ContributorLevel},
		managerRoleID:     {ID: managerRoleID, Name: hierarchy.RoleManager, Level: hierarchy.ManagerLevel},
		adminRoleID:       {ID: adminRoleID, Name: hierarchy.RoleAdmin, Level: hierarchy.AdminLevel},
	}}
	return NewService(repo, roles, &stubUsers{users: users}), repo
}

func actorWithLevel(userID int64, level int) hierarchy.Actor {
	actor := hierarchy.Actor{UserID: userID, Authenticated: true}
	if level > hierarchy.GuestLevel {
		actor.Roles = []hierarchy.Role{{ID: int64(level), Level: level}}
	}
	return actor
}

func TestListScoping(t *testing.T) {
	service, _ := newFixture()
	ctx := context.Background()

	cases := []struct {
		name      string
		level     int
		wantCount int
		maxLevel  int
	}{
		{"contributor sees peers only", hierarchy.ContributorLevel, 2, hierarchy.ContributorLevel},
		{"manager sees managers and contributors", hierarchy.ManagerLevel, 4, hierarchy.ManagerLevel},
		{"admin sees everything", hierarchy.AdminLevel, 6, hierarchy.AdminLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listed, err := service.List(ctx, actorWithLevel(1, tc.level))
			require.NoError(t, err)
			require.Len(t, listed, tc.wantCount)
			for _, a := range listed {
				assert.LessOrEqual(t, a.RoleLevel, tc.maxLevel)
			}
		})
	}
}

func TestListPreservesStoreOrder(t *testing.T) {
	service, _ := newFixture()

	listed, err := service.List(context.Background(), actorWithLevel(1, hierarchy.AdminLevel))
	require.NoError(t, err)
	for i := 1; i < len(listed); i++ {
		assert.Less(t, listed[i-1].ID, listed[i].ID)
	}
}

func TestListRejectsGuests(t *testing.T) {
	service, _ := newFixture()
	ctx := context.Background()

	_, err := service.List(ctx, hierarchy.Guest())
	assert.ErrorIs(t, err, ErrForbidden)

	// A signed-in user with zero assignments has no listing capability
	// either, distinct from receiving an empty scope.
	signedInGuest := hierarchy.Actor{UserID: 100, Authenticated: true}
	_, err = service.List(ctx, signedInGuest)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetVisibility(t *testing.T) {
	service, repo := newFixture()
	ctx := context.Background()

	var contributorID, managerID, adminID int64
	for id, a := range repo.assignments {
		switch a.RoleLevel {
		case hierarchy.ContributorLevel:
			contributorID = id
		case hierarchy.ManagerLevel:
			managerID = id
		case hierarchy.AdminLevel:
			adminID = id
		}
	}

	contributor := actorWithLevel(101, hierarchy.ContributorLevel)

	got, err := service.Get(ctx, contributor, contributorID)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.ContributorLevel, got.RoleLevel)

	// A record above the actor's level and a record that does not exist
	// are indistinguishable.
	_, err = service.Get(ctx, contributor, managerID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = service.Get(ctx, contributor, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.Get(ctx, hierarchy.Guest(), contributorID)
	assert.ErrorIs(t, err, ErrNotFound)

	admin := actorWithLevel(301, hierarchy.AdminLevel)
	got, err = service.Get(ctx, admin, adminID)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.AdminLevel, got.RoleLevel)
}

func TestCreateRequiresAuthentication(t *testing.T) {
	service, _ := newFixture()

	_, err := service.Create(context.Background(), hierarchy.Guest(), CreateInput{UserID: 100, RoleID: contributorRoleID})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreateValidatesBeforePrivilege(t *testing.T) {
	service, _ := newFixture()
	ctx := context.Background()
	contributor := actorWithLevel(101, hierarchy.ContributorLevel)

	// Missing identifiers are a request-shape defect, never a privilege one.
	_, err := service.Create(ctx, contributor, CreateInput{})
	assert.ErrorIs(t, err, ErrUnprocessable)

	_, err = service.Create(ctx, contributor, CreateInput{UserID: 100, RoleID: 999})
	assert.ErrorIs(t, err, ErrUnprocessable)

	_, err = service.Create(ctx, contributor, CreateInput{UserID: 999, RoleID: contributorRoleID})
	assert.ErrorIs(t, err, ErrUnprocessable)
}

func TestCreatePrivilegeMatrix(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name       string
		actorLevel int
		roleID     int64
		wantErr    error
	}{
		{"signed-in guest cannot grant", hierarchy.GuestLevel, contributorRoleID, ErrForbidden},
		{"contributor grants contributor", hierarchy.ContributorLevel, contributorRoleID, nil},
		{"contributor cannot grant manager", hierarchy.ContributorLevel, managerRoleID, ErrForbidden},
		{"contributor cannot grant admin", hierarchy.ContributorLevel, adminRoleID, ErrForbidden},
		{"manager grants contributor", hierarchy.ManagerLevel, contributorRoleID, nil},
		{"manager grants manager", hierarchy.ManagerLevel, managerRoleID, nil},
		{"manager cannot grant admin", hierarchy.ManagerLevel, adminRoleID, ErrForbidden},
		{"admin grants admin", hierarchy.AdminLevel, adminRoleID, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newFixture()
			actor := actorWithLevel(1, tc.actorLevel)
			created, err := service.Create(ctx, actor, CreateInput{UserID: 100, RoleID: tc.roleID})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(100), created.UserID)
			assert.Equal(t, tc.roleID, created.RoleID)
			assert.NotZero(t, created.ID)
		})
	}
}

func TestCreateTargetUserIsIrrelevantToPrivilege(t *testing.T) {
	// A manager may grant a contributor role to another manager; only the
	// target role's level matters.
	service, _ := newFixture()
	manager := actorWithLevel(201, hierarchy.ManagerLevel)

	created, err := service.Create(context.Background(), manager, CreateInput{UserID: 202, RoleID: contributorRoleID})
	require.NoError(t, err)
	assert.Equal(t, int64(202), created.UserID)

	// Self-assignment is equally allowed.
	created, err = service.Create(context.Background(), manager, CreateInput{UserID: 201, RoleID: managerRoleID})
	require.NoError(t, err)
	assert.Equal(t, int64(201), created.UserID)
}

func TestDeleteRequiresAuthentication(t *testing.T) {
	service, repo := newFixture()
	var anyID int64
	for id := range repo.assignments {
		anyID = id
		break
	}

	err := service.Delete(context.Background(), hierarchy.Guest(), anyID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDeleteScopeBeforePrivilege(t *testing.T) {
	service, repo := newFixture()
	ctx := context.Background()

	var contributorID, managerID, adminID int64
	for id, a := range repo.assignments {
		switch a.RoleLevel {
		case hierarchy.ContributorLevel:
			contributorID = id
		case hierarchy.ManagerLevel:
			managerID = id
		case hierarchy.AdminLevel:
			adminID = id
		}
	}

	// A signed-in guest perceives nothing, so deletion of an existing
	// record reports not-found rather than forbidden.
	signedInGuest := hierarchy.Actor{UserID: 100, Authenticated: true}
	assert.ErrorIs(t, service.Delete(ctx, signedInGuest, contributorID), ErrNotFound)

	// A contributor perceives contributor-level records but may never
	// revoke them: same level is not strictly lower.
	contributor := actorWithLevel(101, hierarchy.ContributorLevel)
	assert.ErrorIs(t, service.Delete(ctx, contributor, contributorID), ErrForbidden)

	// Records above the contributor's scope stay hidden even though a
	// privilege error would also apply.
	assert.ErrorIs(t, service.Delete(ctx, contributor, managerID), ErrNotFound)

	manager := actorWithLevel(201, hierarchy.ManagerLevel)
	assert.NoError(t, service.Delete(ctx, manager, contributorID))
	assert.ErrorIs(t, service.Delete(ctx, manager, managerID), ErrForbidden)
	assert.ErrorIs(t, service.Delete(ctx, manager, adminID), ErrNotFound)

	admin := actorWithLevel(301, hierarchy.AdminLevel)
	assert.NoError(t, service.Delete(ctx, admin, managerID))
	// Same-tier revocation is rejected for every tier, admins included.
	assert.ErrorIs(t, service.Delete(ctx, admin, adminID), ErrForbidden)
}

func TestDeleteRepeatReportsNotFound(t *testing.T) {
	service, repo := newFixture()
	ctx := context.Background()

	var contributorID int64
	for id, a := range repo.assignments {
		if a.RoleLevel == hierarchy.ContributorLevel {
			contributorID = id
			break
		}
	}

	manager := actorWithLevel(201, hierarchy.ManagerLevel)
	require.NoError(t, service.Delete(ctx, manager, contributorID))

	// Repeating the delete reports not-found, not forbidden: the record
	// is gone.
	assert.ErrorIs(t, service.Delete(ctx, manager, contributorID), ErrNotFound)
}

func TestVisibilityPredicateSharedAcrossActions(t *testing.T) {
	for level := hierarchy.GuestLevel; level <= hierarchy.AdminLevel; level++ {
		actor := actorWithLevel(1, level)
		for target := hierarchy.ContributorLevel; target <= hierarchy.AdminLevel; target++ {
			want := target <= actor.EffectiveLevel()
			assert.Equal(t, want, Visible(actor, target), "actor level %d target %d", level, target)
			assert.Equal(t, want, CanGrant(actor, target), "grant predicate diverged at %d/%d", level, target)
		}
	}
}
