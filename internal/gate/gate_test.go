package gate

import (
	"testing"

	"codeclass/internal/models"

	"github.com/stretchr/testify/assert"
)

func account(role models.Role, status models.Status) *models.Account {
	return &models.Account{ID: "a1", Role: role, Status: status}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want State
	}{
		{
			name: "resolving wins over everything",
			in:   Input{Resolving: true, SignedIn: true, ConfigError: true, Account: account(models.RoleStudent, models.StatusPending)},
			want: Loading,
		},
		{
			name: "signed out",
			in:   Input{ConfigError: true},
			want: Unauthenticated,
		},
		{
			name: "pending student",
			in:   Input{SignedIn: true, Account: account(models.RoleStudent, models.StatusPending)},
			want: WaitingRoom,
		},
		{
			name: "pending beats config error",
			in:   Input{SignedIn: true, ConfigError: true, Account: account(models.RoleStudent, models.StatusPending)},
			want: WaitingRoom,
		},
		{
			name: "rejected student",
			in:   Input{SignedIn: true, Account: account(models.RoleStudent, models.StatusRejected)},
			want: Rejected,
		},
		{
			name: "config error for active student",
			in:   Input{SignedIn: true, ConfigError: true, Account: account(models.RoleStudent, models.StatusActive)},
			want: SetupRequired,
		},
		{
			name: "config error with unreadable account",
			in:   Input{SignedIn: true, ConfigError: true},
			want: SetupRequired,
		},
		{
			name: "active student",
			in:   Input{SignedIn: true, Account: account(models.RoleStudent, models.StatusActive)},
			want: Main,
		},
		{
			name: "pending admin bypasses waiting room",
			in:   Input{SignedIn: true, Account: account(models.RoleAdmin, models.StatusPending)},
			want: Main,
		},
		{
			name: "rejected admin bypasses rejection",
			in:   Input{SignedIn: true, Account: account(models.RoleAdmin, models.StatusRejected)},
			want: Main,
		},
		{
			name: "admin still sees setup errors",
			in:   Input{SignedIn: true, ConfigError: true, Account: account(models.RoleAdmin, models.StatusActive)},
			want: SetupRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.in))
		})
	}
}

func TestPendingStudentWithLessonsSeesWaitingRoom(t *testing.T) {
	in := Input{SignedIn: true, Account: account(models.RoleStudent, models.StatusPending)}
	assert.Equal(t, WaitingRoom, ResolveScreen(in, ScreenDashboard))
}

func TestCanView(t *testing.T) {
	student := account(models.RoleStudent, models.StatusActive)
	admin := account(models.RoleAdmin, models.StatusActive)

	assert.True(t, CanView(student, ScreenLessons))
	assert.False(t, CanView(student, ScreenAdmin))
	assert.False(t, CanView(student, ScreenEditor))
	assert.False(t, CanView(nil, ScreenAdmin))
	assert.True(t, CanView(admin, ScreenEditor))

	assert.Equal(t, AccessDenied, ResolveScreen(Input{SignedIn: true, Account: student}, ScreenAdmin))
	assert.Equal(t, Main, ResolveScreen(Input{SignedIn: true, Account: admin}, ScreenAdmin))
}
