package profile

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/eduspace/web/core"
)

type repoMock struct {
	profile Profile
	err     error
}

func (r *repoMock) FetchProfile(context.Context, string) (Profile, error) {
	return r.profile, r.err
}
func (r *repoMock) ChangePassword(context.Context, string, string, string) error { return r.err }

func TestStoreFetch(t *testing.T) {
	p := Profile{FirstName: "Иван", LastName: "Иванов", MiddleName: "Иванович", Email: "i@t.ru", Role: "teacher"}
	st := NewStore()
	err := st.Fetch(context.Background(), &repoMock{profile: p}, "tok")
	assert.NoError(t, err)

	snap := st.Snapshot()
	assert.Equal(t, p, snap.Profile)
	assert.Equal(t, "Иванов Иван Иванович", snap.Profile.FullName())
	assert.False(t, snap.Loading)
}

func TestStoreFetchFailure(t *testing.T) {
	st := NewStore()
	err := st.Fetch(context.Background(), &repoMock{err: errors.New("boom")}, "tok")
	assert.Error(t, err)
	assert.Equal(t, fetchFailedText, st.Snapshot().Err)
}

func TestFullNameWithoutMiddleName(t *testing.T) {
	p := Profile{FirstName: "Анна", LastName: "Смирнова"}
	assert.Equal(t, "Смирнова Анна", p.FullName())
}

func TestValidateChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		oldPwd    string
		newPwd    string
		wantField string
		wantText  string
	}{
		{name: "short new password", oldPwd: "old-secret", newPwd: "12345", wantField: "newPassword", wantText: MsgNewPasswordTooShort},
		{name: "missing old password", oldPwd: "", newPwd: "new-secret", wantField: "oldPassword", wantText: MsgOldPasswordRequired},
		{name: "ok", oldPwd: "old-secret", newPwd: "new-secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChangePassword(tt.oldPwd, tt.newPwd)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *core.ValidationError
			assert.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantText, vErr.FieldText(tt.wantField))
		})
	}
}

func TestValidateNewUser(t *testing.T) {
	middle := "Петрович"
	valid := func() NewUser {
		return NewUser{FirstName: "Пётр", LastName: "Петров", MiddleName: &middle, Email: "p@t.ru", Role: RoleStudent}
	}

	t.Run("valid", func(t *testing.T) {
		data := valid()
		assert.NoError(t, ValidateNewUser(&data, false))
	})

	t.Run("no middle name waives the field and nils it", func(t *testing.T) {
		data := valid()
		data.MiddleName = nil
		assert.NoError(t, ValidateNewUser(&data, true))
		assert.Nil(t, data.MiddleName)
	})

	tests := []struct {
		name      string
		mutate    func(*NewUser)
		wantField string
		wantText  string
	}{
		{name: "missing first name", mutate: func(u *NewUser) { u.FirstName = "  " }, wantField: "firstName", wantText: MsgFirstNameRequired},
		{name: "missing last name", mutate: func(u *NewUser) { u.LastName = "" }, wantField: "lastName", wantText: MsgLastNameRequired},
		{name: "missing middle name", mutate: func(u *NewUser) { u.MiddleName = nil }, wantField: "middleName", wantText: MsgMiddleNameRequired},
		{name: "missing email", mutate: func(u *NewUser) { u.Email = "" }, wantField: "email", wantText: MsgEmailInvalid},
		{name: "bad role", mutate: func(u *NewUser) { u.Role = "principal" }, wantField: "role", wantText: MsgRoleRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid()
			tt.mutate(&data)
			err := ValidateNewUser(&data, false)
			var vErr *core.ValidationError
			assert.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantText, vErr.FieldText(tt.wantField))
		})
	}
}
