package profile

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/eduspace/web/core"
)

// Profile is the single-instance-per-session user record.
type Profile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	MiddleName string `json:"middleName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// FullName renders «Фамилия Имя Отчество», skipping an absent middle name.
func (p Profile) FullName() string {
	name := p.LastName + " " + p.FirstName
	if p.MiddleName != "" {
		name += " " + p.MiddleName
	}
	return name
}

// Repository is the slice of the remote API the profile screen depends on.
type Repository interface {
	FetchProfile(ctx context.Context, credential string) (Profile, error)
	ChangePassword(ctx context.Context, credential, oldPassword, newPassword string) error
}

const minPasswordLength = 6

const (
	fetchFailedText = "Error fetching user profile"

	MsgNewPasswordTooShort  = "Новый пароль должен содержать не менее 6 символов"
	MsgOldPasswordRequired  = "Введите старый пароль"
	MsgChangePasswordFailed = "Произошла ошибка отправки формы. Возможно старый пароль введен не верно"
)

// Store holds the session's profile, fetched once after authentication.
type Store struct {
	mu      sync.Mutex
	profile Profile
	loading bool
	err     string
}

func NewStore() *Store { return &Store{} }

type Snapshot struct {
	Profile Profile
	Loading bool
	Err     string
}

func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return Snapshot{Profile: st.profile, Loading: st.loading, Err: st.err}
}

func (st *Store) Fetch(ctx context.Context, repo Repository, credential string) error {
	st.mu.Lock()
	st.loading = true
	st.err = ""
	st.mu.Unlock()

	p, err := repo.FetchProfile(ctx, credential)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.loading = false
	if err != nil {
		st.err = fetchFailedText
		return errors.Wrap(err, "fetching profile")
	}
	st.profile = p
	return nil
}

// ValidateChangePassword runs the client-side checks before any network call.
func ValidateChangePassword(oldPassword, newPassword string) error {
	var flds []core.FieldError
	if oldPassword == "" {
		flds = append(flds, core.FieldError{Field: "oldPassword", Error: MsgOldPasswordRequired})
	}
	if len([]rune(newPassword)) < minPasswordLength {
		flds = append(flds, core.FieldError{Field: "newPassword", Error: MsgNewPasswordTooShort})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
