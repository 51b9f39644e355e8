package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/eduspace/web/core"
)

// Storage areas the credential can live in. Exactly one of them holds the
// token at a time; the choice is made at login ("remember me" → durable).
type Area int

const (
	AreaDurable Area = iota
	AreaEphemeral
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

const minPasswordLength = 6

// User-facing texts (the UI is Russian end to end).
const (
	MsgPasswordTooShort = "Пароль должен содержать не менее 6 символов"
	MsgLoginFailed      = "Почта или пароль введены неверно. Попробуйте снова"
	MsgEmailRequired    = "Введите email адрес"
	MsgPasswordRequired = "Введите пароль"
)

// Storage abstracts the two browser-side storage areas (two cookies in the
// web layer, an in-memory fake in tests).
type Storage interface {
	Read(area Area) (credential string, ok bool)
	Write(area Area, credential string)
	Clear(area Area)
}

// Authenticator exchanges credentials for an opaque bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (credential string, err error)
}

// Session holds the opaque bearer credential and the derived auth flag.
// State machine: Unauthenticated → (login success) → Authenticated →
// (logout) → Unauthenticated. There is no refresh state: an expired token
// keeps the session nominally authenticated and surfaces as remote 401s.
type Session struct {
	mu         sync.Mutex
	credential string
	area       Area
	state      State
	loading    bool
	err        string
}

func New() *Session { return &Session{} }

// Restore builds a session from a previously stored credential, preferring
// the durable area when both happen to be populated. Read-only.
func Restore(store Storage) *Session {
	s := New()
	if cred, ok := store.Read(AreaDurable); ok {
		s.credential, s.area, s.state = cred, AreaDurable, Authenticated
	} else if cred, ok := store.Read(AreaEphemeral); ok {
		s.credential, s.area, s.state = cred, AreaEphemeral, Authenticated
	}
	return s
}

func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Authenticated
}

func (s *Session) Scope() Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area
}

func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Service drives the session lifecycle against the remote authentication
// endpoint and the credential storage areas.
type Service struct {
	auth Authenticator
}

func NewService(auth Authenticator) *Service {
	return &Service{auth: auth}
}

// ValidateLogin runs the client-side checks that must reject a login attempt
// before any network call is made.
func ValidateLogin(email, password string) (string, error) {
	email = core.CleanString(email, true /* lower */)
	var flds []core.FieldError
	if email == "" {
		flds = append(flds, core.FieldError{Field: "email", Error: MsgEmailRequired})
	}
	if password == "" {
		flds = append(flds, core.FieldError{Field: "password", Error: MsgPasswordRequired})
	} else if len([]rune(password)) < minPasswordLength {
		flds = append(flds, core.FieldError{Field: "password", Error: MsgPasswordTooShort})
	}
	if flds != nil {
		return email, core.NewValidationError(nil, flds...)
	}
	return email, nil
}

// Login authenticates against the remote API and, on success, stores the
// returned token in exactly one storage area per `remember`. A failed attempt
// records an error on the session but never clears a prior credential.
func (svc *Service) Login(ctx context.Context, store Storage, s *Session, email, password string, remember bool) error {
	email, err := ValidateLogin(email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	cred, err := svc.auth.Login(ctx, email, password)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.err = MsgLoginFailed
		s.mu.Unlock()
		return errors.Wrap(err, "authenticating")
	}

	area := AreaEphemeral
	if remember {
		area = AreaDurable
	}
	// at most one non-null credential is active at a time
	store.Clear(AreaDurable)
	store.Clear(AreaEphemeral)
	store.Write(area, cred)

	s.mu.Lock()
	s.credential = cred
	s.area = area
	s.state = Authenticated
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	return nil
}

// Logout clears the credential from both storage areas and resets the
// in-memory state synchronously.
func (svc *Service) Logout(store Storage, s *Session) {
	store.Clear(AreaDurable)
	store.Clear(AreaEphemeral)

	s.mu.Lock()
	s.credential = ""
	s.state = Unauthenticated
	s.loading = false
	s.err = ""
	s.mu.Unlock()
}
