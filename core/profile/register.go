package profile

import (
	"context"

	"github.com/eduspace/web/core"
)

// Roles offered on the user-creation screen.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var Roles = []string{RoleTeacher, RoleStudent, RoleAdmin}

// NewUser is the registration payload. MiddleName is nil when the «Нет
// отчества» box is checked.
type NewUser struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	MiddleName *string `json:"middleName"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
}

// RegisterRepository is the user-creation endpoint.
type RegisterRepository interface {
	RegisterUser(ctx context.Context, credential string, data NewUser) error
}

// User-creation texts.
const (
	MsgFirstNameRequired  = "Введите имя"
	MsgLastNameRequired   = "Введите фамилию"
	MsgMiddleNameRequired = "Введите отчество или выберите \"Нет отчества\""
	MsgEmailInvalid       = "Введите корректный email"
	MsgRoleRequired       = "Выберите роль"

	MsgEmailTaken     = "Пользователь с такой почтой уже зарегистрирован"
	MsgRegisterFailed = "Ошибка при регистрации пользователя. Попробуйте снова"
	MsgUnknownError   = "Произошла неизвестная ошибка"
)

// ValidateNewUser runs the empty-required-field checks before submission.
// noMiddleName waives the middle-name requirement and nils it out.
func ValidateNewUser(data *NewUser, noMiddleName bool) error {
	var flds []core.FieldError
	if core.CleanString(data.FirstName) == "" {
		flds = append(flds, core.FieldError{Field: "firstName", Error: MsgFirstNameRequired})
	}
	if core.CleanString(data.LastName) == "" {
		flds = append(flds, core.FieldError{Field: "lastName", Error: MsgLastNameRequired})
	}
	if noMiddleName {
		data.MiddleName = nil
	} else if data.MiddleName == nil || core.CleanString(*data.MiddleName) == "" {
		flds = append(flds, core.FieldError{Field: "middleName", Error: MsgMiddleNameRequired})
	}
	if core.CleanString(data.Email) == "" {
		flds = append(flds, core.FieldError{Field: "email", Error: MsgEmailInvalid})
	}
	if !validRole(data.Role) {
		flds = append(flds, core.FieldError{Field: "role", Error: MsgRoleRequired})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func validRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
