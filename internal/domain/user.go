package domain

import "time"

// UserType clasifica al usuario dentro de la comunidad.
type UserType string

const (
	UserTypeDevotee UserType = "devotee"
	UserTypeMember  UserType = "member"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeDevotee, UserTypeMember:
		return true
	}
	return false
}

// AccountType indica el origen de la cuenta. Solo las cuentas internal
// llevan hash de password.
type AccountType string

const (
	AccountInternal AccountType = "internal"
	AccountGoogle   AccountType = "google"
	AccountOTP      AccountType = "otp"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountInternal, AccountGoogle, AccountOTP:
		return true
	}
	return false
}

type User struct {
	UserID       string      `json:"user_id"`
	FullName     string      `json:"full_name"`
	UserName     string      `json:"user_name"`
	PasswordHash string      `json:"-"`
	Email        string      `json:"email"`
	PhoneNumber  string      `json:"phone_number"`
	Picture      string      `json:"picture"`
	UserType     UserType    `json:"user_type"`
	AccountType  AccountType `json:"account_type"`
	CreatedAt    time.Time   `json:"-"`
}
