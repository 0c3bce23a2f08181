package user

import "errors"

var ErrUserNotFound = errors.New("user not found")

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	Timezone string
	// Currency is a display hint only; all amounts are single-currency.
	Currency string
}
