package request

import (
	"strings"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var verr validation.Error
	if strings.TrimSpace(r.Username) == "" {
		verr.Add("username", "username is required")
	}
	if r.Password == "" {
		verr.Add("password", "password is required")
	}
	return verr.OrNil()
}
