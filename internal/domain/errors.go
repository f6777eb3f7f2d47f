package domain

import "errors"

var (
	ErrInvalidOpeningHours = errors.New("domain: invalid opening hours")
	ErrInvalidTimezone     = errors.New("domain: invalid timezone")
)
