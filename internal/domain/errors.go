package domain

import "errors"

var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAllowListUnavailable   = errors.New("allow-list unavailable")
	ErrInsufficientCollateral = errors.New("insufficient free collateral")
	ErrMarketNotFound         = errors.New("market not found")
	ErrInvalidOrder           = errors.New("invalid order parameters")
	ErrSigningFailed          = errors.New("signing failed")
	ErrExchangeUnavailable    = errors.New("exchange unavailable")
)
