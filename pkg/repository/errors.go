package repository

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

// Errors returned by every NotificationRepository backend. Match with errors.Is.
var (
	ErrNotFound      = goerr.New("notification not found")
	ErrAlreadyExists = goerr.New("notification already exists")

	// ErrInvalidInput is the domain error so that the API answers 400 for it.
	ErrInvalidInput = types.ErrInvalidInput
)
