package model

import (
	"strings"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type RunScanInput struct {
	RepositoryURL string
	Credential    types.Credential
}

func (x *RunScanInput) Validate() error {
	if strings.TrimSpace(x.RepositoryURL) == "" {
		return goerr.Wrap(types.ErrInvalidInput, "repository URL is required")
	}
	if x.Credential == "" {
		return goerr.Wrap(types.ErrInvalidInput, "credential is required")
	}
	return nil
}

type PushNotificationInput struct {
	RepositoryURL string
	Credential    types.Credential
	Text          string
}

func (x *PushNotificationInput) Validate() error {
	if strings.TrimSpace(x.RepositoryURL) == "" {
		return goerr.Wrap(types.ErrInvalidInput, "repository URL is required")
	}
	if x.Credential == "" {
		return goerr.Wrap(types.ErrInvalidInput, "credential is required")
	}
	if strings.TrimSpace(x.Text) == "" {
		return goerr.Wrap(types.ErrInvalidInput, "notification text is required")
	}
	return nil
}
