package model

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// CloneUsername is the user name paired with a token in the clone URL authority.
const CloneUsername = "x-access-token"

// AuthTarget is a repository location paired with the credential that opens it.
// The credential is only combined with the URL on explicit request through
// AuthenticatedURL; String, LogValue and MarshalJSON expose the plain URL.
type AuthTarget struct {
	url        *url.URL
	credential types.Credential
}

// NewAuthTarget validates rawURL and binds it to credential. Only https URLs can
// carry a credential, so any other scheme fails with types.ErrUnsupportedScheme.
func NewAuthTarget(rawURL string, credential types.Credential) (*AuthTarget, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "repository URL is empty")
	}
	if credential == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "credential is empty")
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidInput, "failed to parse repository URL")
	}

	if !strings.EqualFold(u.Scheme, "https") {
		return nil, goerr.Wrap(types.ErrUnsupportedScheme, "repository URL must use https",
			goerr.V("scheme", u.Scheme),
		)
	}
	if u.Host == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "repository URL has no host")
	}
	if u.User != nil {
		return nil, goerr.Wrap(types.ErrInvalidInput, "repository URL must not contain user info")
	}

	plain := *u
	plain.Scheme = "https"
	plain.RawQuery = ""
	plain.Fragment = ""

	return &AuthTarget{
		url:        &plain,
		credential: credential,
	}, nil
}

// Validate reports whether x was built by NewAuthTarget. The zero value is invalid.
func (x *AuthTarget) Validate() error {
	if x == nil || x.url == nil || x.credential == "" {
		return goerr.Wrap(types.ErrInvalidInput, "authenticated target is not initialized")
	}
	if x.url.Scheme != "https" {
		return goerr.Wrap(types.ErrUnsupportedScheme, "repository URL must use https",
			goerr.V("scheme", x.url.Scheme),
		)
	}
	return nil
}

// URL returns the credential-free repository URL.
func (x *AuthTarget) URL() string {
	return x.url.String()
}

// AuthenticatedURL returns the URL with the credential in its authority. The
// value must only be handed to the clone transport and never be logged or kept.
func (x *AuthTarget) AuthenticatedURL() string {
	u := *x.url
	u.User = url.UserPassword(CloneUsername, string(x.credential))
	return u.String()
}

func (x *AuthTarget) Credential() types.Credential {
	return x.credential
}

// Secrets returns every encoding of the credential that may appear in tool output.
func (x *AuthTarget) Secrets() []string {
	raw := string(x.credential)
	secrets := []string{raw}
	for _, encoded := range []string{url.QueryEscape(raw), url.PathEscape(raw), url.UserPassword(CloneUsername, raw).String()} {
		if encoded != raw {
			secrets = append(secrets, encoded)
		}
	}
	return secrets
}

// RepoName returns a filesystem-safe identifier derived from the last path
// element of the URL, e.g. "https://host/org/repo.git" yields "repo".
func (x *AuthTarget) RepoName() string {
	base := strings.TrimSuffix(path.Base(strings.TrimRight(x.url.Path, "/")), ".git")
	base = strings.ToLower(base)

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, base)
	name = strings.Trim(name, "-.")

	if name == "" {
		return "repository"
	}
	return name
}

func (x *AuthTarget) String() string {
	return x.URL()
}

func (x *AuthTarget) LogValue() slog.Value {
	return slog.StringValue(x.URL())
}

func (x *AuthTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.URL())
}
