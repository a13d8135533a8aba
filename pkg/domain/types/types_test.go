package types_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestCredentialIsMasked(t *testing.T) {
	cred := types.Credential("ghp_supersecret")

	t.Run("fmt verbs do not expose the secret", func(t *testing.T) {
		gt.V(t, fmt.Sprintf("%s", cred)).NotEqual("ghp_supersecret")
		gt.V(t, fmt.Sprintf("%v", cred)).NotEqual("ghp_supersecret")
		gt.V(t, fmt.Sprintf("%#v", cred)).NotEqual("ghp_supersecret")
	})

	t.Run("slog value is masked", func(t *testing.T) {
		gt.V(t, cred.LogValue().Kind()).Equal(slog.KindString)
		gt.V(t, cred.LogValue().String()).NotEqual("ghp_supersecret")
	})

	t.Run("json is masked", func(t *testing.T) {
		raw := gt.R1(json.Marshal(struct {
			Cred types.Credential `json:"cred"`
		}{Cred: cred})).NoError(t)
		gt.False(t, strings.Contains(string(raw), "supersecret"))
	})

	t.Run("explicit conversion still yields the secret", func(t *testing.T) {
		gt.V(t, string(cred)).Equal("ghp_supersecret")
	})
}

func TestCredentialRef(t *testing.T) {
	a := types.Credential("token-a")
	b := types.Credential("token-b")

	gt.V(t, a.Ref()).Equal(a.Ref())
	gt.V(t, a.Ref()).NotEqual(b.Ref())
	gt.V(t, len(a.Ref())).Equal(64)
	gt.False(t, strings.Contains(a.Ref().String(), "token-a"))
}

func TestNewIDs(t *testing.T) {
	gt.V(t, types.NewJobID()).NotEqual(types.NewJobID())
	gt.V(t, types.NewNotificationID()).NotEqual(types.NewNotificationID())
	gt.V(t, types.NewRequestID()).NotEqual("")
}
