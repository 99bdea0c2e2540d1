package cli

import (
	"testing"

	"github.com/matzehuels/sankey/pkg/errors"
)

func TestServeRejectsUnreachableRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed port")
	}
	_, err := execute(t, "serve", "--redis", "redis://127.0.0.1:1/0", "--addr", "127.0.0.1:0")
	if err == nil {
		t.Fatal("serve should fail when redis is unreachable")
	}
}

func TestServeRejectsBadRedisURL(t *testing.T) {
	if _, err := execute(t, "serve", "--redis", "not a url"); err == nil {
		t.Error("serve should fail on a malformed redis URL")
	}
}

func TestServeRejectsBadConfig(t *testing.T) {
	style := writeFile(t, "style.toml", "widht = 100\n")
	if _, err := execute(t, "serve", "-c", style); err == nil {
		t.Error("serve should fail on an unknown config key")
	}
}

func TestServeRejectsBadMongoURI(t *testing.T) {
	_, err := execute(t, "serve", "--mongo", "http://localhost:27017")
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidInput {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidInput)
	}
}
