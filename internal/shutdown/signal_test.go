package shutdown

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx, cancel := SetupSignalHandler(context.Background(), nil)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled without a signal")
	default:
	}
}

func TestSetupSignalHandler_ParentCancel(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	ctx, cancel := SetupSignalHandler(parent, nil)
	defer cancel()

	parentCancel()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}
}

func TestSetupSignalHandler_Cancel(t *testing.T) {
	ctx, cancel := SetupSignalHandler(context.Background(), nil)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("cancel func did not cancel the context")
	}
}

func TestSignalCancelsContext(t *testing.T) {
	if os.Getenv("CI") == "true" {
		t.Skip("Skipping signal test in CI environment")
	}

	received := make(chan os.Signal, 1)
	ctx, cancel := SetupSignalHandler(context.Background(), func(sig os.Signal) {
		received <- sig
	})
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after SIGINT")
	}

	select {
	case sig := <-received:
		assert.Equal(t, syscall.SIGINT, sig)
	default:
		t.Fatal("callback was not called before cancellation")
	}
}
