package pipeline

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saylorsolutions/sealdrop/pkg/locator"
	"github.com/saylorsolutions/sealdrop/pkg/sealbox"
)

const (
	testIndex = "2020123"
	testID    = "987654321"
	// Sealed under the key derived from testID and testIndex.
	plainBlobHex  = "000102030405060708090a0b959dd81e0bcb4aedcc6f9c721456549cca1442e768cb2bf3b5a3dee73f260fbb56"
	markupBlobHex = "000102030405060708090a0bc5d1855621a47bdce64ab5265c565c888075dde51c3ea6f36b6de6fa626016e6bd8a67a4ade604fefffb723794ba4ed31aa53d61c74bab2a56f446075068abdb4ccfdfe0943d743742066daf9c88"
)

type fetcherFunc func(ctx context.Context, name string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

func testBlob(t *testing.T, blobHex string) []byte {
	t.Helper()
	blob, err := hex.DecodeString(blobHex)
	require.NoError(t, err)
	return blob
}

func serveBlob(t *testing.T, blob []byte) Fetcher {
	t.Helper()
	return fetcherFunc(func(_ context.Context, name string) ([]byte, error) {
		assert.Equal(t, locator.Resolve(testIndex, testID), name)
		return blob, nil
	})
}

func TestRunnerRun(t *testing.T) {
	runner, err := New(serveBlob(t, testBlob(t, plainBlobHex)))
	require.NoError(t, err)

	content, err := runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	require.NoError(t, err)
	assert.Equal(t, KindText, content.Kind)
	assert.Equal(t, "plain result text", content.Text)
}

func TestRunnerRunMarkup(t *testing.T) {
	runner, err := New(serveBlob(t, testBlob(t, markupBlobHex)))
	require.NoError(t, err)

	content, err := runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	require.NoError(t, err)
	assert.Equal(t, KindMarkup, content.Kind)
	assert.Equal(t, "  <!DOCTYPE html><html><body><p>Result: PASS</p></body></html>", content.Text)
}

func TestRunnerRunFetchError(t *testing.T) {
	errBoom := errors.New("boom")
	runner, err := New(fetcherFunc(func(_ context.Context, _ string) ([]byte, error) {
		return nil, errBoom
	}))
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	assert.ErrorIs(t, err, errBoom, "a fetch failure should surface unchanged")
}

func TestRunnerRunWrongIdentity(t *testing.T) {
	blob := testBlob(t, plainBlobHex)
	runner, err := New(fetcherFunc(func(_ context.Context, _ string) ([]byte, error) {
		return blob, nil
	}))
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Identity{Index: testIndex, ID: "987654320"})
	assert.ErrorIs(t, err, sealbox.ErrAuthentication)
}

func TestRunnerRunTamperedBlob(t *testing.T) {
	blob := testBlob(t, plainBlobHex)
	blob[len(blob)-1] ^= 0x01
	runner, err := New(serveBlob(t, blob))
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	assert.ErrorIs(t, err, sealbox.ErrAuthentication)
}

func TestRunnerRunMalformedBlob(t *testing.T) {
	runner, err := New(serveBlob(t, []byte{0x01, 0x02, 0x03}))
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	assert.ErrorIs(t, err, sealbox.ErrMalformedBlob)
}

func TestRunnerRunInvalidText(t *testing.T) {
	key := sealbox.DeriveKey(testID, testIndex)
	blob, err := sealbox.Seal(key, []byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)
	runner, err := New(serveBlob(t, blob))
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	assert.ErrorIs(t, err, sealbox.ErrEncoding)
}

func TestRunnerRunContextCanceled(t *testing.T) {
	runner, err := New(fetcherFunc(func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, Identity{Index: testIndex, ID: testID})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerRunLogsNoSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	runner, err := New(serveBlob(t, testBlob(t, plainBlobHex)), WithLogger(log))
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Identity{Index: testIndex, ID: testID})
	require.NoError(t, err)

	logged := buf.String()
	assert.NotEmpty(t, logged)
	assert.Contains(t, logged, locator.Resolve(testIndex, testID))
	assert.NotContains(t, logged, testIndex)
	assert.NotContains(t, logged, testID)
	key := sealbox.DeriveKey(testID, testIndex)
	assert.NotContains(t, strings.ToLower(logged), hex.EncodeToString(key))
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(fetcherFunc(func(_ context.Context, _ string) ([]byte, error) {
		return nil, nil
	}), WithLogger(nil))
	assert.Error(t, err)
}
