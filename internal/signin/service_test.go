package signin_test

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/SafeMPC/signin-service/internal/farcaster"
	"github.com/SafeMPC/signin-service/internal/metrics"
	"github.com/SafeMPC/signin-service/internal/signin"
	"github.com/SafeMPC/signin-service/internal/signin/store"
	"github.com/SafeMPC/signin-service/internal/test"
	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexKey = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

type fixture struct {
	service  *signin.Service
	store    *store.Memory
	upstream *test.FakeWarpcast
	clock    *time2.MockClock
	registry *prometheus.Registry
}

func newFixture(t *testing.T, random io.Reader) *fixture {
	t.Helper()

	clock := time2.NewMockClock(time.Unix(1700000000, 0))

	account, err := farcaster.NewDeveloperAccount(test.TestMnemonic, "m/44'/60'/0'/0/0")
	require.NoError(t, err)

	upstream := test.NewFakeWarpcast(t)
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	st := store.NewMemory(time.Hour, clock)
	signer := farcaster.NewKeyRequestSigner(1234, account, clock)
	client := farcaster.NewClient(upstream.URL(), 5*time.Second)

	return &fixture{
		service:  signin.NewService(signer, client, st, m, random, clock),
		store:    st,
		upstream: upstream,
		clock:    clock,
		registry: registry,
	}
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, rand.Reader)

	pending, err := f.service.SignIn(ctx)
	require.NoError(t, err)

	assert.Equal(t, signin.StatusPendingApproval, pending.Status)
	assert.Regexp(t, hexKey, pending.PublicKey)
	assert.Regexp(t, hexKey, pending.PrivateKey)
	assert.NotEqual(t, pending.PublicKey, pending.PrivateKey)
	assert.NotEmpty(t, pending.Token)
	assert.True(t, strings.HasPrefix(pending.DeepLinkURL, "farcaster://"), pending.DeepLinkURL)
	assert.Equal(t, uint64(1234), pending.RequestFID)
	assert.Equal(t, test.TestDeveloperAddress, pending.RequestSigner)
	assert.Equal(t, f.clock.Now().Unix()+86400, pending.Deadline)

	created := f.upstream.Created()
	require.Len(t, created, 1)
	assert.Equal(t, pending.PublicKey, created[0].Key)
	assert.Equal(t, uint64(1234), created[0].RequestFid)
	assert.Equal(t, pending.Deadline, created[0].Deadline)

	// what was submitted verifies against the developer address
	key, err := hexutil.Decode(created[0].Key)
	require.NoError(t, err)
	sig, err := hexutil.Decode(created[0].Signature)
	require.NoError(t, err)
	recovered, err := farcaster.RecoverKeyRequestSigner(farcaster.KeyRequestMessage{
		RequestFID: created[0].RequestFid,
		Key:        key,
		Deadline:   created[0].Deadline,
	}, sig)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(test.TestDeveloperAddress), recovered)

	rec, err := f.service.Lookup(ctx, pending.Token)
	require.NoError(t, err)
	assert.Equal(t, pending.PublicKey, rec.PublicKey)
	assert.Equal(t, signin.StatusPendingApproval, rec.State)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), pending.PrivateKey)

	assert.Equal(t, 1.0, counterValue(t, f.registry, "signin_requests_total", "success"))
}

func TestSignInFreshKeypairs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, rand.Reader)

	first, err := f.service.SignIn(ctx)
	require.NoError(t, err)
	second, err := f.service.SignIn(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.PublicKey, second.PublicKey)
	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, 2, f.store.Len())
}

func TestSignInUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, rand.Reader)
	f.upstream.FailWith(http.StatusInternalServerError, "something broke")

	pending, err := f.service.SignIn(ctx)
	require.Error(t, err)
	assert.Nil(t, pending)
	assert.ErrorIs(t, err, farcaster.ErrUpstreamStatus)

	var upstreamErr *farcaster.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.Status)
	assert.Equal(t, []string{"something broke"}, upstreamErr.Messages)

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 1.0, counterValue(t, f.registry, "signin_requests_total", "register_failed"))
}

func TestSignInKeypairFailure(t *testing.T) {
	f := newFixture(t, iotest.ErrReader(errors.New("no entropy")))

	_, err := f.service.SignIn(context.Background())
	require.Error(t, err)

	assert.Empty(t, f.upstream.Created())
	assert.Equal(t, 0, f.store.Len())
}

func TestPoll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, rand.Reader)

	pending, err := f.service.SignIn(ctx)
	require.NoError(t, err)

	result, err := f.service.Poll(ctx, pending.Token)
	require.NoError(t, err)
	assert.Equal(t, farcaster.StatePending, result.State)
	assert.Nil(t, result.UserFID)

	userFID := int64(977233)
	f.upstream.SetState(pending.Token, farcaster.StateCompleted, &userFID)
	f.clock.Advance(time.Minute)

	result, err = f.service.Poll(ctx, pending.Token)
	require.NoError(t, err)
	assert.Equal(t, farcaster.StateCompleted, result.State)
	require.NotNil(t, result.UserFID)
	assert.Equal(t, userFID, *result.UserFID)

	rec, err := f.service.Lookup(ctx, pending.Token)
	require.NoError(t, err)
	assert.Equal(t, farcaster.StateCompleted, rec.State)
	require.NotNil(t, rec.UserFID)
	assert.Equal(t, userFID, *rec.UserFID)
	assert.True(t, rec.CreatedAt.Add(time.Minute).Equal(rec.UpdatedAt))
}

func TestPollPassesThroughUnrecognizedStates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, rand.Reader)

	f.upstream.SetState("0xrevoked", "revoked", nil)

	result, err := f.service.Poll(ctx, "0xrevoked")
	require.NoError(t, err)
	assert.Equal(t, "revoked", result.State)
	assert.Equal(t, 1.0, counterValue(t, f.registry, "signin_polls_total", "other"))
}

func TestPollUnknownToken(t *testing.T) {
	f := newFixture(t, rand.Reader)

	result, err := f.service.Poll(context.Background(), "0xdoesnotexist")
	require.NoError(t, err)
	assert.Equal(t, farcaster.StateUnknown, result.State)
	assert.Nil(t, result.UserFID)
}

func TestPollUpstreamUnreachable(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1700000000, 0))
	account, err := farcaster.NewDeveloperAccount(test.TestMnemonic, "m/44'/60'/0'/0/0")
	require.NoError(t, err)

	upstream := test.NewFakeWarpcast(t)
	upstream.Server.Close()

	s := signin.NewService(
		farcaster.NewKeyRequestSigner(1234, account, clock),
		farcaster.NewClient(upstream.URL(), time.Second),
		nil,
		nil,
		rand.Reader,
		clock,
	)

	_, err = s.Poll(context.Background(), "0xabc")
	require.Error(t, err)

	_, err = s.SignIn(context.Background())
	require.Error(t, err)

	// without a store nothing can be looked up
	_, err = s.Lookup(context.Background(), "0xabc")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func counterValue(t *testing.T, registry *prometheus.Registry, name string, label string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}
