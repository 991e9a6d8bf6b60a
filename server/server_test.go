package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/runtime"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
	"github.com/bitfsorg/mediapay-go/token"
)

type fixture struct {
	rt      *runtime.Runtime
	handler http.Handler
	author  *ec.PrivateKey
	token   ledger.Identity
	media   ledger.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	rt, err := runtime.New(ledger.NewMemStore(), runtime.WithRegisterer(reg))
	require.NoError(t, err)

	author, err := ec.NewPrivateKey()
	require.NoError(t, err)

	f := &fixture{
		rt:      rt,
		handler: New(rt, nil, reg),
		author:  author,
		token:   ledger.DeriveIdentity("author-token"),
		media:   ledger.DeriveIdentity("media"),
	}
	ctx := context.Background()
	require.NoError(t, rt.CreateTokenAccount(ctx, f.token, ledger.DeriveIdentity("mint"), signer.IdentityOf(author.PubKey())))
	require.NoError(t, rt.AllocateStorage(ctx, f.media, state.MediaSize))
	return f
}

func (f *fixture) createMediaHex(t *testing.T, sign bool) string {
	t.Helper()
	env, err := runtime.NewCreateMedia(runtime.CreateMediaParams{
		Author:              signer.IdentityOf(f.author.PubKey()),
		ContentTokenAccount: f.token,
		Media:               f.media,
		ContentTokenProgram: token.ProgramID,
		PricePerMinute:      100,
		DistributorFee:      10,
	})
	require.NoError(t, err)
	if sign {
		require.NoError(t, env.Sign(f.author))
	}
	raw, err := env.Encode()
	require.NoError(t, err)
	return hex.EncodeToString(raw)
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func submitBody(t *testing.T, envelopeHex string) string {
	t.Helper()
	b, err := json.Marshal(SubmitRequest{Envelope: envelopeHex})
	require.NoError(t, err)
	return string(b)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/instructions", submitBody(t, f.createMediaHex(t, true)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "CreateMedia", resp.Instruction)
	assert.Equal(t, []string{f.media.String()}, resp.Modified)
	assert.Len(t, resp.ID, 64)
	assert.Nil(t, resp.Code)

	rec = f.do(t, http.MethodGet, "/v1/accounts/"+f.media.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view AccountView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Media)
	assert.Equal(t, uint64(100), view.Media.PricePerMinute)
	assert.Equal(t, uint64(10), view.Media.DistributorFee)
	assert.Equal(t, f.token.String(), view.Media.ContentTokenAccount)
	assert.Nil(t, view.AccessTime)
}

func TestSubmit_DuplicateConflicts(t *testing.T) {
	f := newFixture(t)
	body := submitBody(t, f.createMediaHex(t, true))

	rec := f.do(t, http.MethodPost, "/v1/instructions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/v1/instructions", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already executed")
}

func TestSubmit_ProgramError(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/instructions", submitBody(t, f.createMediaHex(t, false)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Code)
	assert.Equal(t, "MissingRequiredSignature", resp.CodeName)
	assert.Contains(t, resp.Error, "missing required signature")
}

func TestSubmit_BadRequests(t *testing.T) {
	f := newFixture(t)

	tampered := f.createMediaHex(t, true)
	raw, err := hex.DecodeString(tampered)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01 // corrupt the DER signature
	tampered = hex.EncodeToString(raw)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", "{", http.StatusBadRequest},
		{"not hex", submitBody(t, "zz"), http.StatusBadRequest},
		{"not an envelope", submitBody(t, "00"), http.StatusBadRequest},
		{"bad signature", submitBody(t, tampered), http.StatusUnauthorized},
		{"too large", strings.Repeat("a", maxRequestBodySize+1), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/v1/instructions", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestSubmit_UnknownProgram(t *testing.T) {
	f := newFixture(t)
	env := &runtime.Envelope{Program: ledger.DeriveIdentity("elsewhere")}
	raw, err := env.Encode()
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/v1/instructions", submitBody(t, hex.EncodeToString(raw)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccount(t *testing.T) {
	f := newFixture(t)

	t.Run("token account", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/accounts/"+f.token.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var view AccountView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.NotNil(t, view.TokenAccount)
		assert.Equal(t, signer.IdentityOf(f.author.PubKey()).String(), view.TokenAccount.Owner)
		assert.Equal(t, token.ProgramID.String(), view.Owner)
	})

	t.Run("rent sysvar", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/accounts/"+ledger.RentSysvarID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var view AccountView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.NotNil(t, view.Rent)
		assert.Equal(t, uint64(3480), view.Rent.LamportsPerByteYear)
	})

	t.Run("not found", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/accounts/"+ledger.DeriveIdentity("ghost").String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/accounts/xyz", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/v1/instructions", submitBody(t, f.createMediaHex(t, true)))

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `mediapay_instructions_total{instruction="CreateMedia",result="success"} 1`)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("mediapay_instruction_duration_seconds")))
}
