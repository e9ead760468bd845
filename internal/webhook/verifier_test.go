package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_verifier_test"

var testNow = time.Unix(1_700_000_000, 0)

func computeHex(ts int64, body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func header(ts int64, body, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, computeHex(ts, body, secret))
}

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, 5*time.Minute)
	require.NoError(t, err)
	v.now = func() time.Time { return testNow }
	return v
}

const validBody = `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`

func TestNewVerifier_EmptySecret(t *testing.T) {
	_, err := NewVerifier("", time.Minute)
	assert.ErrorIs(t, err, ErrMisconfiguredSecret)
}

func TestVerify_ValidSignature(t *testing.T) {
	v := newTestVerifier(t)

	event, err := v.Verify([]byte(validBody), header(testNow.Unix(), validBody, testSecret))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "checkout.session.completed", event.Kind)
	assert.JSONEq(t, `{"id":"cs_1"}`, string(event.Data))
}

func TestVerify_BitFlippedBody(t *testing.T) {
	v := newTestVerifier(t)
	sig := header(testNow.Unix(), validBody, testSecret)

	for _, i := range []int{0, len(validBody) / 2, len(validBody) - 1} {
		mutated := []byte(validBody)
		mutated[i] ^= 0x01

		_, err := v.Verify(mutated, sig)
		assert.ErrorIs(t, err, ErrSignatureMismatch, "flipped byte %d", i)
	}
}

func TestVerify_Errors(t *testing.T) {
	v := newTestVerifier(t)
	ts := testNow.Unix()

	tests := []struct {
		name    string
		body    string
		header  string
		wantErr error
	}{
		{
			name:    "missing header",
			body:    validBody,
			header:  "",
			wantErr: ErrMissingSignature,
		},
		{
			name:    "wrong secret",
			body:    validBody,
			header:  header(ts, validBody, "whsec_other"),
			wantErr: ErrSignatureMismatch,
		},
		{
			name:    "garbage header",
			body:    validBody,
			header:  "garbage",
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "non numeric timestamp",
			body:    validBody,
			header:  "t=abc,v1=" + computeHex(ts, validBody, testSecret),
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "timestamp without signature",
			body:    validBody,
			header:  fmt.Sprintf("t=%d", ts),
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "only undecodable signatures",
			body:    validBody,
			header:  fmt.Sprintf("t=%d,v1=zzzz", ts),
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "expired timestamp",
			body:    validBody,
			header:  header(ts-301, validBody, testSecret),
			wantErr: ErrExpired,
		},
		{
			name:    "malformed payload after valid signature",
			body:    "not-json",
			header:  header(ts, "not-json", testSecret),
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "payload missing event id",
			body:    `{"type":"checkout.session.completed","data":{"object":{}}}`,
			header:  header(ts, `{"type":"checkout.session.completed","data":{"object":{}}}`, testSecret),
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify([]byte(tc.body), tc.header)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestVerify_ExpiredEvenWithValidMAC(t *testing.T) {
	v := newTestVerifier(t)
	stale := testNow.Add(-time.Hour).Unix()

	// the MAC itself is correct, only the timestamp is outside tolerance
	_, err := v.Verify([]byte(validBody), header(stale, validBody, testSecret))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WithinTolerance(t *testing.T) {
	v := newTestVerifier(t)
	recent := testNow.Add(-4 * time.Minute).Unix()

	_, err := v.Verify([]byte(validBody), header(recent, validBody, testSecret))
	assert.NoError(t, err)
}

func TestVerify_MultipleSignatureCandidates(t *testing.T) {
	v := newTestVerifier(t)
	ts := testNow.Unix()

	h := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", ts, computeHex(ts, validBody, testSecret))
	_, err := v.Verify([]byte(validBody), h)
	assert.NoError(t, err)
}

func TestVerify_HeaderWithSpaces(t *testing.T) {
	v := newTestVerifier(t)
	ts := testNow.Unix()

	h := fmt.Sprintf("t=%d, v1=%s", ts, computeHex(ts, validBody, testSecret))
	_, err := v.Verify([]byte(validBody), h)
	assert.NoError(t, err)
}

func TestInsecureVerifier(t *testing.T) {
	v := NewInsecureVerifier()

	event, err := v.Verify([]byte(validBody), "")
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)

	// payload shape is still enforced
	_, err = v.Verify([]byte("not-json"), "")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
