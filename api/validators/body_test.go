package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

type calculateBody struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func decode(t *testing.T, body string, dest any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/pricing/calculate", strings.NewReader(body))
	return DecodeJSONBody(req, dest)
}

func TestDecodeJSONBodyValid(t *testing.T) {
	t.Parallel()

	var payload calculateBody
	err := decode(t, `{"product_id":"0d9428a0-5727-4a91-9203-60ee4d04fa2f","quantity":3}`, &payload)
	require.NoError(t, err)
	assert.Equal(t, 3, payload.Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var payload calculateBody
	err := decode(t, `{"product_id":"0d9428a0-5727-4a91-9203-60ee4d04fa2f","quantity":1,"surprise":true}`, &payload)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	t.Parallel()

	var payload calculateBody
	err := decode(t, `{"product_id":"not-a-uuid","quantity":0}`, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "details should map fields to messages")
	assert.Contains(t, details, "product_id")
	assert.Contains(t, details, "quantity")
}

func TestParseUUIDHelpers(t *testing.T) {
	t.Parallel()

	id, err := ParseUUID("customer_id", "0d9428a0-5727-4a91-9203-60ee4d04fa2f")
	require.NoError(t, err)
	assert.Equal(t, "0d9428a0-5727-4a91-9203-60ee4d04fa2f", id.String())

	_, err = ParseUUID("customer_id", "nope")
	require.Error(t, err)

	ptr, err := ParseOptionalUUID("region_id", "")
	require.NoError(t, err)
	assert.Nil(t, ptr)
}
