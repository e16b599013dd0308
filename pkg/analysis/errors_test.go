package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("timeout")

	cases := []struct {
		err  *Error
		want string
	}{
		{
			&Error{Kind: KindDataUnavailable, Subject: "DIV", Message: "dividend history unavailable", Err: cause},
			"data unavailable (DIV): dividend history unavailable: timeout",
		},
		{
			&Error{Kind: KindComputation, Subject: "ZERO", Message: "starting price must be positive, got 0"},
			"computation error (ZERO): starting price must be positive, got 0",
		},
		{
			&Error{Kind: KindAPI, Subject: "VOO/QQQ", Err: cause},
			"api error (VOO/QQQ): timeout",
		},
		{
			&Error{Kind: KindAPI, Subject: "VOO/ZZZZ", Status: 404, Message: "comparison endpoint rejected the request", Err: errors.New("API error: 404")},
			"api error (VOO/ZZZZ): status 404: comparison endpoint rejected the request: API error: 404",
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := error(&Error{Kind: KindDataUnavailable, Subject: "DIV", Message: "dividend history unavailable", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAPIError(err))
	assert.False(t, IsComputation(cause))
}
