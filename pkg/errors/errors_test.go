package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_HTTPStatusFromError(t *testing.T) {
	req := require.New(t)

	req.Equal(http.StatusNotFound, HTTPStatusFromError(ErrChatNotFound))
	req.Equal(http.StatusNotFound, HTTPStatusFromError(ErrMembershipNotFound))
	req.Equal(http.StatusForbidden, HTTPStatusFromError(ErrNotParticipant))
	req.Equal(http.StatusForbidden, HTTPStatusFromError(ErrLeftChat))
	req.Equal(http.StatusBadRequest, HTTPStatusFromError(ErrDirectChatParticipants))
	req.Equal(http.StatusConflict, HTTPStatusFromError(ErrDirectChatExists))
	req.Equal(http.StatusInternalServerError, HTTPStatusFromError(fmt.Errorf("connection refused")))
}

func Test_WrappedErrorsKeepTheirCategory(t *testing.T) {
	req := require.New(t)

	wrapped := fmt.Errorf("send message: %w", ErrLeftChat)
	req.Equal(http.StatusForbidden, HTTPStatusFromError(wrapped))
}
