package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrPlotNotFound, http.StatusNotFound},
		{fmt.Errorf("analyze plot 3: %w", ErrNoReadings), http.StatusNotFound},
		{ErrAlertAlreadyResolved, http.StatusConflict},
		{ErrInvalidPlotID, http.StatusBadRequest},
		{NewBusinessError(http.StatusUnprocessableEntity, "bad"), http.StatusUnprocessableEntity},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
